// Package legacy recognizes the pre-transaction-log dataset format
// (format version 3, keyed off a single "/dataset_meta.json" file at the
// storage root) so that deeplog.OpenAny can tell a caller it found a
// real but unsupported dataset instead of reporting it as unrecognized
// storage.
//
// The v3 layout itself was never part of the traced action set this
// module implements; Reader exists to name the failure precisely, not
// to read v3 data.
package legacy

import (
	"context"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/status"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage"
)

const datasetMetaPath = "/dataset_meta.json"

// Reader recognizes a v3 dataset without being able to read it.
type Reader struct {
	store storage.Store
}

// Detect reports whether store holds a v3 dataset.
func Detect(ctx context.Context, store storage.Store) (bool, error) {
	return store.Has(ctx, datasetMetaPath)
}

// Open returns a Reader for a store already confirmed by Detect to hold
// a v3 dataset.
func Open(ctx context.Context, store storage.Store) (*Reader, error) {
	found, err := Detect(ctx, store)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, status.ErrUnknownFormat
	}
	return &Reader{store: store}, nil
}

// Version always fails: v3 has no notion of the branch-versioned log
// this package implements.
func (r *Reader) Version(context.Context, string) (uint64, error) {
	return 0, status.ErrUnsupportedVersion
}

// GetActions always fails: see Version.
func (r *Reader) GetActions(context.Context, string, *uint64) ([]action.Action, uint64, error) {
	return nil, 0, status.ErrUnsupportedVersion
}
