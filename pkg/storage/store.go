// Copyright © 2018 One Concern

// Package storage provides the byte-level read/write/list contract that
// the log core is built against (component C1). Implementations are
// assumed to be fairly simple: a K/V-like namespace of paths, with no
// notion of the log's own semantics.
package storage

import (
	"context"
	"io"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage/status"
)

// re-exported so callers only need to import this package for the
// common cases; status also declares errors specific to individual
// backends.
var (
	ErrNotFound = status.ErrNotFound
	ErrExists   = status.ErrExists
)

// WriteMode controls whether Put is allowed to clobber an existing
// object. NoOverwrite is the primitive the commit protocol (C4) relies
// on for optimistic concurrency: a backend that honors it turns a
// concurrent commit race into a clean ErrExists instead of silent
// corruption.
type WriteMode int

const (
	// Overwrite replaces any existing object at the target path.
	Overwrite WriteMode = iota
	// NoOverwrite fails with ErrExists if the target path is already
	// occupied. Implementations SHOULD make this atomic (a real
	// compare-and-swap on existence); a best-effort check-then-write is
	// permitted for single-writer deployments but must be documented as
	// such at the call site.
	NoOverwrite
)

// Store implementations know how to read, write and enumerate a
// namespace of paths.
//
// Typically this is something file system-like: local disk, an object
// store, NFS, ... Implementations are assumed to be fairly simple; the
// log core layers all of its semantics (versioning, replace-folding,
// checkpointing) on top of this contract.
type Store interface {
	String() string
	Has(ctx context.Context, path string) (bool, error)
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Put(ctx context.Context, path string, source io.Reader, mode WriteMode) error
	Delete(ctx context.Context, path string) error
	// List enumerates the direct entries under dirPath. Ordering is
	// unspecified; a non-existent directory yields an empty slice, not
	// an error.
	List(ctx context.Context, dirPath string) ([]string, error)
	Clear(ctx context.Context) error
}

// AtomicPutter is an optional capability a Store implementation can
// advertise: AtomicWrites reports whether its NoOverwrite mode is a true
// compare-and-swap-on-existence rather than a best-effort check-then-write.
// Callers that need a hard guarantee (see config.Options.RequireAtomicCommit)
// type-assert for this interface; a Store that doesn't implement it is
// treated as unable to make the guarantee.
type AtomicPutter interface {
	AtomicWrites() bool
}

// GetBytes is a convenience wrapper reading a whole object into memory.
func GetBytes(ctx context.Context, store Store, path string) ([]byte, error) {
	rdr, err := store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return io.ReadAll(rdr)
}
