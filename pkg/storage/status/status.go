// Package status declares error constants returned by the storage
// package and its backend implementations.
package status

import (
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/errors"
)

var (
	// ErrNotFound signals that a path was read but does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists signals that Put was called with NoOverwrite against a
	// path that is already occupied.
	ErrExists = errors.New("exists already")

	// ErrIO signals a lower-level backend failure not covered by the
	// above (permissions, disk full, network partition, ...).
	ErrIO = errors.New("storage io error")
)
