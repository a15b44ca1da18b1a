// Copyright © 2018 One Concern

// Package localfs implements the storage.Store contract over an
// afero.Fs, giving the log core a byte-level backend it can run against
// plain disk or, for tests, an in-memory filesystem.
package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage/status"
)

// New creates a local file system backed storage.Store. A nil fs
// defaults to the OS filesystem rooted at ".deeplake_log".
//
// NoOverwrite is honored via O_EXCL, which is atomic on every afero.Fs
// backend that maps onto a real filesystem (including the in-memory one
// used by tests): two concurrent Put calls racing for the same path
// resolve to exactly one winner and one status.ErrExists.
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".", ".deeplake_log"))
	}
	return &localFS{fs: fs}
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) Has(_ context.Context, path string) (bool, error) {
	fi, err := l.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, status.ErrIO.Wrap(err)
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, path)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotFound
	}
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, status.ErrIO.Wrap(err)
	}
	return f, nil
}

func (l *localFS) Put(_ context.Context, path string, source io.Reader, mode storage.WriteMode) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return status.ErrIO.Wrap(err)
		}
	}

	flag := os.O_CREATE | os.O_WRONLY
	if mode == storage.NoOverwrite {
		flag |= os.O_EXCL
	} else {
		flag |= os.O_TRUNC
	}

	target, err := l.fs.OpenFile(path, flag, 0600)
	if err != nil {
		if os.IsExist(err) {
			return status.ErrExists
		}
		return status.ErrIO.Wrap(err)
	}
	if _, err := io.Copy(target, source); err != nil {
		_ = target.Close()
		return status.ErrIO.Wrap(err)
	}
	if err := target.Close(); err != nil {
		return status.ErrIO.Wrap(err)
	}
	return nil
}

func (l *localFS) Delete(_ context.Context, path string) error {
	if err := l.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return status.ErrIO.Wrap(err)
	}
	return nil
}

// List enumerates the direct entries under dirPath, non-recursively. A
// missing directory is not an error: it simply has no entries, matching
// the log reader's expectation that a branch with zero commits is a
// valid (if uninteresting) thing to list.
func (l *localFS) List(_ context.Context, dirPath string) ([]string, error) {
	entries, err := afero.ReadDir(l.fs, dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, status.ErrIO.Wrap(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, filepath.Join(dirPath, e.Name()))
	}
	return names, nil
}

func (l *localFS) Clear(_ context.Context) error {
	entries, err := afero.ReadDir(l.fs, ".")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return status.ErrIO.Wrap(err)
	}
	for _, e := range entries {
		if err := l.fs.RemoveAll(e.Name()); err != nil {
			return status.ErrIO.Wrap(err)
		}
	}
	return nil
}

// AtomicWrites reports true: O_EXCL is a real compare-and-swap on every
// afero.Fs backend this package is used against, real disk or in-memory.
func (l *localFS) AtomicWrites() bool { return true }

func (l *localFS) String() string {
	const name = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return name
		}
		return name + "@" + pp
	default:
		return name
	}
}
