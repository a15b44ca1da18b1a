// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage/status"
)

func setupStore(t *testing.T) storage.Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	s := New(fs)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "sixteentons", strings.NewReader("this is the text"), storage.Overwrite))
	require.NoError(t, s.Put(ctx, "seventeentons", strings.NewReader("this is the text for another thing"), storage.Overwrite))
	return s
}

func TestHas(t *testing.T) {
	bs := setupStore(t)

	has, err := bs.Has(context.Background(), "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "fifteentons")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs := setupStore(t)

	rdr, err := bs.Get(context.Background(), "sixteentons")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, "this is the text", string(b))

	_, err = bs.Get(context.Background(), "nope")
	require.ErrorIs(t, err, status.ErrNotFound)
}

func TestList(t *testing.T) {
	bs := setupStore(t)

	ctx := context.Background()
	require.NoError(t, bs.Put(ctx, "dir/a.json", strings.NewReader("a"), storage.Overwrite))
	require.NoError(t, bs.Put(ctx, "dir/b.json", strings.NewReader("b"), storage.Overwrite))

	names, err := bs.List(ctx, "dir")
	require.NoError(t, err)
	require.Len(t, names, 2)

	names, err = bs.List(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestDelete(t *testing.T) {
	bs := setupStore(t)

	require.NoError(t, bs.Delete(context.Background(), "seventeentons"))
	has, _ := bs.Has(context.Background(), "seventeentons")
	assert.False(t, has)
}

func TestClear(t *testing.T) {
	bs := setupStore(t)

	require.NoError(t, bs.Clear(context.Background()))
	has, _ := bs.Has(context.Background(), "sixteentons")
	require.False(t, has)
}

func TestPutNoOverwrite(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	err := bs.Put(ctx, "sixteentons", strings.NewReader("clobber"), storage.NoOverwrite)
	require.ErrorIs(t, err, status.ErrExists)

	require.NoError(t, bs.Put(ctx, "new-key", strings.NewReader("v1"), storage.NoOverwrite))
	rdr, err := bs.Get(ctx, "new-key")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))
}

func TestPutOverwrite(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "sixteentons", strings.NewReader("clobbered"), storage.Overwrite))
	rdr, err := bs.Get(ctx, "sixteentons")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, "clobbered", string(b))
}
