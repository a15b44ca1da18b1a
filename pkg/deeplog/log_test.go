package deeplog

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/status"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage/localfs"
)

func TestCreateAndOpen(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	version, err := log.Version(ctx, MetaBranchID)
	require.NoError(t, err)
	require.EqualValues(t, 1, version)

	reopened, err := Open(ctx, store)
	require.NoError(t, err)
	version, err = reopened.Version(ctx, MetaBranchID)
	require.NoError(t, err)
	require.EqualValues(t, 1, version)
}

func TestCreateTwiceFails(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	_, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	_, err = Create(ctx, store, LogFormat)
	require.ErrorIs(t, err, status.ErrAlreadyInitialized)
}

func TestOpenUnknownFormat(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	_, err := Open(ctx, store)
	require.ErrorIs(t, err, status.ErrUnknownFormat)
}

func TestCreateRejectsUnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	_, err := Create(ctx, store, 2)
	require.ErrorIs(t, err, status.ErrUnsupportedVersion)

	_, err = Create(ctx, store, 3)
	require.ErrorIs(t, err, status.ErrUnsupportedVersion)
}

func TestProtocolAbsentIsCorruptLog(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	empty, err := Data(ctx, log, "some-other-branch", nil)
	require.NoError(t, err)
	meta := &MetadataSnapshot{baseSnapshot: empty.baseSnapshot}

	_, err = meta.Protocol()
	require.ErrorIs(t, err, status.ErrCorruptLog)
}

func TestProtocolReplaceAcrossCommits(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	err = log.Commit(ctx, MetaBranchID, 1, []action.Action{&action.Protocol{MinReaderVersion: 5, MinWriterVersion: 5}})
	require.NoError(t, err)

	actions, version, err := log.GetActions(ctx, MetaBranchID, nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, version)

	var protocols int
	for _, a := range actions {
		if p, ok := a.(*action.Protocol); ok {
			protocols++
			require.EqualValues(t, 5, p.MinReaderVersion)
		}
	}
	require.Equal(t, 1, protocols)
}

func TestConcurrentCommitLosesRace(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	err = log.Commit(ctx, MetaBranchID, 1, []action.Action{&action.Metadata{ID: "x", CreatedTime: 1}})
	require.NoError(t, err)

	err = log.Commit(ctx, MetaBranchID, 1, []action.Action{&action.Metadata{ID: "y", CreatedTime: 2}})
	require.ErrorIs(t, err, status.ErrConcurrentCommit)
}

func TestCommitWithLoggerOverridesPerCall(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	err = log.Commit(ctx, MetaBranchID, 1, []action.Action{&action.Metadata{ID: "x", CreatedTime: 1}}, CommitWithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
}

func TestCommitRejectsStaleBaseVersion(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	err = log.Commit(ctx, MetaBranchID, 3, []action.Action{&action.Metadata{ID: "x", CreatedTime: 1}})
	require.ErrorIs(t, err, status.ErrConcurrentCommit)
}

func TestConfigWiresLogRootAndAtomicRequirement(t *testing.T) {
	ctx := context.Background()
	mem := afero.NewMemMapFs()
	store := localfs.New(mem)

	log, err := Create(ctx, store, LogFormat, WithLogRoot("alt_log"), WithRequireAtomicCommit(true))
	require.NoError(t, err)

	has, err := mem.Stat("alt_log/_meta/00000000000000000001.json")
	require.NoError(t, err)
	require.False(t, has.IsDir())

	err = log.Commit(ctx, MetaBranchID, 1, []action.Action{&action.Metadata{ID: "x", CreatedTime: 1}})
	require.NoError(t, err)
}

func TestAddFileSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	meta, err := Metadata(ctx, log, nil)
	require.NoError(t, err)
	mainBranch, err := meta.FindBranch("main")
	require.NoError(t, err)

	add := &action.Add{Path: "images/0.jpg", Type: "jpeg", Size: 1024, DataFile: true, NumSamples: 1}
	err = log.Commit(ctx, mainBranch.ID, 0, []action.Action{add})
	require.NoError(t, err)

	snap, err := Data(ctx, log, mainBranch.ID, nil)
	require.NoError(t, err)
	require.Len(t, snap.DataFiles(), 1)
	require.Equal(t, add, snap.DataFiles()[0])
}

func TestCheckpointCollapsesReplaceActions(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	name1 := "first-name"
	name2 := "second-name"
	err = log.Commit(ctx, MetaBranchID, 1, []action.Action{&action.Metadata{ID: "d1", Name: &name1, CreatedTime: 1}})
	require.NoError(t, err)
	err = log.Commit(ctx, MetaBranchID, 2, []action.Action{&action.Metadata{ID: "d1", Name: &name2, CreatedTime: 2}})
	require.NoError(t, err)

	require.NoError(t, log.Checkpoint(ctx, MetaBranchID))

	actions, version, err := log.GetActions(ctx, MetaBranchID, nil)
	require.NoError(t, err)
	require.EqualValues(t, 3, version)

	var metas int
	for _, a := range actions {
		if m, ok := a.(*action.Metadata); ok {
			metas++
			require.Equal(t, name2, *m.Name)
		}
	}
	require.Equal(t, 1, metas)
}

func TestCheckpointEnablesReplayWithoutOldCommits(t *testing.T) {
	ctx := context.Background()
	mem := afero.NewMemMapFs()
	store := localfs.New(mem)

	log, err := Create(ctx, store, LogFormat)
	require.NoError(t, err)

	require.NoError(t, log.Checkpoint(ctx, MetaBranchID))

	for _, p := range []string{"_deeplake_log/_meta/00000000000000000001.json"} {
		require.NoError(t, mem.Remove(p))
	}

	actions, version, err := log.GetActions(ctx, MetaBranchID, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, version)
	require.NotEmpty(t, actions)
}
