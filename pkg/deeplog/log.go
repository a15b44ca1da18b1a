// Package deeplog implements the append-only, branch-aware transaction
// log that records every structural and metadata change to a dataset:
// protocol and metadata declarations, branch creation, data-file
// additions and tensor schema declarations. Every branch is its own
// ordered sequence of commits; a commit is an atomically published,
// numbered file holding one or more actions.
package deeplog

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/legacy"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/schema"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/status"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage"
)

// MetaBranchID names the reserved branch holding the dataset-wide
// protocol, metadata and branch-registry actions. It is not a data
// branch and never appears in MetadataSnapshot.Branches.
const MetaBranchID = "_meta"

// LogFormat is the on-disk format version this package writes and the
// lowest one it can read without falling back to the legacy loader.
const LogFormat = 4

// Log is a handle onto one dataset's transaction log, rooted at some
// storage.Store. It carries no in-memory state of its own: every read
// walks the store fresh, so a Log can be shared freely across
// goroutines.
type Log struct {
	store                    storage.Store
	log                      *zap.Logger
	logRoot                  string
	checkpointRowGroupLength int64
	requireAtomicCommit      bool
}

// Create initializes a new, empty log at logFormat: a protocol, a
// dataset id and an initial "main" branch, all committed as version 1
// of the reserved meta branch. It fails with status.ErrUnsupportedVersion
// for any logFormat other than 4, and with status.ErrAlreadyInitialized
// if store already carries a v4 log (its first meta commit or its meta
// checkpoint pointer). A legacy v3 dataset in store is not checked for.
// This package writes and reads only logFormat 4; logFormat 3 is
// rejected like any other, since there is no v3 writer (see
// pkg/deeplog/legacy).
func Create(ctx context.Context, store storage.Store, logFormat int, opts ...Option) (*Log, error) {
	if logFormat < 3 {
		return nil, status.ErrUnsupportedVersion
	}
	if logFormat != LogFormat {
		return nil, status.ErrUnsupportedVersion
	}

	o := newOptions(opts)
	l := &Log{store: store, log: o.logger, logRoot: o.logRoot, checkpointRowGroupLength: o.checkpointRowGroupLength, requireAtomicCommit: o.requireAtomicCommit}

	initialized, err := l.hasFormat(ctx)
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, status.ErrAlreadyInitialized
	}

	protocol := &action.Protocol{MinReaderVersion: LogFormat, MinWriterVersion: LogFormat}
	metadata := &action.Metadata{ID: ksuid.New().String(), CreatedTime: time.Now().UnixMilli()}
	branch := &action.Branch{ID: ksuid.New().String(), Name: "main"}

	if err := l.Commit(ctx, MetaBranchID, 0, []action.Action{protocol, metadata, branch}); err != nil {
		return nil, fmt.Errorf("deeplog: bootstrap commit: %w", err)
	}

	l.log.Debug("created log", zap.String("dataset_id", metadata.ID), zap.String("main_branch_id", branch.ID))
	return l, nil
}

// Open attaches to an existing v4 log. It returns
// status.ErrUnknownFormat whenever store carries no v4 log, including
// when store holds a legacy v3 dataset; Open does not look for one and
// never returns a legacy reader. OpenAny tells those two cases apart.
func Open(ctx context.Context, store storage.Store, opts ...Option) (*Log, error) {
	o := newOptions(opts)
	l := &Log{store: store, log: o.logger, logRoot: o.logRoot, checkpointRowGroupLength: o.checkpointRowGroupLength, requireAtomicCommit: o.requireAtomicCommit}

	initialized, err := l.hasFormat(ctx)
	if err != nil {
		return nil, err
	}
	if !initialized {
		return nil, status.ErrUnknownFormat
	}
	return l, nil
}

// OpenAny mirrors the original engine's format dispatch: it opens a v4
// log if one is present, otherwise returns status.ErrUnsupportedVersion
// if store holds a recognizable legacy dataset, otherwise
// status.ErrUnknownFormat. An error from the legacy detection itself is
// reported as status.ErrUnknownFormat.
func OpenAny(ctx context.Context, store storage.Store, opts ...Option) (*Log, error) {
	l, err := Open(ctx, store, opts...)
	if err == nil {
		return l, nil
	}
	if err != status.ErrUnknownFormat {
		return nil, err
	}
	if isLegacy, legacyErr := legacy.Detect(ctx, store); legacyErr == nil && isLegacy {
		return nil, status.ErrUnsupportedVersion
	}
	return nil, status.ErrUnknownFormat
}

func (l *Log) hasFormat(ctx context.Context) (bool, error) {
	firstCommit := l.branchPath(MetaBranchID, zeroPad(1))
	hasFirst, err := l.store.Has(ctx, firstCommit)
	if err != nil {
		return false, err
	}
	if hasFirst {
		return true, nil
	}
	return l.store.Has(ctx, l.checkpointPointerPath(MetaBranchID))
}

// zeroPad renders version as the fixed-width, lexically sortable commit
// file stem the on-disk log uses.
func zeroPad(version uint64) string {
	return fmt.Sprintf("%020d", version)
}

func (l *Log) branchDir(branchID string) string {
	return l.logRoot + "/" + branchID
}

func (l *Log) branchPath(branchID, stem string) string {
	return l.branchDir(branchID) + "/" + stem + ".json"
}

func (l *Log) checkpointPointerPath(branchID string) string {
	return l.branchDir(branchID) + "/_last_checkpoint.json"
}

func (l *Log) checkpointDataPath(branchID string, version uint64) string {
	return l.branchDir(branchID) + "/" + zeroPad(version) + ".checkpoint.parquet"
}

// Commit atomically appends actions as the commit immediately following
// baseVersion on branchID. It fails with status.ErrConcurrentCommit if
// another writer already published baseVersion+1, and with
// status.ErrConcurrentCommit if baseVersion is not the branch's current
// tip (a caller racing an intervening commit, or one that never read the
// latest version before committing). CommitWithLogger overrides the
// Log's own logger for this call only.
func (l *Log) Commit(ctx context.Context, branchID string, baseVersion uint64, actions []action.Action, opts ...CommitOption) error {
	if len(actions) == 0 {
		return fmt.Errorf("deeplog: commit requires at least one action")
	}
	co := newCommitOptions(l, opts)
	if l.requireAtomicCommit {
		atomic, ok := l.store.(storage.AtomicPutter)
		if !ok || !atomic.AtomicWrites() {
			return fmt.Errorf("deeplog: commit requires an atomic store, %s cannot guarantee it", l.store.String())
		}
	}

	tip, err := l.Version(ctx, branchID)
	if err != nil {
		return err
	}
	if tip != baseVersion {
		return status.ErrConcurrentCommit
	}

	var buf strings.Builder
	for _, a := range actions {
		encoded, err := action.EncodeJSON(a)
		if err != nil {
			return fmt.Errorf("deeplog: encode action %s: %w", a.Tag(), err)
		}
		buf.Write(encoded)
	}

	path := l.branchPath(branchID, zeroPad(baseVersion+1))
	err = l.store.Put(ctx, path, strings.NewReader(buf.String()), storage.NoOverwrite)
	if err == storage.ErrExists {
		return status.ErrConcurrentCommit
	}
	if err != nil {
		return fmt.Errorf("deeplog: commit to %s: %w", path, err)
	}

	co.logger.Debug("committed", zap.String("branch_id", branchID), zap.Int("action_count", len(actions)), zap.String("path", path))
	return nil
}

// Version returns the highest committed version on branchID.
func (l *Log) Version(ctx context.Context, branchID string) (uint64, error) {
	_, version, err := l.GetActions(ctx, branchID, nil)
	return version, err
}

// GetActions reconstructs the replace-folded action list for branchID up
// to and including version to (nil means "the latest available"),
// together with the highest version actually observed. It starts from
// the checkpoint named by the branch's pointer file if that checkpoint
// is at or below to (older checkpoints are not consulted), then folds
// in every later commit file at or below to on top of it. Commit files
// are decoded straight into actions; no intermediate unified table is
// built for them.
func (l *Log) GetActions(ctx context.Context, branchID string, to *uint64) ([]action.Action, uint64, error) {
	var result []action.Action
	var highest uint64

	checkpointVersion, hasCheckpoint, err := l.readCheckpointPointer(ctx, branchID)
	if err != nil {
		return nil, 0, err
	}

	var from uint64
	usingCheckpoint := hasCheckpoint && (to == nil || checkpointVersion <= *to)
	if usingCheckpoint {
		rec, err := l.readCheckpointRecord(ctx, branchID, checkpointVersion)
		if err != nil {
			return nil, 0, err
		}
		defer rec.Release()
		for row := 0; row < int(rec.NumRows()); row++ {
			a, ok, err := schema.RowAction(rec, row)
			if err != nil {
				return nil, 0, status.ErrCorruptLog.Wrap(err)
			}
			if ok {
				result = foldAction(result, a)
			}
		}
		highest = checkpointVersion
		from = checkpointVersion + 1
	}

	paths, err := l.store.List(ctx, l.branchDir(branchID))
	if err != nil {
		return nil, 0, err
	}
	sorted, maxFound := sortedCommitPaths(paths, from, to)
	if maxFound > highest {
		highest = maxFound
	}

	for _, p := range sorted {
		raw, err := storage.GetBytes(ctx, l.store, p)
		if err != nil {
			return nil, 0, err
		}
		actions, err := action.DecodeStream(bytes.NewReader(raw))
		if err != nil {
			return nil, 0, status.ErrCorruptLog.Wrap(err)
		}
		for _, a := range actions {
			result = foldAction(result, a)
		}
	}

	l.log.Debug("loaded actions", zap.String("branch_id", branchID), zap.Int("action_count", len(result)), zap.Uint64("version", highest))
	return result, highest, nil
}

// foldAction applies a's replace semantics (if any) against the
// accumulated result set, mirroring the original engine's fold: a
// Replacer either supersedes the first prior action it replaces, or
// annihilates it if Replace reports false, or is appended fresh if
// nothing matches. Actions with no replace semantics always append.
func foldAction(result []action.Action, a action.Action) []action.Action {
	replacer, ok := a.(action.Replacer)
	if !ok {
		return append(result, a)
	}
	for i, prior := range result {
		if !replacer.Replaces(prior) {
			continue
		}
		replacement, keep := replacer.Replace(prior)
		if !keep {
			return append(result[:i], result[i+1:]...)
		}
		result[i] = replacement
		return result
	}
	return append(result, a)
}

func fileVersion(path string) (uint64, bool) {
	base := path
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".json")
	if base == path && !strings.HasSuffix(path, ".json") {
		return 0, false
	}
	v, err := strconv.ParseUint(base, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func sortedCommitPaths(paths []string, from uint64, to *uint64) ([]string, uint64) {
	type entry struct {
		path    string
		version uint64
	}
	var entries []entry
	var highest uint64
	for _, p := range paths {
		if !strings.HasSuffix(p, ".json") || strings.HasSuffix(p, "_last_checkpoint.json") {
			continue
		}
		v, ok := fileVersion(p)
		if !ok {
			continue
		}
		if to != nil && v > *to {
			continue
		}
		if v < from {
			continue
		}
		if v > highest {
			highest = v
		}
		entries = append(entries, entry{p, v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].version < entries[j].version })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.path
	}
	return out, highest
}
