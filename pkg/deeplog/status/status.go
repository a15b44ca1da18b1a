// Package status declares the sentinel errors returned by the top-level
// deeplog package, plus the storage and action sentinels a caller is
// likely to need to distinguish alongside them.
package status

import (
	actionstatus "github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action/status"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/errors"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage"
	storagestatus "github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage/status"
)

var (
	// ErrAlreadyInitialized is returned by Create when the target
	// storage already carries a v4 log.
	ErrAlreadyInitialized = errors.New("deeplog: already initialized")

	// ErrUnknownFormat is returned by Open when storage carries no v4
	// log, and by OpenAny when it carries neither a v4 log nor a
	// recognizable v3 dataset.
	ErrUnknownFormat = errors.New("deeplog: cannot determine log format")

	// ErrUnsupportedVersion is returned by Create for any log format
	// other than the one this package writes, by OpenAny for a legacy v3
	// dataset, and by every legacy.Reader method.
	ErrUnsupportedVersion = errors.New("deeplog: unsupported log version")

	// ErrConcurrentCommit is returned by Commit when baseVersion is not
	// the branch's current tip, or when another writer's commit has
	// already claimed baseVersion+1 on the branch.
	ErrConcurrentCommit = errors.New("deeplog: concurrent commit lost the race")

	// ErrCorruptLog is returned when a commit or checkpoint artifact
	// cannot be decoded into the closed action set, and by metadata
	// snapshot accessors when a required singleton action is missing.
	ErrCorruptLog = errors.New("deeplog: corrupt log artifact")

	// ErrBranchNotFound is returned by snapshot lookups for a branch id
	// with no create_branch_action on record.
	ErrBranchNotFound = errors.New("deeplog: branch not found")

	// Re-exported so callers distinguishing storage or action failures
	// don't need a second import.
	ErrNotFound      = storage.ErrNotFound
	ErrExists        = storage.ErrExists
	ErrIO            = storagestatus.ErrIO
	ErrUnknownAction = actionstatus.ErrUnknownAction
	ErrMissingField  = actionstatus.ErrMissingField
)
