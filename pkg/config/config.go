// Package config declares engine-wide configuration the distilled
// specification leaves implicit: log level, checkpoint tuning, and how
// strict the commit protocol should be about the atomicity of its
// storage backend.
package config

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/dlogger"
)

// DefaultCheckpointRowGroupLength mirrors the original implementation's
// use of Parquet's own default row-group length: checkpoints are small
// enough in practice that tuning this rarely matters, but it is exposed
// for callers with unusually large action sets.
const DefaultCheckpointRowGroupLength = 0 // 0 means "use the parquet writer's default"

// Options carries the engine-wide knobs for a Log instance.
type Options struct {
	// LogLevel selects the dlogger level (info, debug, none).
	LogLevel string `json:"logLevel" yaml:"logLevel"`

	// CheckpointRowGroupLength overrides the Parquet row-group length
	// used when writing checkpoint artifacts. Zero means "use the
	// writer's default".
	CheckpointRowGroupLength int64 `json:"checkpointRowGroupLength" yaml:"checkpointRowGroupLength"`

	// RequireAtomicCommit, when true, makes Commit fail fast with a
	// configuration error instead of silently degrading to
	// best-effort check-then-write against a storage.Store backend that
	// cannot honor storage.NoOverwrite atomically. Local and in-memory
	// backends always honor it; this flag exists for backends added
	// later that might not.
	RequireAtomicCommit bool `json:"requireAtomicCommit" yaml:"requireAtomicCommit"`

	// LogRootPrefix overrides the on-disk log root, "_deeplake_log" by
	// default. Tests use this to run several logs side by side in one
	// storage.Store.
	LogRootPrefix string `json:"logRootPrefix" yaml:"logRootPrefix"`

	_ struct{}
}

// Default returns the Options a Log is constructed with when the caller
// supplies none.
func Default() Options {
	return Options{
		LogLevel:                 dlogger.LogLevelInfo,
		CheckpointRowGroupLength: DefaultCheckpointRowGroupLength,
		RequireAtomicCommit:      false,
		LogRootPrefix:            "_deeplake_log",
	}
}

// Marshal serializes Options as YAML.
func Marshal(opts Options) ([]byte, error) {
	return yaml.Marshal(opts)
}

// Unmarshal parses YAML into Options, starting from Default() so that
// partially-specified documents still produce a usable configuration.
func Unmarshal(b []byte) (Options, error) {
	if b == nil {
		return Options{}, fmt.Errorf("received nil config document to unmarshal")
	}
	opts := Default()
	if err := yaml.Unmarshal(b, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
