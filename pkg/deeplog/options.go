package deeplog

import (
	"go.uber.org/zap"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/config"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/dlogger"
)

type options struct {
	logger                   *zap.Logger
	logRoot                  string
	checkpointRowGroupLength int64
	requireAtomicCommit      bool
}

// Option configures Create and Open.
type Option func(*options)

// WithLogger attaches a structured logger. Library code defaults to a
// no-op logger; CLI and service entry points should wire in a real one
// via pkg/dlogger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLogRoot overrides the on-disk log root directory, "_deeplake_log"
// by default. Tests use this to run several independent logs against
// one shared storage.Store.
func WithLogRoot(prefix string) Option {
	return func(o *options) { o.logRoot = prefix }
}

// WithCheckpointRowGroupLength overrides the Parquet row-group length
// used when writing checkpoint artifacts. Zero means "use the writer's
// default".
func WithCheckpointRowGroupLength(n int64) Option {
	return func(o *options) { o.checkpointRowGroupLength = n }
}

// WithRequireAtomicCommit makes Commit fail fast, before ever touching
// storage, when the backing storage.Store cannot prove its NoOverwrite
// mode is a true compare-and-swap. Local and in-memory backends always
// satisfy it.
func WithRequireAtomicCommit(require bool) Option {
	return func(o *options) { o.requireAtomicCommit = require }
}

// WithConfig applies every knob in cfg (as produced by pkg/config), plus
// the logger it names via pkg/dlogger. It composes with the other With*
// options; options passed after it in the Option list win.
func WithConfig(cfg config.Options) Option {
	return func(o *options) {
		o.logger = dlogger.MustGetLogger(cfg.LogLevel)
		o.checkpointRowGroupLength = cfg.CheckpointRowGroupLength
		o.requireAtomicCommit = cfg.RequireAtomicCommit
		if cfg.LogRootPrefix != "" {
			o.logRoot = cfg.LogRootPrefix
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop(), logRoot: "_deeplake_log"}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type commitOptions struct {
	logger *zap.Logger
}

// CommitOption configures a single Commit call.
type CommitOption func(*commitOptions)

// CommitWithLogger overrides the logger for one Commit call, without
// changing the Log's own default. Useful for request-scoped loggers
// (e.g. one carrying a trace id) in a service that shares one Log across
// many callers.
func CommitWithLogger(logger *zap.Logger) CommitOption {
	return func(o *commitOptions) { o.logger = logger }
}

func newCommitOptions(l *Log, opts []CommitOption) *commitOptions {
	o := &commitOptions{logger: l.log}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
