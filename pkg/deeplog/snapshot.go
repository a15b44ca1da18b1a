package deeplog

import (
	"context"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/status"
)

// baseSnapshot holds the replace-folded action list for one branch as of
// one version, and the typed accessors below narrow it to specific
// action variants.
type baseSnapshot struct {
	branchID string
	version  uint64
	actions  []action.Action
}

func newBaseSnapshot(ctx context.Context, l *Log, branchID string, to *uint64) (baseSnapshot, error) {
	actions, version, err := l.GetActions(ctx, branchID, to)
	if err != nil {
		return baseSnapshot{}, err
	}
	return baseSnapshot{branchID: branchID, version: version, actions: actions}, nil
}

// Version is the highest version folded into this snapshot.
func (s baseSnapshot) Version() uint64 { return s.version }

// BranchID is the branch this snapshot was taken against.
func (s baseSnapshot) BranchID() string { return s.branchID }

func findAdds(actions []action.Action) []*action.Add {
	var out []*action.Add
	for _, a := range actions {
		if v, ok := a.(*action.Add); ok {
			out = append(out, v)
		}
	}
	return out
}

func findTensors(actions []action.Action) []*action.Tensor {
	var out []*action.Tensor
	for _, a := range actions {
		if v, ok := a.(*action.Tensor); ok {
			out = append(out, v)
		}
	}
	return out
}

func findBranches(actions []action.Action) []*action.Branch {
	var out []*action.Branch
	for _, a := range actions {
		if v, ok := a.(*action.Branch); ok {
			out = append(out, v)
		}
	}
	return out
}

func findProtocol(actions []action.Action) *action.Protocol {
	for _, a := range actions {
		if v, ok := a.(*action.Protocol); ok {
			return v
		}
	}
	return nil
}

func findMetadata(actions []action.Action) *action.Metadata {
	for _, a := range actions {
		if v, ok := a.(*action.Metadata); ok {
			return v
		}
	}
	return nil
}

// MetadataSnapshot is a point-in-time view of the reserved meta branch:
// the dataset's protocol, its identity metadata, and its branch
// registry.
type MetadataSnapshot struct {
	baseSnapshot
}

// Metadata returns a read-only view of the dataset-wide state on
// MetaBranchID as of version to (nil for latest).
func Metadata(ctx context.Context, l *Log, to *uint64) (*MetadataSnapshot, error) {
	base, err := newBaseSnapshot(ctx, l, MetaBranchID, to)
	if err != nil {
		return nil, err
	}
	return &MetadataSnapshot{baseSnapshot: base}, nil
}

// Protocol returns the singleton protocol action in effect. Its absence
// means the meta branch was never bootstrapped correctly, so it is
// reported as status.ErrCorruptLog rather than a bare nil.
func (s *MetadataSnapshot) Protocol() (*action.Protocol, error) {
	if p := findProtocol(s.actions); p != nil {
		return p, nil
	}
	return nil, status.ErrCorruptLog
}

// DatasetMetadata returns the singleton metadata action in effect. Its
// absence is reported as status.ErrCorruptLog, for the same reason as
// Protocol.
func (s *MetadataSnapshot) DatasetMetadata() (*action.Metadata, error) {
	if m := findMetadata(s.actions); m != nil {
		return m, nil
	}
	return nil, status.ErrCorruptLog
}

// Branches lists every branch ever created, in the order their
// create_branch actions were folded.
func (s *MetadataSnapshot) Branches() []*action.Branch { return findBranches(s.actions) }

// FindBranch looks a branch up by id or by name.
func (s *MetadataSnapshot) FindBranch(address string) (*action.Branch, error) {
	for _, b := range s.Branches() {
		if b.ID == address || b.Name == address {
			return b, nil
		}
	}
	return nil, status.ErrBranchNotFound
}

// DataSnapshot is a point-in-time view of one data branch: its added
// files and its tensor schema declarations.
type DataSnapshot struct {
	baseSnapshot
}

// Data returns a read-only view of branchID as of version to (nil for
// latest).
func Data(ctx context.Context, l *Log, branchID string, to *uint64) (*DataSnapshot, error) {
	base, err := newBaseSnapshot(ctx, l, branchID, to)
	if err != nil {
		return nil, err
	}
	return &DataSnapshot{baseSnapshot: base}, nil
}

// DataFiles lists every file added to the branch.
func (s *DataSnapshot) DataFiles() []*action.Add { return findAdds(s.actions) }

// Tensors lists every tensor schema declared on the branch.
func (s *DataSnapshot) Tensors() []*action.Tensor { return findTensors(s.actions) }

// Commits always returns an empty slice: the commit-summary action
// referenced by the original engine's snapshot type was never part of
// the traced action set this package implements, so there is nothing to
// fold here. Branch history is still fully recoverable through
// GetActions and the per-commit files it walks.
func (s *DataSnapshot) Commits() []action.Action { return nil }
