// Package action declares the closed set of transaction-log action
// variants: their tag names, field layouts, and the replace semantics
// that let later actions supersede or annihilate earlier ones during
// state reconstruction.
//
// Each variant is a plain struct implementing Action; variants that can
// supersede a prior action of their own kind additionally implement
// Replacer. There is no dispatch hierarchy: callers switch on Go's
// dynamic type or on Tag(), and a variant "opts in" to replace
// semantics simply by implementing the two extra methods.
package action

// Tag names an action variant. It doubles as the JSON envelope key and
// as the corresponding column name in the unified columnar schema.
type Tag string

const (
	TagProtocol Tag = "protocol"
	TagMetadata Tag = "metadata"
	TagBranch   Tag = "branch"
	TagAdd      Tag = "add"
	TagTensor   Tag = "tensor"
)

// Action is implemented by every member of the closed variant set.
type Action interface {
	Tag() Tag
}

// Replacer is implemented by action variants whose arrival supersedes
// or annihilates an earlier action of the same kind for the same
// subject. protocol and metadata are the only base-model variants that
// implement it; branch, add and tensor are append-only, but nothing
// stops a future variant from adding these two methods.
type Replacer interface {
	Action

	// Replaces reports whether prior is this action's subject: same
	// tag, same subject key. For protocol and metadata the subject key
	// is trivial (there is exactly one singleton per branch).
	Replaces(prior Action) bool

	// Replace computes the new effective action given the prior one it
	// supersedes. The second return value is false to signal
	// annihilation (the prior action, and this one, drop out of the
	// reconstructed list entirely).
	Replace(prior Action) (Action, bool)
}

// Protocol declares the minimum compatible reader/writer format
// versions. It is a replace action: a later protocol commit fully
// supersedes the prior one.
type Protocol struct {
	MinReaderVersion uint32 `json:"min_reader_version"`
	MinWriterVersion uint32 `json:"min_writer_version"`
}

func (*Protocol) Tag() Tag { return TagProtocol }

func (p *Protocol) Replaces(prior Action) bool {
	_, ok := prior.(*Protocol)
	return ok
}

func (p *Protocol) Replace(Action) (Action, bool) {
	return p, true
}

// Metadata carries dataset identity and human-facing metadata. It is a
// replace action: a later metadata commit fully supersedes the prior
// one.
type Metadata struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CreatedTime int64   `json:"created_time"`
}

func (*Metadata) Tag() Tag { return TagMetadata }

func (m *Metadata) Replaces(prior Action) bool {
	_, ok := prior.(*Metadata)
	return ok
}

func (m *Metadata) Replace(Action) (Action, bool) {
	return m, true
}

// Branch declares a new branch, optionally forked from another branch
// at a specific version. Append-only in the base model.
type Branch struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FromBranch  *string `json:"from_branch"`
	FromVersion *uint64 `json:"from_version"`
}

func (*Branch) Tag() Tag { return TagBranch }

// Add records an immutable data artifact belonging to a branch.
// Append-only in the base model.
type Add struct {
	Path             string `json:"path"`
	Type             string `json:"type"`
	Size             uint64 `json:"size"`
	ModificationTime int64  `json:"modification_time"`
	DataFile         bool   `json:"data_file"`
	NumSamples       uint64 `json:"num_samples"`
}

func (*Add) Tag() Tag { return TagAdd }
