package action

// TensorLink describes how one tensor is derived from another via an
// extend/update pair of expressions, with optional sequence flattening.
type TensorLink struct {
	Extend          string `json:"extend"`
	FlattenSequence *bool  `json:"flatten_sequence"`
	Update          string `json:"update"`
}

// Tensor declares a tensor schema. Append-only in the base model.
type Tensor struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Dtype             *string               `json:"dtype"`
	Htype             string                `json:"htype"`
	Length            uint64                `json:"length"`
	IsLink            bool                  `json:"is_link"`
	IsSequence        bool                  `json:"is_sequence"`
	Hidden            bool                  `json:"hidden"`
	ChunkCompression  *string               `json:"chunk_compression"`
	SampleCompression *string               `json:"sample_compression"`
	Links             map[string]TensorLink `json:"links"`
	MaxChunkSize      *int64                `json:"max_chunk_size"`
	MinShape          []uint64              `json:"min_shape"`
	MaxShape          []uint64              `json:"max_shape"`
	DtypeMeta         *string               `json:"dtype_meta"`
	Typestr           *string               `json:"typestr"`
	Verify            bool                  `json:"verify"`
	Version           string                `json:"version"`
}

func (*Tensor) Tag() Tag { return TagTensor }
