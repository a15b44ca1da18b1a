// Package schema defines the single Arrow schema shared by every branch's
// transaction log: one nullable struct column per action variant plus a
// nullable version sentinel column. A row carries exactly one non-null
// value, either a struct in the column matching the action's tag or a
// uint64 in the version column; every other column is null in that row.
//
// Keeping the type definitions and the per-action encode/decode
// functions in one file is deliberate: the two must never drift apart,
// the way the original dataset log ties its arrow_type constants
// directly to each action's constructor and json converter.
package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/arrow/scalar"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action"
	actionstatus "github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action/status"
)

// Column position of each field in the unified schema. Order matches the
// upstream dataset-format definition: protocol, metadata, add, branch,
// tensor, version.
const (
	ColProtocol = iota
	ColMetadata
	ColAdd
	ColBranch
	ColTensor
	ColVersion
)

func protocolType() *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: "min_reader_version", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		arrow.Field{Name: "min_writer_version", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
	)
}

func metadataType() *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: "id", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "description", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "created_time", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	)
}

func branchType() *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: "id", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "from_branch", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "from_version", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
	)
}

func addType() *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: "path", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "type", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "size", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		arrow.Field{Name: "modification_time", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		arrow.Field{Name: "data_file", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		arrow.Field{Name: "num_samples", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
	)
}

func tensorLinkType() *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: "extend", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "flatten_sequence", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		arrow.Field{Name: "update", Type: arrow.BinaryTypes.String, Nullable: true},
	)
}

func tensorType() *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: "id", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "dtype", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "htype", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "length", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		arrow.Field{Name: "is_link", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		arrow.Field{Name: "is_sequence", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		arrow.Field{Name: "hidden", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		arrow.Field{Name: "chunk_compression", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "sample_compression", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "links", Type: arrow.MapOf(arrow.BinaryTypes.String, tensorLinkType()), Nullable: true},
		arrow.Field{Name: "max_chunk_size", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		arrow.Field{Name: "min_shape", Type: arrow.ListOf(arrow.PrimitiveTypes.Uint64), Nullable: true},
		arrow.Field{Name: "max_shape", Type: arrow.ListOf(arrow.PrimitiveTypes.Uint64), Nullable: true},
		arrow.Field{Name: "dtype_meta", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "typestr", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "verify", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		arrow.Field{Name: "version", Type: arrow.BinaryTypes.String, Nullable: true},
	)
}

// Schema returns the unified checkpoint/commit-batch schema shared by
// every branch.
func Schema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: string(action.TagProtocol), Type: protocolType(), Nullable: true},
		{Name: string(action.TagMetadata), Type: metadataType(), Nullable: true},
		{Name: string(action.TagAdd), Type: addType(), Nullable: true},
		{Name: string(action.TagBranch), Type: branchType(), Nullable: true},
		{Name: string(action.TagTensor), Type: tensorType(), Nullable: true},
		{Name: "version", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
	}, nil)
}

// RecordBuilder accumulates rows for a batch of the unified schema: one
// row per action plus, when checkpointing, a trailing version sentinel
// row.
type RecordBuilder struct {
	mem memory.Allocator
	rb  *array.RecordBuilder
}

// NewRecordBuilder allocates a builder for the unified schema.
func NewRecordBuilder(mem memory.Allocator) *RecordBuilder {
	return &RecordBuilder{mem: mem, rb: array.NewRecordBuilder(mem, Schema())}
}

// Release frees the underlying Arrow buffers.
func (b *RecordBuilder) Release() { b.rb.Release() }

// NewRecord flushes the accumulated rows into an immutable record. The
// builder is reset and can be reused afterwards.
func (b *RecordBuilder) NewRecord() arrow.Record { return b.rb.NewRecord() }

// AppendAction appends one row holding a as its only non-null value.
func AppendAction(b *RecordBuilder, a action.Action) error {
	for i := 0; i < b.rb.Schema().NumFields(); i++ {
		if arrow.Field(b.rb.Schema().Field(i)).Name == string(a.Tag()) {
			if err := appendActionStruct(b.rb.Field(i).(*array.StructBuilder), a); err != nil {
				return fmt.Errorf("schema: append %s: %w", a.Tag(), err)
			}
			continue
		}
		b.rb.Field(i).AppendNull()
	}
	return nil
}

// AppendVersion appends one row holding v as its only non-null value,
// the sentinel row a checkpoint or in-memory batch carries to record the
// highest version folded into it.
func AppendVersion(b *RecordBuilder, v uint64) {
	for i := 0; i < b.rb.Schema().NumFields(); i++ {
		if i == ColVersion {
			b.rb.Field(i).(*array.Uint64Builder).Append(v)
			continue
		}
		b.rb.Field(i).AppendNull()
	}
}

func appendActionStruct(sb *array.StructBuilder, a action.Action) error {
	sb.Append(true)
	switch v := a.(type) {
	case *action.Protocol:
		sb.FieldBuilder(0).(*array.Uint32Builder).Append(v.MinReaderVersion)
		sb.FieldBuilder(1).(*array.Uint32Builder).Append(v.MinWriterVersion)
	case *action.Metadata:
		sb.FieldBuilder(0).(*array.StringBuilder).Append(v.ID)
		appendOptString(sb.FieldBuilder(1).(*array.StringBuilder), v.Name)
		appendOptString(sb.FieldBuilder(2).(*array.StringBuilder), v.Description)
		sb.FieldBuilder(3).(*array.Int64Builder).Append(v.CreatedTime)
	case *action.Add:
		sb.FieldBuilder(0).(*array.StringBuilder).Append(v.Path)
		sb.FieldBuilder(1).(*array.StringBuilder).Append(v.Type)
		sb.FieldBuilder(2).(*array.Uint64Builder).Append(v.Size)
		sb.FieldBuilder(3).(*array.Int64Builder).Append(v.ModificationTime)
		sb.FieldBuilder(4).(*array.BooleanBuilder).Append(v.DataFile)
		sb.FieldBuilder(5).(*array.Uint64Builder).Append(v.NumSamples)
	case *action.Branch:
		sb.FieldBuilder(0).(*array.StringBuilder).Append(v.ID)
		sb.FieldBuilder(1).(*array.StringBuilder).Append(v.Name)
		appendOptString(sb.FieldBuilder(2).(*array.StringBuilder), v.FromBranch)
		if v.FromVersion != nil {
			sb.FieldBuilder(3).(*array.Uint64Builder).Append(*v.FromVersion)
		} else {
			sb.FieldBuilder(3).(*array.Uint64Builder).AppendNull()
		}
	case *action.Tensor:
		appendTensor(sb, v)
	default:
		return fmt.Errorf("no arrow encoding registered for action tag %q", a.Tag())
	}
	return nil
}

func appendTensor(sb *array.StructBuilder, v *action.Tensor) {
	sb.FieldBuilder(0).(*array.StringBuilder).Append(v.ID)
	sb.FieldBuilder(1).(*array.StringBuilder).Append(v.Name)
	appendOptString(sb.FieldBuilder(2).(*array.StringBuilder), v.Dtype)
	sb.FieldBuilder(3).(*array.StringBuilder).Append(v.Htype)
	sb.FieldBuilder(4).(*array.Uint64Builder).Append(v.Length)
	sb.FieldBuilder(5).(*array.BooleanBuilder).Append(v.IsLink)
	sb.FieldBuilder(6).(*array.BooleanBuilder).Append(v.IsSequence)
	sb.FieldBuilder(7).(*array.BooleanBuilder).Append(v.Hidden)
	appendOptString(sb.FieldBuilder(8).(*array.StringBuilder), v.ChunkCompression)
	appendOptString(sb.FieldBuilder(9).(*array.StringBuilder), v.SampleCompression)

	linksBuilder := sb.FieldBuilder(10).(*array.MapBuilder)
	if len(v.Links) == 0 {
		linksBuilder.AppendNull()
	} else {
		linksBuilder.Append(true)
		keyBuilder := linksBuilder.KeyBuilder().(*array.StringBuilder)
		itemBuilder := linksBuilder.ItemBuilder().(*array.StructBuilder)
		for k, link := range v.Links {
			keyBuilder.Append(k)
			itemBuilder.Append(true)
			itemBuilder.FieldBuilder(0).(*array.StringBuilder).Append(link.Extend)
			if link.FlattenSequence != nil {
				itemBuilder.FieldBuilder(1).(*array.BooleanBuilder).Append(*link.FlattenSequence)
			} else {
				itemBuilder.FieldBuilder(1).(*array.BooleanBuilder).AppendNull()
			}
			itemBuilder.FieldBuilder(2).(*array.StringBuilder).Append(link.Update)
		}
	}

	if v.MaxChunkSize != nil {
		sb.FieldBuilder(11).(*array.Int64Builder).Append(*v.MaxChunkSize)
	} else {
		sb.FieldBuilder(11).(*array.Int64Builder).AppendNull()
	}
	appendUint64List(sb.FieldBuilder(12).(*array.ListBuilder), v.MinShape)
	appendUint64List(sb.FieldBuilder(13).(*array.ListBuilder), v.MaxShape)
	appendOptString(sb.FieldBuilder(14).(*array.StringBuilder), v.DtypeMeta)
	appendOptString(sb.FieldBuilder(15).(*array.StringBuilder), v.Typestr)
	sb.FieldBuilder(16).(*array.BooleanBuilder).Append(v.Verify)
	sb.FieldBuilder(17).(*array.StringBuilder).Append(v.Version)
}

func appendOptString(b *array.StringBuilder, s *string) {
	if s == nil {
		b.AppendNull()
		return
	}
	b.Append(*s)
}

func appendUint64List(b *array.ListBuilder, vals []uint64) {
	if vals == nil {
		b.AppendNull()
		return
	}
	b.Append(true)
	vb := b.ValueBuilder().(*array.Uint64Builder)
	for _, v := range vals {
		vb.Append(v)
	}
}

// RowAction decodes row of rec back into the action it holds, mirroring
// which struct column is non-null for that row. It returns ok=false for
// a row whose only non-null column is version.
func RowAction(rec arrow.Record, row int) (a action.Action, ok bool, err error) {
	for i := 0; i < ColVersion; i++ {
		sc, err := scalar.GetScalar(rec.Column(i), row)
		if err != nil {
			return nil, false, err
		}
		if !sc.IsValid() {
			continue
		}
		st, ok := sc.(*scalar.Struct)
		if !ok {
			return nil, false, fmt.Errorf("schema: column %d is not a struct scalar", i)
		}
		a, err := decodeActionScalar(action.Tag(rec.Schema().Field(i).Name), st)
		return a, true, err
	}
	return nil, false, nil
}

// RowVersion reports whether row's version column is set, and its value.
func RowVersion(rec arrow.Record, row int) (uint64, bool, error) {
	sc, err := scalar.GetScalar(rec.Column(ColVersion), row)
	if err != nil {
		return 0, false, err
	}
	if !sc.IsValid() {
		return 0, false, nil
	}
	v, ok := sc.(*scalar.Uint64)
	if !ok {
		return 0, false, fmt.Errorf("schema: version column is not a uint64 scalar")
	}
	return v.Value, true, nil
}

func decodeActionScalar(tag action.Tag, st *scalar.Struct) (action.Action, error) {
	field := func(name string) scalar.Scalar {
		for i, f := range st.Type.(*arrow.StructType).Fields() {
			if f.Name == name {
				return st.Value[i]
			}
		}
		return nil
	}

	switch tag {
	case action.TagProtocol:
		return &action.Protocol{
			MinReaderVersion: u32(field("min_reader_version")),
			MinWriterVersion: u32(field("min_writer_version")),
		}, nil
	case action.TagMetadata:
		return &action.Metadata{
			ID:          str(field("id")),
			Name:        strp(field("name")),
			Description: strp(field("description")),
			CreatedTime: i64(field("created_time")),
		}, nil
	case action.TagAdd:
		return &action.Add{
			Path:             str(field("path")),
			Type:             str(field("type")),
			Size:             u64(field("size")),
			ModificationTime: i64(field("modification_time")),
			DataFile:         b(field("data_file")),
			NumSamples:       u64(field("num_samples")),
		}, nil
	case action.TagBranch:
		return &action.Branch{
			ID:          str(field("id")),
			Name:        str(field("name")),
			FromBranch:  strp(field("from_branch")),
			FromVersion: u64p(field("from_version")),
		}, nil
	case action.TagTensor:
		return decodeTensorScalar(field), nil
	default:
		return nil, fmt.Errorf("schema: unknown action column %q: %w", tag, actionstatus.ErrUnknownAction)
	}
}

func decodeTensorScalar(field func(string) scalar.Scalar) *action.Tensor {
	t := &action.Tensor{
		ID:                str(field("id")),
		Name:              str(field("name")),
		Dtype:             strp(field("dtype")),
		Htype:             str(field("htype")),
		Length:            u64(field("length")),
		IsLink:            b(field("is_link")),
		IsSequence:        b(field("is_sequence")),
		Hidden:            b(field("hidden")),
		ChunkCompression:  strp(field("chunk_compression")),
		SampleCompression: strp(field("sample_compression")),
		MaxChunkSize:      i64p(field("max_chunk_size")),
		MinShape:          u64list(field("min_shape")),
		MaxShape:          u64list(field("max_shape")),
		DtypeMeta:         strp(field("dtype_meta")),
		Typestr:           strp(field("typestr")),
		Verify:            b(field("verify")),
		Version:           str(field("version")),
	}
	if links := field("links"); links != nil && links.IsValid() {
		if m, ok := links.(*scalar.Map); ok {
			t.Links = decodeLinks(m)
		}
	}
	return t
}

// decodeLinks reads a tensor's links map back out of the Arrow map
// column's entries array: struct<key: string, value: struct<extend,
// flatten_sequence, update>> per arrow.MapOf(string, tensorLinkType()).
// The link fields themselves live one level down, inside "value".
func decodeLinks(m *scalar.Map) map[string]action.TensorLink {
	out := map[string]action.TensorLink{}
	entries, ok := m.Value.(*array.Struct)
	if !ok {
		return out
	}
	keys, ok := entries.Field(0).(*array.String)
	if !ok {
		return out
	}
	values, ok := entries.Field(1).(*array.Struct)
	if !ok {
		return out
	}
	for i := 0; i < entries.Len(); i++ {
		if entries.IsNull(i) {
			continue
		}
		link := action.TensorLink{
			Extend:          fieldString(values, 0, i),
			FlattenSequence: fieldBoolPtr(values, 1, i),
			Update:          fieldString(values, 2, i),
		}
		out[keys.Value(i)] = link
	}
	return out
}

func fieldString(s *array.Struct, fieldIdx, row int) string {
	col, ok := s.Field(fieldIdx).(*array.String)
	if !ok || col.IsNull(row) {
		return ""
	}
	return col.Value(row)
}

func fieldBoolPtr(s *array.Struct, fieldIdx, row int) *bool {
	col, ok := s.Field(fieldIdx).(*array.Boolean)
	if !ok || col.IsNull(row) {
		return nil
	}
	v := col.Value(row)
	return &v
}

func u64list(s scalar.Scalar) []uint64 {
	if s == nil || !s.IsValid() {
		return nil
	}
	l, ok := s.(*scalar.List)
	if !ok {
		return nil
	}
	arr, ok := l.Value.(*array.Uint64)
	if !ok {
		return nil
	}
	out := make([]uint64, arr.Len())
	for i := range out {
		out[i] = arr.Value(i)
	}
	return out
}

func str(s scalar.Scalar) string {
	if v := strp(s); v != nil {
		return *v
	}
	return ""
}

func strp(s scalar.Scalar) *string {
	if s == nil || !s.IsValid() {
		return nil
	}
	v, ok := s.(*scalar.String)
	if !ok {
		return nil
	}
	str := v.String()
	return &str
}

func u32(s scalar.Scalar) uint32 {
	if s == nil || !s.IsValid() {
		return 0
	}
	v, ok := s.(*scalar.Uint32)
	if !ok {
		return 0
	}
	return v.Value
}

func u64(s scalar.Scalar) uint64 {
	if v := u64p(s); v != nil {
		return *v
	}
	return 0
}

func u64p(s scalar.Scalar) *uint64 {
	if s == nil || !s.IsValid() {
		return nil
	}
	v, ok := s.(*scalar.Uint64)
	if !ok {
		return nil
	}
	return &v.Value
}

func i64(s scalar.Scalar) int64 {
	if v := i64p(s); v != nil {
		return *v
	}
	return 0
}

func i64p(s scalar.Scalar) *int64 {
	if s == nil || !s.IsValid() {
		return nil
	}
	v, ok := s.(*scalar.Int64)
	if !ok {
		return nil
	}
	return &v.Value
}

func b(s scalar.Scalar) bool {
	if s == nil || !s.IsValid() {
		return false
	}
	v, ok := s.(*scalar.Boolean)
	if !ok {
		return false
	}
	return v.Value
}
