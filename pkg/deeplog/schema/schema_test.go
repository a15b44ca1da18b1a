package schema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action"
)

func TestAppendActionAndRowActionRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()
	rb := NewRecordBuilder(mem)
	defer rb.Release()

	name := "dogs-vs-cats"
	protocol := &action.Protocol{MinReaderVersion: 4, MinWriterVersion: 4}
	metadata := &action.Metadata{ID: "abc", Name: &name, CreatedTime: 100}
	add := &action.Add{Path: "images/0.jpg", Type: "jpeg", Size: 1024, ModificationTime: 200, DataFile: true, NumSamples: 1}

	require.NoError(t, AppendAction(rb, protocol))
	require.NoError(t, AppendAction(rb, metadata))
	require.NoError(t, AppendAction(rb, add))
	AppendVersion(rb, 3)

	rec := rb.NewRecord()
	defer rec.Release()

	require.EqualValues(t, 4, rec.NumRows())

	a0, ok, err := RowAction(rec, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, protocol, a0)

	a1, ok, err := RowAction(rec, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, metadata, a1)

	a2, ok, err := RowAction(rec, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, add, a2)

	_, ok, err = RowAction(rec, 3)
	require.NoError(t, err)
	require.False(t, ok)

	v, ok, err := RowVersion(rec, 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 3, v)

	_, ok, err = RowVersion(rec, 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTensorWithLinksAndShapes(t *testing.T) {
	mem := memory.NewGoAllocator()
	rb := NewRecordBuilder(mem)
	defer rb.Release()

	flatten := true
	tensor := &action.Tensor{
		ID: "t1", Name: "images", Htype: "image",
		Length: 5, MinShape: []uint64{1, 2}, MaxShape: []uint64{3, 4},
		Links: map[string]action.TensorLink{
			"labels": {Extend: "extend-expr", FlattenSequence: &flatten, Update: "update-expr"},
		},
		Version: "1.0",
	}
	require.NoError(t, AppendAction(rb, tensor))

	rec := rb.NewRecord()
	defer rec.Release()

	decoded, ok, err := RowAction(rec, 0)
	require.NoError(t, err)
	require.True(t, ok)

	got := decoded.(*action.Tensor)
	require.Equal(t, tensor.MinShape, got.MinShape)
	require.Equal(t, tensor.MaxShape, got.MaxShape)
	require.Contains(t, got.Links, "labels")
	link := got.Links["labels"]
	require.Equal(t, "extend-expr", link.Extend)
	require.Equal(t, "update-expr", link.Update)
	require.NotNil(t, link.FlattenSequence)
	require.True(t, *link.FlattenSequence)
}

func TestSchemaColumnOrder(t *testing.T) {
	s := Schema()
	require.Equal(t, "protocol", s.Field(ColProtocol).Name)
	require.Equal(t, "metadata", s.Field(ColMetadata).Name)
	require.Equal(t, "add", s.Field(ColAdd).Name)
	require.Equal(t, "branch", s.Field(ColBranch).Name)
	require.Equal(t, "tensor", s.Field(ColTensor).Name)
	require.Equal(t, "version", s.Field(ColVersion).Name)
}
