package action

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	name := "my-dataset"
	actions := []Action{
		&Protocol{MinReaderVersion: 4, MinWriterVersion: 4},
		&Metadata{ID: "abc", Name: &name, Description: nil, CreatedTime: 45},
		&Branch{ID: "def", Name: "main", FromBranch: nil, FromVersion: nil},
		&Add{Path: "my/path", Type: "chunk", Size: 3, ModificationTime: 45, DataFile: true, NumSamples: 3},
		&Tensor{
			ID: "t1", Name: "images", Dtype: strptr("uint8"), Htype: "image",
			Length: 10, IsLink: false, IsSequence: false, Hidden: false,
			Links: map[string]TensorLink{}, MinShape: []uint64{1, 2}, MaxShape: []uint64{3, 4},
			Verify: true, Version: "1.0",
		},
	}

	for _, a := range actions {
		encoded, err := EncodeJSON(a)
		require.NoError(t, err)
		require.False(t, strings.HasPrefix(string(encoded), "["))

		decoded, err := DecodeOne(encoded)
		require.NoError(t, err)
		require.Equal(t, a, decoded)
	}
}

func TestDecodeStreamConcatenatedNoSeparators(t *testing.T) {
	p, err := EncodeJSON(&Protocol{MinReaderVersion: 4, MinWriterVersion: 4})
	require.NoError(t, err)
	name := "n"
	m, err := EncodeJSON(&Metadata{ID: "id", Name: &name, CreatedTime: 1})
	require.NoError(t, err)
	b, err := EncodeJSON(&Branch{ID: "bid", Name: "main"})
	require.NoError(t, err)

	stream := strings.NewReader(string(p) + string(m) + string(b))
	actions, err := DecodeStream(stream)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	require.IsType(t, &Protocol{}, actions[0])
	require.IsType(t, &Metadata{}, actions[1])
	require.IsType(t, &Branch{}, actions[2])
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := DecodeOne([]byte(`{"bogus":{}}`))
	require.Error(t, err)
}

func TestProtocolReplaceSemantics(t *testing.T) {
	first := &Protocol{MinReaderVersion: 4, MinWriterVersion: 4}
	second := &Protocol{MinReaderVersion: 5, MinWriterVersion: 6}

	require.True(t, second.Replaces(first))
	replaced, ok := second.Replace(first)
	require.True(t, ok)
	require.Equal(t, second, replaced)

	require.False(t, second.Replaces(&Metadata{}))
}

func TestMetadataReplaceSemantics(t *testing.T) {
	first := &Metadata{ID: "id", CreatedTime: 1}
	second := &Metadata{ID: "id", CreatedTime: 2}

	require.True(t, second.Replaces(first))
	replaced, ok := second.Replace(first)
	require.True(t, ok)
	require.Same(t, second, replaced.(*Metadata))
}

func TestBranchAddTensorAreNotReplacers(t *testing.T) {
	var a Action = &Branch{ID: "x", Name: "y"}
	_, ok := a.(Replacer)
	require.False(t, ok)

	a = &Add{Path: "p"}
	_, ok = a.(Replacer)
	require.False(t, ok)

	a = &Tensor{ID: "t"}
	_, ok = a.(Replacer)
	require.False(t, ok)
}
