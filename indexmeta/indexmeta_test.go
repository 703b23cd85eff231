package indexmeta_test

import (
	"testing"

	"github.com/kmersync/kiblt/indexmeta"
	"github.com/stretchr/testify/require"
)

func TestMeta(t *testing.T) {
	require.Equal(t, 255, indexmeta.MaxKeySize)
	require.Equal(t, 255, indexmeta.MaxValueSize)
	require.Equal(t, 255, indexmeta.MaxNumKVs)

	var meta indexmeta.Meta
	require.NoError(t, meta.Add([]byte("foo"), []byte("bar")))
	require.NoError(t, meta.Add([]byte("foo"), []byte("baz")))

	require.Equal(t, 2, meta.Count([]byte("foo")))

	got, ok := meta.Get([]byte("foo"))
	require.True(t, ok)
	require.Equal(t, []byte("bar"), got)

	require.Equal(t, [][]byte{[]byte("bar"), []byte("baz")}, meta.GetAll([]byte("foo")))
	require.Equal(t, [][]byte(nil), meta.GetAll([]byte("bar")))

	_, ok = meta.Get([]byte("bar"))
	require.False(t, ok)
	require.Equal(t, 0, meta.Count([]byte("bar")))

	encoded, err := meta.MarshalBinary()
	require.NoError(t, err)

	var decoded indexmeta.Meta
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	require.Equal(t, meta, decoded)
}

func TestMetaStringAndUint64(t *testing.T) {
	var meta indexmeta.Meta
	require.NoError(t, meta.AddString([]byte("build_tool"), "kiblt"))
	require.NoError(t, meta.AddUint64([]byte("build_time"), 1_700_000_000))

	s, ok := meta.GetString([]byte("build_tool"))
	require.True(t, ok)
	require.Equal(t, "kiblt", s)

	n, ok := meta.GetUint64([]byte("build_time"))
	require.True(t, ok)
	require.Equal(t, uint64(1_700_000_000), n)

	meta.Remove([]byte("build_tool"))
	_, ok = meta.GetString([]byte("build_tool"))
	require.False(t, ok)
}
