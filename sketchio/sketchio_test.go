package sketchio_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmersync/kiblt/iblt"
	"github.com/kmersync/kiblt/indexmeta"
	"github.com/kmersync/kiblt/sketchio"
)

func buildSketch(t *testing.T) *iblt.IBLT {
	t.Helper()
	b, err := iblt.New(iblt.Params{K: 4, R: 3, Eps: 0, N: 8, Seed: 99})
	require.NoError(t, err)
	require.NoError(t, b.Insert([]byte{0x1B}))
	require.NoError(t, b.Insert([]byte{0xAA}))
	return b
}

func TestSaveLoadRoundTripWithoutMetadata(t *testing.T) {
	sketch := buildSketch(t)

	var buf bytes.Buffer
	require.NoError(t, sketchio.Save(&buf, sketch, nil))

	loaded, meta, err := sketchio.Load(&buf)
	require.NoError(t, err)
	require.Nil(t, meta)

	require.Equal(t, sketch.K(), loaded.K())
	require.Equal(t, sketch.R(), loaded.R())
	require.Equal(t, sketch.N(), loaded.N())
	require.Equal(t, sketch.Seed(), loaded.Seed())
	require.Equal(t, sketch.NumBuckets(), loaded.NumBuckets())
	require.Equal(t, sketch.BucketSize(), loaded.BucketSize())
	require.Equal(t, sketch.InsertedCount(), loaded.InsertedCount())
}

func TestSaveLoadRoundTripWithMetadata(t *testing.T) {
	sketch := buildSketch(t)

	meta := &indexmeta.Meta{}
	require.NoError(t, meta.AddString(sketchio.MetaKeyBuildTool, "kiblt-test"))
	require.NoError(t, meta.AddString(sketchio.MetaKeySource, "sample.fasta"))

	var buf bytes.Buffer
	require.NoError(t, sketchio.Save(&buf, sketch, meta))

	_, loadedMeta, err := sketchio.Load(&buf)
	require.NoError(t, err)
	require.NotNil(t, loadedMeta)

	tool, ok := loadedMeta.GetString(sketchio.MetaKeyBuildTool)
	require.True(t, ok)
	require.Equal(t, "kiblt-test", tool)

	source, ok := loadedMeta.GetString(sketchio.MetaKeySource)
	require.True(t, ok)
	require.Equal(t, "sample.fasta", source)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	bad := bytes.NewBufferString("not-a-sketch-file-at-all-000")
	_, _, err := sketchio.Load(bad)
	require.Error(t, err)
}

func TestLoadRejectsTruncatedInput(t *testing.T) {
	sketch := buildSketch(t)
	var buf bytes.Buffer
	require.NoError(t, sketchio.Save(&buf, sketch, nil))

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()/2])
	_, _, err := sketchio.Load(truncated)
	require.Error(t, err)
}

func TestDiffSurvivesRoundTrip(t *testing.T) {
	a, err := iblt.New(iblt.Params{K: 4, R: 3, Eps: 0, N: 4, Seed: 7})
	require.NoError(t, err)
	b, err := iblt.New(iblt.Params{K: 4, R: 3, Eps: 0, N: 4, Seed: 7})
	require.NoError(t, err)
	require.NoError(t, a.Insert([]byte{0x1B}))
	require.NoError(t, a.Insert([]byte{0xAA}))
	require.NoError(t, b.Insert([]byte{0xAA}))

	var bufA, bufB bytes.Buffer
	require.NoError(t, sketchio.Save(&bufA, a, nil))
	require.NoError(t, sketchio.Save(&bufB, b, nil))

	la, _, err := sketchio.Load(&bufA)
	require.NoError(t, err)
	lb, _, err := sketchio.Load(&bufB)
	require.NoError(t, err)

	require.NoError(t, la.Subtract(lb))
	positives, negatives, outcome, err := la.List()
	require.NoError(t, err)
	require.Equal(t, iblt.OutcomeNone, outcome)
	require.ElementsMatch(t, [][]byte{{0x1B}}, positives)
	require.Empty(t, negatives)
}
