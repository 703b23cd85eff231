package kmerview_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmersync/kiblt/kmerview"
)

func TestViewEmitsKmersOnlyAfterKValidBases(t *testing.T) {
	v := kmerview.New(3, false)
	v.Reset([]byte("ACGTA"))

	var got []uint64
	for v.Next() {
		got = append(got, v.Kmer())
	}
	// ACG, CGT, GTA
	require.Len(t, got, 3)
}

func TestViewResetsOnInvalidBase(t *testing.T) {
	v := kmerview.New(3, false)
	v.Reset([]byte("ACNGTA"))

	var got []uint64
	for v.Next() {
		got = append(got, v.Kmer())
	}
	// break at N: only "GTA" accumulates 3 valid bases afterward
	require.Len(t, got, 1)
}

func TestCanonicalPicksSmallerStrand(t *testing.T) {
	v := kmerview.New(4, true)
	v.Reset([]byte("ACGT"))
	require.True(t, v.Next())
	canon := v.Kmer()

	fwd := kmerview.New(4, false)
	fwd.Reset([]byte("ACGT"))
	require.True(t, fwd.Next())

	if fwd.ReverseComplement() < fwd.Forward() {
		require.Equal(t, fwd.ReverseComplement(), canon)
	} else {
		require.Equal(t, fwd.Forward(), canon)
	}
}

func TestPackUnpackKmerRoundTrip(t *testing.T) {
	for _, k := range []uint8{1, 3, 4, 7, 8, 15, 32} {
		kmer := maskFor(k) // all bits set, the hardest case for right-alignment
		packed := kmerview.PackKmer(kmer, k)
		require.Len(t, packed, int((2*int(k)+7)/8))
		require.Equal(t, kmer, kmerview.UnpackKmer(packed))
	}
}

func maskFor(k uint8) uint64 {
	if k >= 32 {
		return ^uint64(0)
	}
	return (uint64(1) << (2 * uint64(k))) - 1
}

func TestFastaReaderSplitsOnHeaders(t *testing.T) {
	data := ">r1\nACGT\nACGT\n>r2\nGGGG\n"
	fr := kmerview.NewFastaReader(strings.NewReader(data))

	rec1, ok, err := fr.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ACGTACGT", string(rec1))

	rec2, ok, err := fr.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "GGGG", string(rec2))

	_, ok, err = fr.NextRecord()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFastqReaderReturnsSequenceLineOnly(t *testing.T) {
	data := "@r1\nACGT\n+\nIIII\n@r2\nGGGG\n+\nIIII\n"
	fq := kmerview.NewFastqReader(strings.NewReader(data))

	rec1, ok, err := fq.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ACGT", string(rec1))

	rec2, ok, err := fq.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "GGGG", string(rec2))
}

func TestRawReaderOneLinePerRecord(t *testing.T) {
	data := "ACGT\nGGGG\n"
	raw := kmerview.NewRawReader(strings.NewReader(data))

	rec1, ok, err := raw.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ACGT", string(rec1))

	rec2, ok, err := raw.NextRecord()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "GGGG", string(rec2))

	_, ok, err = raw.NextRecord()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStreamSpansRecordsWithoutLeakingAcrossBoundary(t *testing.T) {
	data := ">r1\nAC\n>r2\nGT\n"
	fr := kmerview.NewFastaReader(strings.NewReader(data))
	s := kmerview.NewStream(3, false, fr)

	ok, err := s.Next()
	require.NoError(t, err)
	require.False(t, ok, "no single record has 3 consecutive valid bases")
}
