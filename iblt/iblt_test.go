package iblt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmersync/kiblt/iblt"
)

// packASCII packs an ASCII DNA string (A/C/G/T) into the right-aligned
// big-endian byte key shape the IBLT expects, independent of the
// kmerview package so these tests exercise iblt in isolation.
func packASCII(seq string) []byte {
	var v uint64
	for _, c := range seq {
		var base uint64
		switch c {
		case 'A':
			base = 0
		case 'C':
			base = 1
		case 'G':
			base = 2
		case 'T':
			base = 3
		}
		v = (v << 2) | base
	}
	n := (2*len(seq) + 7) / 8
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

func newTable(t *testing.T, r uint8, n uint64) *iblt.IBLT {
	t.Helper()
	b, err := iblt.New(iblt.Params{K: 4, R: r, Eps: 0, N: n, Seed: 1234})
	require.NoError(t, err)
	return b
}

func TestDiffRecoversDisjointKeys(t *testing.T) {
	i1 := newTable(t, 3, 4)
	i2 := newTable(t, 3, 4)

	require.NoError(t, i1.Insert(packASCII("AAAA")))
	require.NoError(t, i1.Insert(packASCII("ACGT")))
	require.NoError(t, i2.Insert(packASCII("AAAA")))
	require.NoError(t, i2.Insert(packASCII("GGGG")))

	require.NoError(t, i1.Subtract(i2))
	positives, negatives, outcome, err := i1.List()
	require.NoError(t, err)
	require.Equal(t, iblt.OutcomeNone, outcome)
	require.ElementsMatch(t, [][]byte{packASCII("ACGT")}, positives)
	require.ElementsMatch(t, [][]byte{packASCII("GGGG")}, negatives)
}

func TestInsertThenRemoveEmptiesTable(t *testing.T) {
	b := newTable(t, 3, 4)
	key := packASCII("ACGT")
	require.NoError(t, b.Insert(key))
	require.NoError(t, b.Remove(key))

	positives, negatives, outcome, err := b.List()
	require.NoError(t, err)
	require.Equal(t, iblt.OutcomeNone, outcome)
	require.Empty(t, positives)
	require.Empty(t, negatives)
}

func TestUnpeelableWhenOverCapacity(t *testing.T) {
	b := newTable(t, 3, 2)
	bases := "ACGT"
	for i := 0; i < 200; i++ {
		seq := make([]byte, 4)
		for j := range seq {
			seq[j] = bases[(i>>(2*j))&3]
		}
		require.NoError(t, b.Insert(packASCII(string(seq))))
	}

	_, _, outcome, err := b.List()
	require.NoError(t, err)
	require.Equal(t, iblt.OutcomeUnpeelable, outcome)
}

func TestSubtractRejectsIncompatibleParams(t *testing.T) {
	i1 := newTable(t, 3, 4)
	i2, err := iblt.New(iblt.Params{K: 4, R: 4, Eps: 0, N: 4, Seed: 1234})
	require.NoError(t, err)

	err = i1.Subtract(i2)
	require.Error(t, err)
}

func TestMutationRejectedAfterPeel(t *testing.T) {
	b := newTable(t, 3, 4)
	require.NoError(t, b.Insert(packASCII("ACGT")))
	require.NoError(t, b.Remove(packASCII("ACGT")))
	_, _, _, err := b.List()
	require.NoError(t, err)

	err = b.Insert(packASCII("AAAA"))
	require.Error(t, err)
}

func TestNewRejectsBadParams(t *testing.T) {
	_, err := iblt.New(iblt.Params{K: 4, R: 2, Eps: 0, N: 4, Seed: 0})
	require.Error(t, err)

	_, err = iblt.New(iblt.Params{K: 4, R: 3, Eps: 2, N: 4, Seed: 0})
	require.Error(t, err)

	_, err = iblt.New(iblt.Params{K: 4, R: 3, Eps: 0, N: 0, Seed: 0})
	require.Error(t, err)
}
