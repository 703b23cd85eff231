// Package kmerview turns a stream of nucleotide bases into a lazy,
// finite, non-restartable sequence of canonical k-mers.
//
// The nucleotide translation table maps {A,a}->0, {C,c}->1, {G,g}->2,
// {T,t,U,u}->3, and every other byte to 4 (break). On a valid base the
// forward k-mer shifts left two bits and ORs in the base, masked to
// 2k bits; the reverse-complement k-mer shifts right two bits and ORs
// in the complemented base at the top. On an invalid byte the
// since-break counter resets and no k-mer is emitted again until k
// consecutive valid bases have been seen. In canonical mode the
// emitted value is the lexicographically smaller of the two strands;
// a tie (a palindromic k-mer) keeps whichever strand was chosen last.
package kmerview

import "encoding/binary"

// nucTable is the package-level immutable base-to-code lookup table.
var nucTable = buildNucTable()

func buildNucTable() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = 4
	}
	t['A'], t['a'] = 0, 0
	t['C'], t['c'] = 1, 1
	t['G'], t['g'] = 2, 2
	t['T'], t['t'] = 3, 3
	t['U'], t['u'] = 3, 3
	return t
}

// View produces canonical k-mers from a single contiguous base
// sequence. Call Reset before each independent record; resetting
// forces a hard break so no k-mer spans two records.
type View struct {
	k         uint8
	canonical bool
	fwdMask   uint64

	seq []byte
	pos int

	fwd, rc    uint64
	sinceBreak uint32

	kmer      uint64
	lastWasRC bool
}

// New returns a view configured for k-mers of width k, in canonical
// mode if canonical is true. k must be in [1,32] to fit in a uint64.
func New(k uint8, canonical bool) *View {
	return &View{k: k, canonical: canonical, fwdMask: maskFor(k)}
}

func maskFor(k uint8) uint64 {
	if k >= 32 {
		return ^uint64(0)
	}
	return (uint64(1) << (2 * uint64(k))) - 1
}

// Reset starts the view over a new base sequence, discarding any
// partially accumulated k-mer from before.
func (v *View) Reset(seq []byte) {
	v.seq = seq
	v.pos = 0
	v.fwd = 0
	v.rc = 0
	v.sinceBreak = 0
}

// Next advances to the next k-mer in the current sequence, returning
// false once the sequence is exhausted.
func (v *View) Next() bool {
	for v.pos < len(v.seq) {
		base := nucTable[v.seq[v.pos]]
		v.pos++
		if base == 4 {
			v.sinceBreak = 0
			v.fwd = 0
			v.rc = 0
			continue
		}
		v.fwd = ((v.fwd << 2) | uint64(base)) & v.fwdMask
		v.rc = (v.rc >> 2) | (uint64(3^base) << (2 * (uint64(v.k) - 1)))
		if v.sinceBreak < uint32(v.k) {
			v.sinceBreak++
		}
		if v.sinceBreak >= uint32(v.k) {
			switch {
			case v.rc < v.fwd:
				v.lastWasRC = true
			case v.rc > v.fwd:
				v.lastWasRC = false
			}
			if v.canonical && v.lastWasRC {
				v.kmer = v.rc
			} else {
				v.kmer = v.fwd
			}
			return true
		}
	}
	return false
}

// Kmer returns the k-mer produced by the most recent Next call.
func (v *View) Kmer() uint64 { return v.kmer }

// Forward returns the raw forward-strand value of the most recent k-mer.
func (v *View) Forward() uint64 { return v.fwd }

// ReverseComplement returns the raw reverse-complement value.
func (v *View) ReverseComplement() uint64 { return v.rc }

// K returns the configured k-mer width.
func (v *View) K() uint8 { return v.k }

// PackKmer encodes a k-mer's low 2k bits into a right-aligned,
// big-endian byte slice of length ceil(2k/8), the wire shape the IBLT
// and sampler packages expect as a key.
func PackKmer(kmer uint64, k uint8) []byte {
	n := int((2*uint32(k) + 7) / 8)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], kmer)
	return append([]byte(nil), buf[8-n:]...)
}

// UnpackKmer reverses PackKmer.
func UnpackKmer(key []byte) uint64 {
	var buf [8]byte
	copy(buf[8-len(key):], key)
	return binary.BigEndian.Uint64(buf[:])
}
