// Package iblt implements an Invertible Bloom Lookup Table over
// fixed-width binary keys (nucleotide k-mers packed two bits per
// base).
//
// An IBLT is a row-partitioned array of buckets. Each key hashes into
// one bucket per row; inserting XORs the key's payload and a
// redundancy code into every touched bucket and bumps a 2-bit modular
// counter alongside it. Two IBLTs built with identical parameters can
// be subtracted bucket-for-bucket and count-for-count; the result
// peels exactly when the symmetric difference of the two input sets
// is smaller than the capacity chosen at construction.
//
// Construction: given k, r in [3,7], eps in [0,1], n > 0 and a seed,
//
//	H           = ceil((r-2)*log2(n) + r)
//	prefix_len  = H mod 8
//	chunk       = ceil((ck[r]+eps)*n/r) + 1
//	num_buckets = chunk * r
//	B           = ceil((2k+H)/8)
//
// with ck = [_, _, _, 1.222, 1.295, 1.425, 1.570, 1.721] indexed by r.
// Buckets are split into r equal rows of chunk buckets each; the i-th
// hash of a key always lands in row i.
//
// Hash placement: for row i and key bytes, a 128-bit MurmurHash3
// (x64_128) of (key, rowSeed[i]) splits into two 64-bit words (h, c).
// idx = i*chunk + (h mod chunk); c's low H bits are the row's
// redundancy code, XOR-accumulated into the bucket alongside the
// payload so a bucket's apparent count of one can be checked against
// forgery before it is trusted during peeling.
//
// insert XORs the key's payload and the row's code into every touched
// bucket and increments that bucket's 2-bit counter mod 4; remove is
// the same with the counter decremented. subtract requires identical
// parameters on both sides and then XORs buckets and subtracts counts
// mod 4 byte by byte. list peels: repeatedly finds a bucket whose
// count is ±1 and whose payload, when treated as a key, rehashes back
// to that same bucket and code (ruling out phantom peelables), records
// it as positive or negative, and removes its contribution from every
// row it touches, discovering newly-peelable buckets along the way.
// Peeling is budgeted at 2*n iterations and classifies its outcome by
// the residual count histogram: any surviving ±1 count is Unpeelable,
// any surviving count of 2 is Asymmetric (size recovered, sign
// ambiguous), hitting the budget is InfiniteLoop, and an empty
// histogram is success.
package iblt

import (
	"math"

	"github.com/spaolacci/murmur3"

	"github.com/kmersync/kiblt/kiblterr"
)

// Outcome classifies how a peeling pass terminated.
type Outcome int

const (
	// OutcomeNone means peeling fully emptied the table: every bucket
	// reads back to a zero count.
	OutcomeNone Outcome = iota
	// OutcomeUnpeelable means no peelable bucket remained but at least
	// one bucket still carries a ±1 count.
	OutcomeUnpeelable
	// OutcomeInfiniteLoop means the 2*n peel budget was exhausted.
	OutcomeInfiniteLoop
	// OutcomeAsymmetric means every remaining nonzero bucket carries a
	// count of 2: the difference's size was recovered but orientation
	// between two colliding keys could not be determined.
	OutcomeAsymmetric
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeUnpeelable:
		return "unpeelable"
	case OutcomeInfiniteLoop:
		return "infinite_loop"
	case OutcomeAsymmetric:
		return "asymmetric"
	default:
		return "unknown"
	}
}

// state is the lifecycle of an IBLT: empty and populated permit
// mutation, peeled and exhausted are terminal.
type state int

const (
	stateEmpty state = iota
	statePopulated
	statePeeled
	stateExhausted
)

// ckTable is indexed by r; entries 0..2 are unused since r ranges over [3,7].
var ckTable = [8]float64{0, 0, 0, 1.222, 1.295, 1.425, 1.570, 1.721}

// IBLT is a bit-packed, row-partitioned Invertible Bloom Lookup
// Table. The zero value is not usable; construct with New.
type IBLT struct {
	k    uint8
	r    uint8
	eps  float64
	n    uint64
	seed uint64

	hBits     uint32 // H
	prefixLen uint32 // H mod 8
	mask      byte   // M

	chunk      uint64
	numBuckets uint64
	bucketSize uint32 // B
	payloadLen uint32 // ceil(2k/8)

	rowSeeds []uint32

	insertedCount uint64
	state         state

	counts  []byte
	buckets []byte

	codeBuf    []byte
	payloadBuf []byte
}

// Params bundles the construction inputs of an IBLT.
type Params struct {
	K    uint8
	R    uint8
	Eps  float64
	N    uint64
	Seed uint64
}

// New allocates an empty IBLT for the given parameters.
func New(p Params) (*IBLT, error) {
	if p.R < 3 || p.R > 7 {
		return nil, kiblterr.New(kiblterr.CodeInvalidParams, "r must be in [3,7]")
	}
	if p.Eps < 0 || p.Eps > 1 {
		return nil, kiblterr.New(kiblterr.CodeInvalidParams, "eps must be in [0,1]")
	}
	if p.N == 0 {
		return nil, kiblterr.New(kiblterr.CodeInvalidParams, "n must be > 0")
	}
	if p.K == 0 {
		return nil, kiblterr.New(kiblterr.CodeInvalidParams, "k must be > 0")
	}

	ck := ckTable[p.R]
	h := uint32(math.Ceil(float64(p.R-2)*math.Log2(float64(p.N)) + float64(p.R)))
	if h > 64 {
		return nil, kiblterr.New(kiblterr.CodeInvalidParams, "hash-redundancy width exceeds 64 bits")
	}
	prefixLen := h % 8
	var mask byte
	if prefixLen != 0 {
		mask = byte(^((1 << (8 - prefixLen)) - 1))
	}

	chunk := uint64(math.Ceil((ck+p.Eps)*float64(p.N)/float64(p.R))) + 1
	numBuckets := chunk * uint64(p.R)
	if numBuckets > math.MaxInt64 {
		return nil, kiblterr.New(kiblterr.CodeInvalidParams, "num_buckets exceeds 2^63-1")
	}

	payloadLen := ceilDiv32(2*uint32(p.K), 8)
	bucketSize := ceilDiv32(2*uint32(p.K)+h, 8)

	rowSeeds := make([]uint32, p.R)
	for i := range rowSeeds {
		rowSeeds[i] = uint32(p.Seed) ^ uint32(i)
	}

	b := &IBLT{
		k:          p.K,
		r:          p.R,
		eps:        p.Eps,
		n:          p.N,
		seed:       p.Seed,
		hBits:      h,
		prefixLen:  prefixLen,
		mask:       mask,
		chunk:      chunk,
		numBuckets: numBuckets,
		bucketSize: bucketSize,
		payloadLen: payloadLen,
		rowSeeds:   rowSeeds,
		state:      stateEmpty,
		counts:     make([]byte, ceilDiv64(numBuckets, 4)),
		buckets:    make([]byte, numBuckets*uint64(bucketSize)),
		codeBuf:    make([]byte, bucketSize),
		payloadBuf: make([]byte, payloadLen),
	}
	return b, nil
}

func ceilDiv32(a, b uint32) uint32 { return (a + b - 1) / b }
func ceilDiv64(a, b uint64) uint64 { return (a + b - 1) / b }

// K returns the configured key width in bases.
func (b *IBLT) K() uint8 { return b.k }

// R returns the number of hash rows.
func (b *IBLT) R() uint8 { return b.r }

// Eps returns the configured slack factor.
func (b *IBLT) Eps() float64 { return b.eps }

// N returns the configured capacity.
func (b *IBLT) N() uint64 { return b.n }

// Seed returns the base seed rows were derived from.
func (b *IBLT) Seed() uint64 { return b.seed }

// HashBits returns H, the redundancy-code width in bits.
func (b *IBLT) HashBits() uint32 { return b.hBits }

// NumBuckets returns the total bucket count across all rows.
func (b *IBLT) NumBuckets() uint64 { return b.numBuckets }

// BucketSize returns B, the per-bucket byte width.
func (b *IBLT) BucketSize() uint32 { return b.bucketSize }

// Chunk returns the per-row bucket count.
func (b *IBLT) Chunk() uint64 { return b.chunk }

// InsertedCount returns the running tally of net insertions.
func (b *IBLT) InsertedCount() uint64 { return b.insertedCount }

// PayloadLen returns the key byte width, ceil(2k/8).
func (b *IBLT) PayloadLen() uint32 { return b.payloadLen }

// Params returns the construction parameters b was built with.
func (b *IBLT) Params() Params {
	return Params{K: b.k, R: b.r, Eps: b.eps, N: b.n, Seed: b.seed}
}

// Blank returns an unconstructed IBLT suitable only as the target of
// Visit from a load visitor, which must populate every field Visit
// touches before the table is otherwise usable.
func Blank() *IBLT {
	return &IBLT{state: statePopulated}
}

// rowHash computes the bucket index and redundancy code for key in row i.
func (b *IBLT) rowHash(key []byte, i int) (idx uint64, code uint64) {
	h1, h2 := murmur3.Sum128WithSeed(key, b.rowSeeds[i])
	idx = uint64(i)*b.chunk + (h1 % b.chunk)
	code = h2
	if b.hBits < 64 {
		code &= (uint64(1) << b.hBits) - 1
	}
	return idx, code
}
