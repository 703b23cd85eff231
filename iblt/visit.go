package iblt

import (
	"math"

	"github.com/kmersync/kiblt/kiblterr"
)

// Visitor drives field-by-field (de)serialisation of an IBLT. A save
// visitor reads each pointer's current value and writes it to a
// sink; a load visitor reads a value from a source and stores it
// through the pointer. Visit calls these in the same order for both
// directions, so round-tripping an IBLT through Save and Load is
// total by construction: see package sketchio.
type Visitor interface {
	Uint8(v *uint8) error
	Uint32(v *uint32) error
	Uint64(v *uint64) error
	// Float32 carries a float64 in memory but is written/read on the
	// wire as a 32-bit IEEE-754 value, matching the on-disk epsilon
	// field width.
	Float32(v *float64) error
	// Bytes visits a byte slice of exactly n bytes. On a load visitor,
	// *v is replaced with a freshly read n-byte slice.
	Bytes(v *[]byte, n int) error
}

// Visit walks every persisted field of b in wire order. Geometry
// (hash width, bucket size, row count derivation) is recomputed from
// the base parameters immediately after they are visited, so a load
// visitor can size the counts/buckets slices it is about to fill
// before visiting them.
func (b *IBLT) Visit(v Visitor) error {
	if err := v.Uint8(&b.r); err != nil {
		return err
	}
	if err := v.Float32(&b.eps); err != nil {
		return err
	}
	if err := v.Uint64(&b.chunk); err != nil {
		return err
	}
	if err := v.Uint8(&b.k); err != nil {
		return err
	}
	if err := v.Uint64(&b.n); err != nil {
		return err
	}
	if err := v.Uint64(&b.seed); err != nil {
		return err
	}

	if err := b.deriveGeometry(); err != nil {
		return err
	}

	if err := v.Bytes(&b.counts, len(b.counts)); err != nil {
		return err
	}
	if err := v.Bytes(&b.buckets, len(b.buckets)); err != nil {
		return err
	}
	for i := range b.rowSeeds {
		if err := v.Uint32(&b.rowSeeds[i]); err != nil {
			return err
		}
	}
	if err := v.Uint64(&b.insertedCount); err != nil {
		return err
	}
	return nil
}

// deriveGeometry (re)computes every field derived from r, eps, chunk,
// k, n and seed, and (re)sizes counts/buckets/rowSeeds to match
// without discarding already-correct contents: calling it twice in a
// row (as both Save, where geometry is already right, and Load, where
// it starts from a zero IBLT, do) is safe.
func (b *IBLT) deriveGeometry() error {
	h := uint32(math.Ceil(float64(b.r-2)*math.Log2(float64(b.n)) + float64(b.r)))
	if h > 64 {
		return kiblterr.New(kiblterr.CodeMalformedInput, "iblt: persisted n/r imply a redundancy-code width over 64 bits")
	}
	b.hBits = h
	b.prefixLen = h % 8
	if b.prefixLen != 0 {
		b.mask = byte(^((1 << (8 - b.prefixLen)) - 1))
	} else {
		b.mask = 0
	}

	b.numBuckets = b.chunk * uint64(b.r)
	b.payloadLen = ceilDiv32(2*uint32(b.k), 8)
	b.bucketSize = ceilDiv32(2*uint32(b.k)+h, 8)

	wantCounts := ceilDiv64(b.numBuckets, 4)
	if uint64(len(b.counts)) != wantCounts {
		b.counts = make([]byte, wantCounts)
	}
	wantBuckets := b.numBuckets * uint64(b.bucketSize)
	if uint64(len(b.buckets)) != wantBuckets {
		b.buckets = make([]byte, wantBuckets)
	}
	if len(b.codeBuf) != int(b.bucketSize) {
		b.codeBuf = make([]byte, b.bucketSize)
	}
	if len(b.payloadBuf) != int(b.payloadLen) {
		b.payloadBuf = make([]byte, b.payloadLen)
	}
	if len(b.rowSeeds) != int(b.r) {
		rowSeeds := make([]uint32, b.r)
		for i := range rowSeeds {
			rowSeeds[i] = uint32(b.seed) ^ uint32(i)
		}
		b.rowSeeds = rowSeeds
	}
	return nil
}
