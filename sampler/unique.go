package sampler

// OrderedUniqueSampler suppresses a k-mer that repeats the immediately
// preceding one, assuming the upstream stream is already ordered so
// duplicates are adjacent. It changes no sampling semantics of the
// wrapped source; it only removes adjacent repeats before insertion,
// the way the teacher's FKS index pipeline avoids inserting the same
// key twice in a row from a pre-sorted run.
//
// Restored from original_source/include/ordered_unique_sampler.hpp,
// which the distilled spec dropped.
type OrderedUniqueSampler struct {
	src  KmerSource
	have bool
	prev uint64
}

// NewOrderedUniqueSampler wraps src.
func NewOrderedUniqueSampler(src KmerSource) *OrderedUniqueSampler {
	return &OrderedUniqueSampler{src: src}
}

// Next advances to the next k-mer that differs from the previous one.
func (u *OrderedUniqueSampler) Next() (bool, error) {
	for {
		ok, err := u.src.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		v := u.src.Kmer()
		if u.have && v == u.prev {
			continue
		}
		u.have = true
		u.prev = v
		return true, nil
	}
}

// Kmer returns the current k-mer.
func (u *OrderedUniqueSampler) Kmer() uint64 { return u.src.Kmer() }
