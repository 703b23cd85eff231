package sampler

// KmerSource is the minimal shape a lazy upstream k-mer producer must
// satisfy to feed a sampler; kmerview.Stream implements it.
type KmerSource interface {
	Next() (bool, error)
	Kmer() uint64
}

// SyncmerSampler yields the subset of an upstream k-mer stream whose
// minimum-hashing z-mer sits at offset o1 or o2 within the k-mer.
// o1 == o2 selects closed syncmers; distinct offsets select open
// syncmers.
type SyncmerSampler struct {
	src    KmerSource
	k, z   uint8
	o1, o2 uint8
	seed   uint64
}

// NewSyncmerSampler wraps src, sampling k-mers of width k by their
// z-width internal minimizer at offset o1 or o2.
func NewSyncmerSampler(src KmerSource, k, z, o1, o2 uint8, seed uint64) *SyncmerSampler {
	return &SyncmerSampler{src: src, k: k, z: z, o1: o1, o2: o2, seed: seed}
}

// Next advances to the next syncmer.
func (s *SyncmerSampler) Next() (bool, error) {
	for {
		ok, err := s.src.Next()
		if err != nil || !ok {
			return false, err
		}
		if s.isSyncmer(s.src.Kmer()) {
			return true, nil
		}
	}
}

// Kmer returns the current syncmer.
func (s *SyncmerSampler) Kmer() uint64 { return s.src.Kmer() }

func (s *SyncmerSampler) isSyncmer(kmer uint64) bool {
	numOffsets := int(s.k) - int(s.z) + 1
	minOffset := 0
	minHash := Mix64(zmerAt(kmer, s.k, 0, s.z), s.seed)
	for o := 1; o < numOffsets; o++ {
		h := Mix64(zmerAt(kmer, s.k, uint8(o), s.z), s.seed)
		if h < minHash {
			minHash = h
			minOffset = o
		}
	}
	return minOffset == int(s.o1) || minOffset == int(s.o2)
}

// zmerAt extracts the z-base substring of kmer starting at base offset
// o (0-indexed from the most significant base, i.e. the leftmost base
// of the sequence the k-mer was built from).
func zmerAt(kmer uint64, k, o, z uint8) uint64 {
	shift := 2 * (uint64(k) - uint64(o) - uint64(z))
	mask := (uint64(1) << (2 * uint64(z))) - 1
	return (kmer >> shift) & mask
}
