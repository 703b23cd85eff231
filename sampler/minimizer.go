package sampler

// MinimizerSampler yields, over a sliding window of w consecutive
// k-mers from an upstream stream, the k-mer with the smallest seeded
// hash; ties keep the leftmost (earliest) k-mer in the window. It is
// lazy and forward-only: a given window position is only emitted once,
// the first time it becomes the window minimum.
type MinimizerSampler struct {
	src  KmerSource
	w    uint8
	seed uint64

	window []uint64
	seen   uint64
	last   int64 // absolute index of the last emitted k-mer, -1 if none
	cur    uint64
}

// NewMinimizerSampler wraps src with a window of w k-mers.
func NewMinimizerSampler(src KmerSource, w uint8, seed uint64) *MinimizerSampler {
	return &MinimizerSampler{src: src, w: w, seed: seed, last: -1}
}

// Next advances to the next distinct window minimum.
func (m *MinimizerSampler) Next() (bool, error) {
	for {
		ok, err := m.src.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		m.window = append(m.window, m.src.Kmer())
		if uint64(len(m.window)) > uint64(m.w) {
			m.window = m.window[1:]
		}
		m.seen++
		if uint64(len(m.window)) < uint64(m.w) {
			continue
		}

		windowStart := int64(m.seen) - int64(m.w)
		minLocal := 0
		minHash := Mix64(m.window[0], m.seed)
		for i := 1; i < len(m.window); i++ {
			h := Mix64(m.window[i], m.seed)
			if h < minHash {
				minHash = h
				minLocal = i
			}
		}

		absIdx := windowStart + int64(minLocal)
		if absIdx == m.last {
			continue
		}
		m.last = absIdx
		m.cur = m.window[minLocal]
		return true, nil
	}
}

// Kmer returns the current window minimum.
func (m *MinimizerSampler) Kmer() uint64 { return m.cur }
