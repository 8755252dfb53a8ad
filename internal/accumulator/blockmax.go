package accumulator

import (
	"container/heap"

	"github.com/jassgo/jass/internal/codec"
)

// BlockMax is Variant B: a per-block maximum score plus a bounded
// min-heap of the best k documents seen so far. Because the segment
// scheduler feeds impacts in non-increasing order (§4.5), once a
// block's maximum cannot beat the heap's current threshold, that block
// can be skipped for the remainder of the query without affecting the
// final top-k.
type BlockMax struct {
	scores    []uint32
	blockSize uint32
	blockMax  []uint32
	dirty     []bool
	documents uint32
	heap      resultHeap
	k         int
	skip      bool
}

// NewBlockMax preallocates state for maxDocuments split into 2^widthExp
// blocks. skipOnNoBeat enables the early-abandonment heuristic.
func NewBlockMax(maxDocuments uint32, widthExp uint, skipOnNoBeat bool) *BlockMax {
	blocks := uint32(1) << widthExp
	if blocks == 0 {
		blocks = 1
	}
	blockSize := (maxDocuments + blocks - 1) / blocks
	if blockSize == 0 {
		blockSize = 1
	}
	return &BlockMax{
		scores:    make([]uint32, maxDocuments),
		blockSize: blockSize,
		blockMax:  make([]uint32, blocks),
		dirty:     make([]bool, blocks),
		skip:      skipOnNoBeat,
	}
}

func (m *BlockMax) Reset(documents uint32, minScore, topScore, maxScore uint32, k int) {
	m.k = k
	for i, d := range m.dirty {
		if !d {
			continue
		}
		start := uint32(i) * m.blockSize
		end := start + m.blockSize
		if end > uint32(len(m.scores)) {
			end = uint32(len(m.scores))
		}
		for j := start; j < end; j++ {
			m.scores[j] = 0
		}
		m.blockMax[i] = 0
		m.dirty[i] = false
	}
	m.documents = documents
	m.heap = m.heap[:0]
}

// thresholdBeaten reports whether a block whose current max is blockMax
// could still place a document in the top-k, given impact still to be
// added in non-increasing order.
func (m *BlockMax) thresholdBeaten(blockMax, impact uint32) bool {
	if !m.skip || m.k == 0 || len(m.heap) < m.k {
		return true
	}
	return blockMax+impact > m.heap[0].Score
}

func (m *BlockMax) Add(impact uint32, doc uint32) {
	if doc >= uint32(len(m.scores)) {
		return
	}
	blk := doc / m.blockSize
	if !m.thresholdBeaten(m.blockMax[blk], impact) {
		return
	}
	s := m.scores[doc] + impact
	m.scores[doc] = s
	if s > m.blockMax[blk] {
		m.blockMax[blk] = s
	}
	m.dirty[blk] = true
	m.pushHeap(Result{Score: s, DocID: doc})
}

func (m *BlockMax) pushHeap(r Result) {
	if m.k == 0 {
		return
	}
	for i := range m.heap {
		if m.heap[i].DocID == r.DocID {
			m.heap[i].Score = r.Score
			heap.Fix(&m.heap, i)
			return
		}
	}
	if len(m.heap) < m.k {
		heap.Push(&m.heap, r)
		return
	}
	if beats(r, m.heap[0]) {
		m.heap[0] = r
		heap.Fix(&m.heap, 0)
	}
}

// beats reports whether a should displace b as a retained top-k
// candidate: a strictly higher score wins outright, and an equal score
// falls back to the ascending-doc_id tie-break (the lower doc_id wins).
func beats(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.DocID < b.DocID
}

func (m *BlockMax) DecodeAndProcess(dec codec.Decoder, dness int, impact uint32, n int, encoded []byte, scratch []uint32) error {
	ids, err := decodeInto(dec, dness, n, encoded, scratch)
	if err != nil {
		return err
	}
	for _, id := range ids {
		m.Add(impact, id)
	}
	return nil
}

func (m *BlockMax) Finalize(k int) []Result {
	m.k = k
	results := make([]Result, 0, len(m.heap))
	results = append(results, m.heap...)
	sortResults(results)
	if len(results) > k {
		results = results[:k]
	}
	return results
}

func sortResults(results []Result) {
	// Small-k selection; straightforward insertion-style sort by score
	// desc, doc_id asc is sufficient since results is heap-bounded to k.
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && less(results[j], results[j-1]); j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}

func less(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.DocID < b.DocID
}

// resultHeap is a min-heap on (Score asc, doc_id desc), used to track the
// k best documents seen so far: its root is always the weakest retained
// candidate — the lowest score, or among equal scores the highest
// doc_id — so root eviction keeps the ascending-doc_id tie-break in
// beats consistent with what actually gets displaced.
type resultHeap []Result

func (h resultHeap) Len() int { return len(h) }
func (h resultHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].DocID > h[j].DocID
}
func (h resultHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)   { *h = append(*h, x.(Result)) }
func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
