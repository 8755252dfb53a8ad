package accumulator

import (
	"sort"

	"github.com/jassgo/jass/internal/codec"
)

// Width selects the accumulator's score element width.
type Width int

const (
	Width8 Width = iota
	Width16
	Width32
)

// MaxForWidth returns the largest representable score for w.
func MaxForWidth(w Width) uint32 {
	switch w {
	case Width8:
		return 255
	case Width16:
		return 65535
	default:
		return 0xFFFFFFFF
	}
}

// Bucketed is Variant A: a contiguous score array partitioned into
// 2^widthExp blocks, each with a dirty flag. Reset only re-zeroes blocks
// that were touched by the previous query, keeping per-query cost
// proportional to documents actually scored rather than corpus size.
type Bucketed struct {
	scores    []uint32
	width     Width
	blockSize uint32
	dirty     []bool
	documents uint32
}

// NewBucketed preallocates a score array sized for maxDocuments and a
// block partition of 2^widthExp blocks.
func NewBucketed(maxDocuments uint32, widthExp uint, width Width) *Bucketed {
	blocks := uint32(1) << widthExp
	if blocks == 0 {
		blocks = 1
	}
	blockSize := (maxDocuments + blocks - 1) / blocks
	if blockSize == 0 {
		blockSize = 1
	}
	return &Bucketed{
		scores:    make([]uint32, maxDocuments),
		width:     width,
		blockSize: blockSize,
		dirty:     make([]bool, blocks),
	}
}

func (b *Bucketed) Reset(documents uint32, minScore, topScore, maxScore uint32, k int) {
	for i, d := range b.dirty {
		if !d {
			continue
		}
		start := uint32(i) * b.blockSize
		end := start + b.blockSize
		if end > uint32(len(b.scores)) {
			end = uint32(len(b.scores))
		}
		for j := start; j < end; j++ {
			b.scores[j] = 0
		}
		b.dirty[i] = false
	}
	b.documents = documents
}

func (b *Bucketed) Add(impact uint32, doc uint32) {
	if doc >= uint32(len(b.scores)) {
		return
	}
	max := MaxForWidth(b.width)
	s := b.scores[doc] + impact
	if s > max {
		s = max
	}
	b.scores[doc] = s
	b.dirty[doc/b.blockSize] = true
}

func (b *Bucketed) DecodeAndProcess(dec codec.Decoder, dness int, impact uint32, n int, encoded []byte, scratch []uint32) error {
	ids, err := decodeInto(dec, dness, n, encoded, scratch)
	if err != nil {
		return err
	}
	for _, id := range ids {
		b.Add(impact, id)
	}
	return nil
}

func (b *Bucketed) Finalize(k int) []Result {
	results := make([]Result, 0, b.documents)
	for i, dirty := range b.dirty {
		if !dirty {
			continue
		}
		start := uint32(i) * b.blockSize
		end := start + b.blockSize
		if end > b.documents {
			end = b.documents
		}
		for doc := start; doc < end; doc++ {
			if doc >= uint32(len(b.scores)) {
				break
			}
			if b.scores[doc] != 0 {
				results = append(results, Result{Score: b.scores[doc], DocID: doc})
			}
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}
