// Package accumulator implements the two score-accumulation strategies a
// worker uses while executing a segment schedule: a bucketed array with
// dirty-block tracking (Variant A, the default), and a block-max
// structure with early-abandonment (Variant B). Both satisfy the same
// Accumulator contract so the engine can pick one at build time.
package accumulator

import (
	"github.com/jassgo/jass/internal/codec"
)

// Result is one scored document.
type Result struct {
	Score uint32
	DocID uint32
}

// Accumulator scores documents across a sequence of impact segments and
// extracts the top-k at the end of a query.
type Accumulator interface {
	// Reset begins a new query over a fixed document count, given the
	// RSV bounds the scheduler computed for it and the k the query
	// will be finalized with (needed by Variant B's early-abandonment
	// threshold before any document is scored).
	Reset(documents uint32, minScore, topScore, maxScore uint32, k int)
	// Add adds impact to doc's running score.
	Add(impact uint32, doc uint32)
	// DecodeAndProcess decodes n document ids from encoded using dec
	// (whose D-ness is dness) and adds impact to each.
	DecodeAndProcess(dec codec.Decoder, dness int, impact uint32, n int, encoded []byte, scratch []uint32) error
	// Finalize returns up to k best (score, doc_id) pairs, highest
	// score first, ties broken by ascending doc_id.
	Finalize(k int) []Result
}

func decodeInto(dec codec.Decoder, dness int, n int, encoded []byte, scratch []uint32) ([]uint32, error) {
	if cap(scratch) < n {
		scratch = make([]uint32, n)
	}
	scratch = scratch[:n]
	if err := dec.Decode(encoded, n, scratch); err != nil {
		return nil, err
	}
	codec.ApplyDNess(dness, scratch)
	return scratch, nil
}
