// Package scheduler builds and executes the impact-ordered segment
// schedule that is the anytime core of a query: for each term a query
// touches, every one of its impact segments becomes a schedule entry;
// entries are sorted by effective impact descending (cheapest-first tie
// break), then executed in that order until the posting budget would be
// exceeded by the next whole segment.
//
// Ported from JASSv2's JASS_anytime.cpp anytime() function.
package scheduler

import (
	"sort"

	"github.com/jassgo/jass/internal/accumulator"
	"github.com/jassgo/jass/internal/codec"
	"github.com/jassgo/jass/internal/indexview"
	"github.com/jassgo/jass/internal/jasserr"
)

// Entry is one materialised schedule entry: a single impact segment of
// a single query term, already scaled by that term's repetition count.
type Entry struct {
	EffectiveImpact  uint32
	Offset           uint64
	End              uint64
	SegmentFrequency uint32
}

// Bounds are the RSV bounds the scheduler computes before execution,
// used to initialise the accumulator.
type Bounds struct {
	Largest  uint32
	Smallest uint32
}

// Term is a distinct query term with its repetition count within the
// query (coalesced duplicates, per spec.md's derived schedule entry).
type Term struct {
	Text       string
	Repetition uint32
}

// Build materialises the flat schedule S and the RSV bounds for terms
// against view. Terms absent from the vocabulary are silently skipped
// (TermNotFound is not an error). The returned buf, if non-nil and of
// sufficient capacity, is reused to avoid an allocation per query.
func Build(view *indexview.IndexView, terms []Term, buf []Entry) ([]Entry, Bounds, error) {
	entries := buf[:0]
	var largest, smallest uint32
	smallest = ^uint32(0)
	haveAny := false

	for _, term := range terms {
		if term.Repetition == 0 {
			continue
		}
		meta, ok := view.Lookup(term.Text)
		if !ok {
			continue // TermNotFound: silently skipped
		}
		headers, err := view.SegmentHeaders(meta)
		if err != nil {
			return nil, Bounds{}, err
		}
		if len(headers) == 0 {
			continue
		}

		// RSV bounds compare only the first and last header's impact,
		// matching JASS_anytime.cpp's literal behaviour (a documented
		// producer-side inconsistency: headers aren't always ordered
		// highest-impact-first).
		first := headers[0].Impact
		last := headers[len(headers)-1].Impact
		termMax := first
		if last > termMax {
			termMax = last
		}
		termMin := first
		if last < termMin {
			termMin = last
		}

		largest += uint32(termMax) * term.Repetition
		if uint32(termMin) < smallest {
			smallest = uint32(termMin)
		}
		haveAny = true

		for _, h := range headers {
			if h.SegmentFrequency == 0 {
				continue
			}
			entries = append(entries, Entry{
				EffectiveImpact:  uint32(h.Impact) * term.Repetition,
				Offset:           h.Offset,
				End:              h.End,
				SegmentFrequency: h.SegmentFrequency,
			})
		}
	}

	if !haveAny {
		smallest = 0
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EffectiveImpact != entries[j].EffectiveImpact {
			return entries[i].EffectiveImpact > entries[j].EffectiveImpact
		}
		return entries[i].SegmentFrequency < entries[j].SegmentFrequency
	})

	return entries, Bounds{Largest: largest, Smallest: smallest}, nil
}

// CheckWidth reports a MalformedCodecStream-classified error if bounds'
// largest possible RSV would overflow the accumulator's configured
// element width. Per spec.md's resolution of this open question, an
// overflowing query degrades to an empty result rather than silently
// wrapping or auto-upgrading the accumulator width.
func CheckWidth(bounds Bounds, max uint32) error {
	if bounds.Largest > max {
		return jasserr.Wrapf(jasserr.MalformedCodecStream, "largest possible rsv %d exceeds accumulator width max %d", bounds.Largest, max)
	}
	return nil
}

// Execute runs the conservative, full-segment-only anytime loop over
// entries against view's postings, scoring into acc, and returns the
// number of postings actually processed.
func Execute(view *indexview.IndexView, entries []Entry, budget uint64, acc accumulator.Accumulator, scratch []uint32) (uint64, error) {
	if len(entries) == 0 || budget == 0 {
		return 0, nil
	}
	tag, err := view.CodecTag()
	if err != nil {
		return 0, err
	}
	entry, err := codec.Lookup(tag)
	if err != nil {
		return 0, err
	}

	var processed uint64
	for _, e := range entries {
		if processed+uint64(e.SegmentFrequency) > budget {
			break
		}
		payload, err := view.PostingsPayload(indexview.SegmentHeader{Offset: e.Offset, End: e.End})
		if err != nil {
			return processed, jasserr.Wrap(jasserr.MalformedCodecStream, err)
		}
		if err := acc.DecodeAndProcess(entry.Decoder, entry.DNess, e.EffectiveImpact, int(e.SegmentFrequency), payload, scratch); err != nil {
			return processed, err
		}
		processed += uint64(e.SegmentFrequency)
	}
	return processed, nil
}
