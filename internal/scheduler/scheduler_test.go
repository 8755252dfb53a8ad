package scheduler

import (
	"encoding/binary"
	"testing"

	"github.com/jassgo/jass/internal/accumulator"
	"github.com/jassgo/jass/internal/codec"
	"github.com/jassgo/jass/internal/indexview"
)

// buildIndex constructs a synthetic index from a set of terms, each with
// one or more segments of (impact, docIDs...), using the carryover12
// codec (tag 1) to encode postings, document ids stored as absolute
// (D-ness 1, so the first id is absolute and the rest are deltas).
type termSpec struct {
	name     string
	segments []segSpec
}

type segSpec struct {
	impact uint16
	docIDs []uint32
}

func buildIndex(t *testing.T, documents uint32, terms []termSpec) *indexview.IndexView {
	t.Helper()

	var pk []byte
	for i := uint32(0); i < documents; i++ {
		pk = append(pk, byte('A'+i), 0)
	}
	var offs []byte
	off := uint32(0)
	for i := uint32(0); i < documents; i++ {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(off))
		offs = append(offs, b...)
		off += 2
	}
	pk = append(pk, offs...)
	cnt := make([]byte, 8)
	binary.LittleEndian.PutUint64(cnt, uint64(documents))
	pk = append(pk, cnt...)

	postings := []byte{1} // carryover12 tag
	var vocabTerms []byte
	var vocab []byte

	for _, term := range terms {
		termOffset := uint64(len(vocabTerms))
		vocabTerms = append(vocabTerms, []byte(term.name)...)
		vocabTerms = append(vocabTerms, 0)

		postingsOffset := uint64(len(postings))
		// Headers for one term are laid out contiguously before any of
		// that term's payload bytes, so compute all header bytes first.
		headerBytes := make([]byte, 0, 22*len(term.segments))
		var payloads [][]byte
		cursor := postingsOffset + uint64(22*len(term.segments))
		for _, seg := range term.segments {
			deltas := toDeltas(seg.docIDs)
			encoded := codec.Carryover12{}.Encode(deltas)
			start := cursor
			end := cursor + uint64(len(encoded))
			h := make([]byte, 22)
			binary.LittleEndian.PutUint16(h[0:2], seg.impact)
			binary.LittleEndian.PutUint32(h[2:6], uint32(len(seg.docIDs)))
			binary.LittleEndian.PutUint64(h[6:14], start)
			binary.LittleEndian.PutUint64(h[14:22], end)
			headerBytes = append(headerBytes, h...)
			payloads = append(payloads, encoded)
			cursor = end
		}
		postings = append(postings, headerBytes...)
		for _, p := range payloads {
			postings = append(postings, p...)
		}

		vb := make([]byte, 24)
		binary.LittleEndian.PutUint64(vb[0:8], termOffset)
		binary.LittleEndian.PutUint64(vb[8:16], postingsOffset)
		binary.LittleEndian.PutUint64(vb[16:24], uint64(len(term.segments)))
		vocab = append(vocab, vb...)
	}

	v, err := indexview.FromMemory(pk, vocabTerms, vocab, postings)
	if err != nil {
		t.Fatalf("FromMemory: %v", err)
	}
	return v
}

func toDeltas(ids []uint32) []uint32 {
	out := make([]uint32, len(ids))
	prev := uint32(0)
	for i, id := range ids {
		if i == 0 {
			out[i] = id
		} else {
			out[i] = id - prev
		}
		prev = id
	}
	return out
}

func run(t *testing.T, view *indexview.IndexView, terms []Term, budget uint64, k int) []accumulator.Result {
	t.Helper()
	entries, bounds, err := Build(view, terms, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	acc := accumulator.NewBucketed(view.Documents(), 2, accumulator.Width32)
	var top uint32
	if len(entries) > 0 {
		top = entries[0].EffectiveImpact
	}
	acc.Reset(view.Documents(), bounds.Smallest, top, bounds.Largest, k)
	if _, err := Execute(view, entries, budget, acc, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return acc.Finalize(k)
}

func TestE1SingleTermSingleSegment(t *testing.T) {
	v := buildIndex(t, 3, []termSpec{
		{name: "x", segments: []segSpec{{impact: 5, docIDs: []uint32{0, 2}}}},
	})
	defer v.Close()
	results := run(t, v, []Term{{Text: "x", Repetition: 1}}, 100, 3)
	want := []accumulator.Result{{Score: 5, DocID: 0}, {Score: 5, DocID: 2}}
	assertResultsPrefix(t, results, want)
}

func TestE2TwoTermsFitBudget(t *testing.T) {
	v := buildIndex(t, 3, []termSpec{
		{name: "x", segments: []segSpec{{impact: 5, docIDs: []uint32{0, 2}}}},
		{name: "y", segments: []segSpec{{impact: 3, docIDs: []uint32{1}}}},
	})
	defer v.Close()
	results := run(t, v, []Term{{Text: "x", Repetition: 1}, {Text: "y", Repetition: 1}}, 3, 3)
	want := []accumulator.Result{{Score: 5, DocID: 0}, {Score: 5, DocID: 2}, {Score: 3, DocID: 1}}
	assertResultsPrefix(t, results, want)
}

func TestE3SecondTermSkippedByBudget(t *testing.T) {
	v := buildIndex(t, 3, []termSpec{
		{name: "x", segments: []segSpec{{impact: 5, docIDs: []uint32{0, 2}}}},
		{name: "y", segments: []segSpec{{impact: 3, docIDs: []uint32{1}}}},
	})
	defer v.Close()
	results := run(t, v, []Term{{Text: "x", Repetition: 1}, {Text: "y", Repetition: 1}}, 2, 3)
	if len(results) != 2 || results[0].DocID != 0 || results[1].DocID != 2 {
		t.Errorf("results = %+v, want docs 0 and 2 only (y segment must be skipped)", results)
	}
}

func TestE4RepeatedTermScalesImpact(t *testing.T) {
	v := buildIndex(t, 3, []termSpec{
		{name: "x", segments: []segSpec{{impact: 5, docIDs: []uint32{0, 2}}}},
	})
	defer v.Close()
	results := run(t, v, []Term{{Text: "x", Repetition: 2}}, 2, 3)
	if len(results) != 2 || results[0].Score != 10 || results[1].Score != 10 {
		t.Errorf("results = %+v, want both docs scored 10", results)
	}
}

func TestE5UnknownTermYieldsEmptyResult(t *testing.T) {
	v := buildIndex(t, 3, []termSpec{
		{name: "x", segments: []segSpec{{impact: 5, docIDs: []uint32{0, 2}}}},
	})
	defer v.Close()
	entries, _, err := Build(v, []Term{{Text: "z", Repetition: 1}}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want empty (z not in vocabulary)", entries)
	}
}

func TestE6TwoSegmentTermOrdering(t *testing.T) {
	v := buildIndex(t, 3, []termSpec{
		{name: "w", segments: []segSpec{
			{impact: 9, docIDs: []uint32{0}},
			{impact: 4, docIDs: []uint32{1, 2}},
		}},
	})
	defer v.Close()
	results := run(t, v, []Term{{Text: "w", Repetition: 1}}, 3, 3)
	want := []accumulator.Result{{Score: 9, DocID: 0}, {Score: 4, DocID: 1}, {Score: 4, DocID: 2}}
	assertResultsPrefix(t, results, want)
}

func assertResultsPrefix(t *testing.T, got, want []accumulator.Result) {
	t.Helper()
	if len(got) < len(want) {
		t.Fatalf("got %d results, want at least %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("results[%d] = %+v, want %+v (full got: %+v)", i, got[i], want[i], got)
		}
	}
}
