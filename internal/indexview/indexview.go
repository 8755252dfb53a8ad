// Package indexview loads a precomputed inverted index as four
// read-only byte regions (primary keys, vocabulary, term strings,
// postings) and exposes term lookup and segment-header iteration over
// them. The postings file is memory-mapped where the platform supports
// it, so its data is not copied into Go-managed memory there; the other
// three files are read fully.
//
// The on-disk layout mirrors JASSv2's serialised index: primary keys are
// NUL-terminated strings followed by an offset table and a trailing
// document count; the vocabulary file is a flat array of (term_offset,
// postings_offset, impact_count) triples, ordered lexicographically by
// term, with term_offset addressing the separate term-strings file;
// postings begin with a one-byte codec tag. A term's postings_offset
// addresses its impact_count segment headers themselves, stored back to
// back (22 bytes each); a per-term array of u64 offsets pointing to the
// headers is not read.
package indexview

import (
	"sort"

	"github.com/jassgo/jass/internal/jasserr"
	"github.com/jassgo/jass/internal/region"
)

const (
	segmentHeaderSize = 2 + 4 + 8 + 8 // impact, segment_frequency, offset, end
	vocabEntrySize    = 8 + 8 + 8     // term_offset, postings_offset, impact_count
)

// Bounds are the compile-time limits spec.md requires be validated
// against a loaded index at startup.
type Bounds struct {
	MaxDocuments     uint32
	MaxTermsPerQuery int
	MaxQuantum       int
}

// DefaultBounds matches spec.md's stated compile-time defaults.
var DefaultBounds = Bounds{
	MaxDocuments:     1 << 28,
	MaxTermsPerQuery: 1024,
	MaxQuantum:       1 << 20,
}

// SegmentHeader describes one contiguous run of postings sharing an
// impact score.
type SegmentHeader struct {
	Impact           uint16
	SegmentFrequency uint32
	Offset           uint64
	End              uint64
}

// TermMetadata locates a term's segment-header array and segment count
// within the postings region.
type TermMetadata struct {
	PostingsOffset uint64
	ImpactCount    uint64
}

// IndexView is a loaded, read-only index. Close must be called to
// release any memory mapping.
type IndexView struct {
	primaryKeys region.Bytes // raw string table
	offsets     []uint64     // document -> primary key offset
	documents   uint32

	vocabTerms region.Bytes // flat NUL-terminated term strings, lexicographic
	vocab      region.Bytes // flat (term_offset, postings_offset, impact_count) triples
	vocabCount int

	postings region.Bytes // codec tag byte + per-term segment-header arrays + payload

	closer func() error
}

// Documents returns the number of documents in the collection.
func (v *IndexView) Documents() uint32 { return v.documents }

// PrimaryKey returns the external document identifier for an internal
// document ordinal.
func (v *IndexView) PrimaryKey(doc uint32) (string, error) {
	if doc >= v.documents {
		return "", jasserr.Wrapf(jasserr.MalformedIndex, "document %d out of range (%d documents)", doc, v.documents)
	}
	start := v.offsets[doc]
	var end uint64
	if doc+1 < v.documents {
		end = v.offsets[doc+1]
	} else {
		end = uint64(len(v.primaryKeys))
	}
	s, err := v.primaryKeys.Slice(int(start), int(end))
	if err != nil {
		return "", err
	}
	// Trim the NUL terminator if present.
	if n := len(s); n > 0 && s[n-1] == 0 {
		s = s[:n-1]
	}
	return string(s), nil
}

// CodecTag returns the one-byte codec identifier at the start of the
// postings region.
func (v *IndexView) CodecTag() (byte, error) {
	if len(v.postings) < 1 {
		return 0, jasserr.New(jasserr.MalformedIndex, "postings region is empty, missing codec tag")
	}
	return v.postings[0], nil
}

// Lookup performs a binary search over the vocabulary for term and
// returns its metadata. ok is false (not an error) when the term is
// absent, per spec.md's TermNotFound handling.
func (v *IndexView) Lookup(term string) (meta TermMetadata, ok bool) {
	i := sort.Search(v.vocabCount, func(i int) bool {
		t, _ := v.termAt(i)
		return t >= term
	})
	if i >= v.vocabCount {
		return TermMetadata{}, false
	}
	t, err := v.termAt(i)
	if err != nil || t != term {
		return TermMetadata{}, false
	}
	postingsOff, _ := v.vocab.Uint64LE(i*vocabEntrySize + 8)
	impactCount, _ := v.vocab.Uint64LE(i*vocabEntrySize + 16)
	return TermMetadata{PostingsOffset: postingsOff, ImpactCount: impactCount}, true
}

func (v *IndexView) termAt(i int) (string, error) {
	termOff, err := v.vocab.Uint64LE(i * vocabEntrySize)
	if err != nil {
		return "", err
	}
	s, _, err := v.vocabTerms.CString(int(termOff))
	return s, err
}

// SegmentHeaders returns the term's segment headers in on-disk order
// (which JASSv2 writes from lowest to highest impact; callers needing
// highest-first iterate in reverse, matching the original's reverse
// iterator).
func (v *IndexView) SegmentHeaders(meta TermMetadata) ([]SegmentHeader, error) {
	n := int(meta.ImpactCount)
	out := make([]SegmentHeader, 0, n)
	base := int(meta.PostingsOffset)
	for i := 0; i < n; i++ {
		off := base + i*segmentHeaderSize
		impact, err := v.postings.Uint16LE(off)
		if err != nil {
			return nil, err
		}
		freq, err := v.postings.Uint32LE(off + 2)
		if err != nil {
			return nil, err
		}
		start, err := v.postings.Uint64LE(off + 6)
		if err != nil {
			return nil, err
		}
		end, err := v.postings.Uint64LE(off + 14)
		if err != nil {
			return nil, err
		}
		out = append(out, SegmentHeader{Impact: impact, SegmentFrequency: freq, Offset: start, End: end})
	}
	return out, nil
}

// PostingsPayload returns the raw byte range of a segment's encoded
// document-id list, a zero-copy sub-slice of the mmap'd postings region.
func (v *IndexView) PostingsPayload(h SegmentHeader) (region.Bytes, error) {
	return v.postings.Slice(int(h.Offset), int(h.End))
}

// Close releases the underlying memory mapping, if any. Safe to call
// more than once.
func (v *IndexView) Close() error {
	if v.closer == nil {
		return nil
	}
	closer := v.closer
	v.closer = nil
	return closer()
}

func buildFromRegions(primaryKeys, vocabTerms, vocab, postings []byte, bounds Bounds, closer func() error) (*IndexView, error) {
	pk := region.Bytes(primaryKeys)
	if len(pk) < 8 {
		return nil, jasserr.New(jasserr.MalformedIndex, "primary key region too small for trailing document count")
	}
	documents, err := pk.Uint64LE(len(pk) - 8)
	if err != nil {
		return nil, err
	}
	if documents > uint64(bounds.MaxDocuments) {
		return nil, jasserr.Wrapf(jasserr.IndexTooLarge, "index has %d documents, exceeds bound %d", documents, bounds.MaxDocuments)
	}
	offsetTableBytes := 8 * documents
	if uint64(len(pk)) < 8+offsetTableBytes {
		return nil, jasserr.New(jasserr.MalformedIndex, "primary key region too small for offset table")
	}
	offsetBase := len(pk) - 8 - int(offsetTableBytes)
	offsets := make([]uint64, documents)
	for i := range offsets {
		off, err := pk.Uint64LE(offsetBase + i*8)
		if err != nil {
			return nil, err
		}
		offsets[i] = off
	}
	strings := pk[:offsetBase]

	vb := region.Bytes(vocab)
	if len(vb)%vocabEntrySize != 0 {
		return nil, jasserr.Wrapf(jasserr.MalformedIndex, "vocabulary region length %d is not a multiple of %d", len(vb), vocabEntrySize)
	}
	vocabCount := len(vb) / vocabEntrySize

	return &IndexView{
		primaryKeys: strings,
		offsets:     offsets,
		documents:   uint32(documents),
		vocabTerms:  region.Bytes(vocabTerms),
		vocab:       vb,
		vocabCount:  vocabCount,
		postings:    region.Bytes(postings),
		closer:      closer,
	}, nil
}

// FromMemory builds an IndexView directly from in-memory byte slices,
// bypassing file I/O and mmap entirely. Used by tests to exercise the
// scheduler and accumulator against small synthetic indexes.
func FromMemory(primaryKeys, vocabTerms, vocab, postings []byte) (*IndexView, error) {
	return buildFromRegions(primaryKeys, vocabTerms, vocab, postings, DefaultBounds, nil)
}

// Open loads an index from the four files produced by an offline
// indexing pass — primary keys, vocabulary triples, term strings, and
// postings — mapping the postings file read-only where the platform
// supports it.
func Open(primaryKeysPath, vocabPath, termsPath, postingsPath string, bounds Bounds) (*IndexView, error) {
	pk, err := readFile(primaryKeysPath)
	if err != nil {
		return nil, jasserr.Wrap(jasserr.IoError, err)
	}
	vocab, err := readFile(vocabPath)
	if err != nil {
		return nil, jasserr.Wrap(jasserr.IoError, err)
	}
	terms, err := readFile(termsPath)
	if err != nil {
		return nil, jasserr.Wrap(jasserr.IoError, err)
	}
	postings, closer, err := mapPostings(postingsPath)
	if err != nil {
		return nil, jasserr.Wrap(jasserr.IoError, err)
	}
	v, err := buildFromRegions(pk, terms, vocab, postings, bounds, closer)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, err
	}
	return v, nil
}
