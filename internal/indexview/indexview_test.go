package indexview

import (
	"encoding/binary"
	"testing"
)

// buildSyntheticIndex constructs the four raw regions for a tiny
// two-document, two-term index:
//   doc 0 -> "d0", doc 1 -> "d1"
//   term "cat": one segment, impact 5, frequency 2, covering both docs
//   term "dog": one segment, impact 3, frequency 1
func buildSyntheticIndex(t *testing.T) (primaryKeys, vocabTerms, vocab, postings []byte) {
	t.Helper()

	// Primary keys: "d0\x00d1\x00" + offsets[0,3] + count=2
	pkStrings := []byte("d0\x00d1\x00")
	var pk []byte
	pk = append(pk, pkStrings...)
	off0 := make([]byte, 8)
	binary.LittleEndian.PutUint64(off0, 0)
	off1 := make([]byte, 8)
	binary.LittleEndian.PutUint64(off1, 3)
	pk = append(pk, off0...)
	pk = append(pk, off1...)
	count := make([]byte, 8)
	binary.LittleEndian.PutUint64(count, 2)
	pk = append(pk, count...)

	// Postings region: byte 0 codec tag, then two segment headers back
	// to back, then payload bytes (content irrelevant for this test).
	postingsPayload := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	var pb []byte
	pb = append(pb, 0x01) // codec tag
	// "cat" header at offset 1: impact=5, freq=2, start=5, end=7 (2 bytes payload)
	catHdr := segmentHeaderBytes(5, 2, 5, 7)
	pb = append(pb, catHdr...)
	// "dog" header at offset 1+22=23: impact=3, freq=1, start=7, end=9
	dogHdr := segmentHeaderBytes(3, 1, 7, 9)
	pb = append(pb, dogHdr...)
	pb = append(pb, postingsPayload...)

	catHeaderOffset := uint64(1)
	dogHeaderOffset := uint64(1 + segmentHeaderSize)

	// Vocabulary: terms "cat\x00dog\x00", triples (term_offset, postings_offset, impact_count)
	terms := []byte("cat\x00dog\x00")
	var vocabBytes []byte
	vocabBytes = append(vocabBytes, vocabEntry(0, catHeaderOffset, 1)...)
	vocabBytes = append(vocabBytes, vocabEntry(4, dogHeaderOffset, 1)...)

	return pk, terms, vocabBytes, pb
}

func segmentHeaderBytes(impact uint16, freq uint32, start, end uint64) []byte {
	b := make([]byte, segmentHeaderSize)
	binary.LittleEndian.PutUint16(b[0:2], impact)
	binary.LittleEndian.PutUint32(b[2:6], freq)
	binary.LittleEndian.PutUint64(b[6:14], start)
	binary.LittleEndian.PutUint64(b[14:22], end)
	return b
}

func vocabEntry(termOffset, postingsOffset, impactCount uint64) []byte {
	b := make([]byte, vocabEntrySize)
	binary.LittleEndian.PutUint64(b[0:8], termOffset)
	binary.LittleEndian.PutUint64(b[8:16], postingsOffset)
	binary.LittleEndian.PutUint64(b[16:24], impactCount)
	return b
}

func TestFromMemoryLookupAndSegments(t *testing.T) {
	pk, terms, vocab, postings := buildSyntheticIndex(t)
	v, err := FromMemory(pk, terms, vocab, postings)
	if err != nil {
		t.Fatalf("FromMemory: %v", err)
	}
	defer v.Close()

	if v.Documents() != 2 {
		t.Fatalf("Documents() = %d, want 2", v.Documents())
	}
	pk0, err := v.PrimaryKey(0)
	if err != nil || pk0 != "d0" {
		t.Errorf("PrimaryKey(0) = (%q, %v), want (d0, nil)", pk0, err)
	}
	pk1, err := v.PrimaryKey(1)
	if err != nil || pk1 != "d1" {
		t.Errorf("PrimaryKey(1) = (%q, %v), want (d1, nil)", pk1, err)
	}

	meta, ok := v.Lookup("cat")
	if !ok {
		t.Fatal("Lookup(cat) not found")
	}
	headers, err := v.SegmentHeaders(meta)
	if err != nil {
		t.Fatalf("SegmentHeaders: %v", err)
	}
	if len(headers) != 1 || headers[0].Impact != 5 || headers[0].SegmentFrequency != 2 {
		t.Errorf("SegmentHeaders(cat) = %+v, want one header impact=5 freq=2", headers)
	}

	if _, ok := v.Lookup("bird"); ok {
		t.Error("Lookup(bird) found, want not found")
	}

	tag, err := v.CodecTag()
	if err != nil || tag != 0x01 {
		t.Errorf("CodecTag() = (%d, %v), want (1, nil)", tag, err)
	}
}
