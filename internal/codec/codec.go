// Package codec implements the postings integer decoders named by the
// one-byte codec tag at the start of an index's postings region, and the
// registry that dispatches on that tag.
//
// Every decoder honours the same contract: decode(encoded, n, out) emits
// exactly n raw integers read from encoded, never reading past its end.
// Document-id reconstruction from a codec's "D-ness" (how many leading
// ids are absolute vs. delta-coded) is applied uniformly by ApplyDNess
// rather than duplicated inside each codec.
package codec

import (
	"github.com/jassgo/jass/internal/jasserr"
)

// Tag identifies a codec family on disk.
type Tag byte

const (
	TagCarryover12 Tag = 1
	TagEliasGamma  Tag = 2
	TagEliasDelta  Tag = 3
	TagSimple9     Tag = 4
)

// Decoder turns an encoded byte range into exactly n unsigned integers.
type Decoder interface {
	Decode(encoded []byte, n int, out []uint32) error
}

// Entry is what the registry returns for a tag: a decoder and its
// D-ness (number of leading absolute ids before delta coding begins).
type Entry struct {
	Decoder Decoder
	DNess   int
}

var registry = map[Tag]Entry{
	TagCarryover12: {Decoder: Carryover12{}, DNess: 1},
	TagEliasGamma:  {Decoder: EliasGamma{}, DNess: 0},
	TagEliasDelta:  {Decoder: EliasDelta{}, DNess: 0},
	TagSimple9:     {Decoder: Simple9{}, DNess: 0},
}

// Lookup dispatches on tag. An unrecognised tag is a MalformedIndex
// error (the set of tags is closed and stable on disk); it surfaces when
// scheduler.Execute looks up the index's tag while running a query.
func Lookup(tag byte) (Entry, error) {
	e, ok := registry[Tag(tag)]
	if !ok {
		return Entry{}, jasserr.Wrapf(jasserr.MalformedIndex, "unsupported codec tag %d", tag)
	}
	return e, nil
}

// ApplyDNess reconstructs document ids in place: the first dness values
// in vals are left untouched (already absolute), and every subsequent
// value is replaced by a running sum on top of the last absolute/
// reconstructed value.
func ApplyDNess(dness int, vals []uint32) {
	if dness >= len(vals) {
		return
	}
	var running uint32
	if dness > 0 {
		running = vals[dness-1]
	}
	for i := dness; i < len(vals); i++ {
		running += vals[i]
		vals[i] = running
	}
}
