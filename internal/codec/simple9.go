package codec

import (
	"encoding/binary"

	"github.com/jassgo/jass/internal/jasserr"
)

// Simple9 packs as many fixed-width integers as fit into a 32-bit word:
// a 4-bit selector names one of nine (width, count) layouts, followed by
// count values of width bits each, low-to-high.
type Simple9 struct{}

type simple9Layout struct {
	bits, count int
}

var simple9Layouts = [9]simple9Layout{
	{bits: 1, count: 28},
	{bits: 2, count: 14},
	{bits: 3, count: 9},
	{bits: 4, count: 7},
	{bits: 5, count: 5},
	{bits: 7, count: 4},
	{bits: 9, count: 3},
	{bits: 14, count: 2},
	{bits: 28, count: 1},
}

func (Simple9) Decode(encoded []byte, n int, out []uint32) error {
	if n > len(out) {
		return jasserr.New(jasserr.MalformedCodecStream, "simple9: n exceeds out capacity")
	}
	pos := 0
	emitted := 0
	for emitted < n {
		if pos+4 > len(encoded) {
			return jasserr.New(jasserr.MalformedCodecStream, "simple9: read past end of stream")
		}
		word := binary.LittleEndian.Uint32(encoded[pos:])
		pos += 4
		selector := int(word >> 28)
		if selector >= len(simple9Layouts) {
			return jasserr.New(jasserr.MalformedCodecStream, "simple9: invalid selector")
		}
		layout := simple9Layouts[selector]
		payload := word & ((1 << 28) - 1)
		mask := uint32(1)<<uint(layout.bits) - 1
		for i := 0; i < layout.count && emitted < n; i++ {
			out[emitted] = payload & mask
			payload >>= uint(layout.bits)
			emitted++
		}
	}
	return nil
}

func (Simple9) Encode(xs []uint32) []byte {
	var out []byte
	for len(xs) > 0 {
		selector, count := bestSimple9Layout(xs)
		layout := simple9Layouts[selector]
		var payload uint32
		var shift uint
		for i := 0; i < count; i++ {
			payload |= xs[i] << shift
			shift += uint(layout.bits)
		}
		xs = xs[count:]
		word := uint32(selector)<<28 | payload
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, word)
		out = append(out, buf...)
	}
	return out
}

func bestSimple9Layout(xs []uint32) (selector, count int) {
	best, bestN := 0, 0
	for i, l := range simple9Layouts {
		n := l.count
		if n > len(xs) {
			n = len(xs)
		}
		for n > 0 && bitsNeeded(maxOf(xs[:n])) > l.bits {
			n--
		}
		// Decode reads a full layout.count values from every word but
		// the last, so a short word is only usable at the end of xs.
		if n < l.count && n < len(xs) {
			continue
		}
		if n > bestN {
			bestN, best = n, i
		}
	}
	if bestN == 0 {
		bestN = 1 // force progress; caller guarantees values fit within 28 bits
	}
	return best, bestN
}

func maxOf(xs []uint32) uint32 {
	var m uint32
	for _, v := range xs {
		if v > m {
			m = v
		}
	}
	return m
}
