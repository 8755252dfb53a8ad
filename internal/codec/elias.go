package codec

import (
	"github.com/jassgo/jass/internal/bitio"
	"github.com/jassgo/jass/internal/jasserr"
)

// EliasGamma codes each value+1 (so zero is representable) as a unary
// length prefix followed by that many binary digits, in the bit order
// of bitio.Writer.WriteBits:
// Elias gamma of v encodes bitLen(v+1)-1 zero bits, a one bit, then the
// low bitLen(v+1)-1 bits of v+1.
type EliasGamma struct{}

func (EliasGamma) Decode(encoded []byte, n int, out []uint32) error {
	if n > len(out) {
		return jasserr.New(jasserr.MalformedCodecStream, "eliasgamma: n exceeds out capacity")
	}
	r := bitio.NewReader(encoded)
	for i := 0; i < n; i++ {
		extra := r.ReadUnary()
		if r.IsEndOfStream() {
			return jasserr.New(jasserr.MalformedCodecStream, "eliasgamma: truncated stream")
		}
		v := uint32(1)
		if extra > 0 {
			v = (1 << uint(extra)) | r.ReadBitsWide(extra)
		}
		if r.IsEndOfStream() {
			return jasserr.New(jasserr.MalformedCodecStream, "eliasgamma: truncated stream")
		}
		out[i] = v - 1
	}
	return nil
}

// Encode is the structural inverse of Decode.
func (EliasGamma) Encode(xs []uint32) []byte {
	w := bitio.NewWriter()
	for _, v := range xs {
		n := v + 1
		bits := bitLen(n)
		w.WriteUnary(bits - 1)
		if bits > 1 {
			w.WriteBits(n&((1<<uint(bits-1))-1), bits-1)
		}
	}
	return w.Bytes()
}

// EliasDelta codes the same length prefix as gamma, but the length
// itself is gamma-coded rather than unary-coded, giving a shorter code
// for large values at the cost of a longer one for small values.
type EliasDelta struct{}

func (EliasDelta) Decode(encoded []byte, n int, out []uint32) error {
	if n > len(out) {
		return jasserr.New(jasserr.MalformedCodecStream, "eliasdelta: n exceeds out capacity")
	}
	r := bitio.NewReader(encoded)
	for i := 0; i < n; i++ {
		lenExtra := r.ReadUnary()
		if r.IsEndOfStream() {
			return jasserr.New(jasserr.MalformedCodecStream, "eliasdelta: truncated stream")
		}
		length := uint32(1)
		if lenExtra > 0 {
			length = (1 << uint(lenExtra)) | r.ReadBitsWide(lenExtra)
		}
		bits := int(length) - 1
		v := uint32(1)
		if bits > 0 {
			v = (1 << uint(bits)) | r.ReadBitsWide(bits)
		}
		if r.IsEndOfStream() {
			return jasserr.New(jasserr.MalformedCodecStream, "eliasdelta: truncated stream")
		}
		out[i] = v - 1
	}
	return nil
}

func (EliasDelta) Encode(xs []uint32) []byte {
	w := bitio.NewWriter()
	for _, v := range xs {
		n := v + 1
		bits := bitLen(n)
		length := uint32(bits)
		lenBits := bitLen(length)
		w.WriteUnary(lenBits - 1)
		if lenBits > 1 {
			w.WriteBits(length&((1<<uint(lenBits-1))-1), lenBits-1)
		}
		if bits > 1 {
			w.WriteBits(n&((1<<uint(bits-1))-1), bits-1)
		}
	}
	return w.Bytes()
}

func bitLen(v uint32) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}
