package bitio

import "testing"

func TestWriteReadBits(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0b101, 3)
	w.WriteBits(0b11110000, 8)
	w.WriteUnary(4)
	data := w.Bytes()

	r := NewReader(data)
	if got := r.ReadBits(3); got != 0b101 {
		t.Errorf("ReadBits(3) = %b, want 101", got)
	}
	if got := r.ReadBits(8); got != 0b11110000 {
		t.Errorf("ReadBits(8) = %b, want 11110000", got)
	}
	if got := r.ReadUnary(); got != 4 {
		t.Errorf("ReadUnary() = %d, want 4", got)
	}
}

func TestUnaryRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 31, 100} {
		w := NewWriter()
		w.WriteUnary(n)
		r := NewReader(w.Bytes())
		if got := r.ReadUnary(); got != n {
			t.Errorf("unary round trip %d: got %d", n, got)
		}
	}
}
