package codec

import "testing"

func TestSimple9RoundTrip(t *testing.T) {
	cases := [][]uint32{
		{},
		{0, 1, 2, 3},
		make32Sequential(100),
		{1<<28 - 1, 0, 1, 2},
	}
	for i, xs := range cases {
		enc := Simple9{}.Encode(xs)
		out := make([]uint32, len(xs))
		if err := (Simple9{}.Decode(enc, len(xs), out)); err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if !equalSlices(out, xs) {
			t.Errorf("case %d: got %v, want %v", i, out, xs)
		}
	}
}
