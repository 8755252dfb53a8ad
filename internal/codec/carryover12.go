package codec

import (
	"encoding/binary"

	"github.com/jassgo/jass/internal/jasserr"
)

// Carryover12 implements the transition-table selector coder: a stream of
// 32-bit little-endian words, each carrying a packed-integer payload under
// a row from a fixed 29-row transition table. A row's own bits-per-value
// and values-per-word settle how much of its word is payload; whatever
// room is left over (if any) holds the 2-bit selector naming the row that
// governs the *next* word. When a row's packing leaves no such room, the
// selector instead comes from the low two bits of the next word itself,
// and that word's remaining 30 bits are the payload.
//
// The first word is special: a 1-bit reserved flag, a 2-bit selector
// naming one of four starting rows, and a 29-bit initial payload.
//
// rows and initialRowForSelector are ported from JASSv2's
// compress_integer_carryover_12 transition_table[] and its fast_decode
// switch (original_source/source/compress_integer_carryover_12.cpp):
// the row widths, per-word counts and new_selector transitions below are
// that table's literal values, not a derived or invented formula. Row 12
// ("a32" with a one-bit width) is carried for table-shape fidelity but is
// unreachable — no row's transitions ever select it — so it is dead data
// here exactly as it is in the C++ source.
type Carryover12 struct{}

// row is one entry of the transition table: pack count values of bits
// width each into a word, then hand off to one of four next rows chosen
// by a 2-bit selector. embedded reports whether that selector lives in
// this row's own payload (true) or in the low bits of the following word
// (false).
type row struct {
	bits, count int
	embedded    bool
	next        [4]int
}

var rows = [29]row{
	/*0*/ {1, 30, false, [4]int{0, 1, 2, 11}},
	/*1*/ {2, 15, false, [4]int{0, 1, 2, 11}},
	/*2*/ {3, 10, false, [4]int{1, 2, 3, 11}},
	/*3*/ {4, 7, true, [4]int{14, 15, 16, 23}},
	/*4*/ {5, 6, false, [4]int{3, 4, 5, 11}},
	/*5*/ {6, 5, false, [4]int{4, 5, 6, 11}},
	/*6*/ {7, 4, true, [4]int{17, 18, 19, 23}},
	/*7*/ {9, 3, true, [4]int{18, 19, 20, 23}},
	/*8*/ {10, 3, false, [4]int{7, 8, 9, 11}},
	/*9*/ {14, 2, true, [4]int{20, 21, 22, 23}},
	/*10*/ {15, 2, false, [4]int{8, 9, 10, 11}},
	/*11*/ {28, 1, true, [4]int{17, 20, 22, 23}},

	/*12*/ {1, 32, false, [4]int{0, 1, 2, 11}}, // unreachable; see doc comment
	/*13*/ {2, 16, false, [4]int{0, 1, 2, 11}},
	/*14*/ {3, 10, true, [4]int{13, 14, 15, 23}},
	/*15*/ {4, 8, false, [4]int{2, 3, 4, 11}},
	/*16*/ {5, 6, true, [4]int{15, 16, 17, 23}},
	/*17*/ {6, 5, true, [4]int{16, 17, 18, 23}},
	/*18*/ {7, 4, true, [4]int{17, 18, 19, 23}},
	/*19*/ {8, 4, false, [4]int{6, 7, 8, 11}},
	/*20*/ {10, 3, true, [4]int{19, 20, 21, 23}},
	/*21*/ {15, 2, true, [4]int{20, 21, 22, 23}},
	/*22*/ {16, 2, false, [4]int{8, 9, 10, 11}},
	/*23*/ {28, 1, true, [4]int{17, 20, 22, 23}},

	// Starting-condition rows: rows 24-27 are the rows named by the
	// first word's 2-bit initial selector, each sized to fit a 29-bit
	// initial payload rather than a full 30- or 32-bit word; row 28 is
	// reached only from row 27.
	/*24*/ {4, 7, false, [4]int{14, 15, 16, 23}},
	/*25*/ {10, 2, true, [4]int{19, 20, 21, 23}},
	/*26*/ {16, 1, false, [4]int{8, 8, 10, 11}},
	/*27*/ {28, 1, false, [4]int{17, 20, 28, 23}},
	/*28*/ {16, 1, true, [4]int{8, 9, 10, 11}},
}

// initialRowForSelector maps the first word's 2-bit initial selector to
// one of the four starting rows.
var initialRowForSelector = [4]int{24, 25, 26, 27}

// Decode implements Decoder.
func (Carryover12) Decode(encoded []byte, n int, out []uint32) error {
	if n > len(out) {
		return jasserr.New(jasserr.MalformedCodecStream, "carryover12: n exceeds out capacity")
	}
	if n == 0 {
		return nil
	}
	if len(encoded) < 4 {
		return jasserr.New(jasserr.MalformedCodecStream, "carryover12: stream too short")
	}

	pos := 0
	readWord := func() (uint32, error) {
		if pos+4 > len(encoded) {
			return 0, jasserr.New(jasserr.MalformedCodecStream, "carryover12: read past end of stream")
		}
		w := binary.LittleEndian.Uint32(encoded[pos:])
		pos += 4
		return w, nil
	}

	first, err := readWord()
	if err != nil {
		return err
	}
	currentRow := initialRowForSelector[(first>>1)&0x3]
	payload := first >> 3

	emitted := 0
	for {
		r := rows[currentRow]
		for i := 0; i < r.count && emitted < n; i++ {
			mask := uint32(1)<<uint(r.bits) - 1
			out[emitted] = (payload >> uint(i*r.bits)) & mask
			emitted++
		}
		if emitted >= n {
			return nil
		}

		var selector int
		var nextPayload uint32
		if r.embedded {
			shift := uint(r.bits * r.count)
			selector = int((payload >> shift) & 0x3)
			w, err := readWord()
			if err != nil {
				return err
			}
			nextPayload = w
		} else {
			w, err := readWord()
			if err != nil {
				return err
			}
			selector = int(w & 0x3)
			nextPayload = w >> 2
		}

		currentRow = r.next[selector]
		payload = nextPayload
	}
}

// Encode packs xs into this codec's wire format by walking the same
// transition table Decode does, at each step choosing, among the current
// row's four reachable rows whose payload fits the room left in the next
// word (32 bits after an embedded selector, 30 otherwise), whichever
// packs the most of the remaining values. It is the structural inverse
// of Decode; the two need only agree with each other, not with JASSv2's
// own encoder, which instead searches for a bit-optimal block length.
func (Carryover12) Encode(xs []uint32) []byte {
	var words []uint32

	startSel, currentRow, consumed := bestStartingRow(xs)
	payload, _ := pack(rows[currentRow], xs[:consumed])
	words = append(words, (payload<<3)|(uint32(startSel)<<1))
	xs = xs[consumed:]
	payloadShift := uint(3) // bit position of the last word's payload

	for len(xs) > 0 {
		r := rows[currentRow]
		room := 30
		if r.embedded {
			room = 32
		}
		selector, nextRow, consumed := bestReachable(r.next, xs, room)
		payload, _ := pack(rows[nextRow], xs[:consumed])
		xs = xs[consumed:]

		if r.embedded {
			shift := uint(r.bits*r.count) + payloadShift
			words[len(words)-1] |= uint32(selector) << shift
			words = append(words, payload)
			payloadShift = 0
		} else {
			words = append(words, uint32(selector)|(payload<<2))
			payloadShift = 2
		}
		currentRow = nextRow
	}

	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

// pack packs values (len(values) <= r.count, each fitting r.bits)
// low-to-high into a single word-sized value.
func pack(r row, values []uint32) (uint32, error) {
	var payload uint32
	var shift uint
	for _, v := range values {
		if bitsNeeded(v) > r.bits {
			return 0, jasserr.Wrapf(jasserr.MalformedCodecStream, "value %d does not fit %d bits", v, r.bits)
		}
		payload |= v << shift
		shift += uint(r.bits)
	}
	return payload, nil
}

// fitCount returns how many leading values of xs row r can hold: up to
// r.count, and no more than values actually available.
func fitCount(r row, xs []uint32) int {
	n := r.count
	if n > len(xs) {
		n = len(xs)
	}
	for i := 0; i < n; i++ {
		if bitsNeeded(xs[i]) > r.bits {
			return i
		}
	}
	return n
}

// bestStartingRow picks, among the four starting rows, the one packing
// the most leading values of xs.
func bestStartingRow(xs []uint32) (selector, rowIdx, consumed int) {
	return bestOf(initialRowForSelector, xs, 29)
}

// bestReachable picks, among the four row indices in next, the one
// packing the most leading values of xs into a payload of room bits.
func bestReachable(next [4]int, xs []uint32, room int) (selector, rowIdx, consumed int) {
	return bestOf(next, xs, room)
}

// bestOf picks, among candidates, the one packing the most leading values
// of xs. It only accepts a candidate that either fills completely
// (consuming its full row.count) or exhausts xs — a candidate whose fit
// stops short because of a too-wide value, with values still left over
// after it, is never chosen: that would reserve a word's full payload
// slots for a row that only filled some of them, and Decode has no way
// to tell a deliberately short last row from one cut short mid-stream.
// A candidate whose values (plus its embedded selector, if any) need
// more than room payload bits is skipped altogether.
func bestOf(candidates [4]int, xs []uint32, room int) (selector, rowIdx, consumed int) {
	bestN, haveViable := -1, false
	fallbackN, fallbackRow, fallbackSel := -1, candidates[0], 0
	for s, idx := range candidates {
		need := rows[idx].bits * rows[idx].count
		if rows[idx].embedded {
			need += 2
		}
		if need > room {
			continue
		}
		n := fitCount(rows[idx], xs)
		if n > fallbackN {
			fallbackN, fallbackRow, fallbackSel = n, idx, s
		}
		viable := n == rows[idx].count || n == len(xs)
		if viable && (!haveViable || n > bestN) {
			bestN, rowIdx, selector, haveViable = n, idx, s, true
		}
	}
	if !haveViable {
		return fallbackSel, fallbackRow, maxInt(fallbackN, 0)
	}
	return selector, rowIdx, bestN
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func bitsNeeded(v uint32) int {
	b := 0
	for v > 0 {
		b++
		v >>= 1
	}
	if b == 0 {
		b = 1
	}
	return b
}
