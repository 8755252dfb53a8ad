// Package region provides bounds-checked, zero-copy reads over a flat
// []byte, the shape every index region (primary keys, vocabulary,
// postings) is loaded into.
package region

import (
	"encoding/binary"

	"github.com/jassgo/jass/internal/jasserr"
)

// Bytes is a read-only view over an index region.
type Bytes []byte

// Uint16LE reads a little-endian uint16 at off.
func (b Bytes) Uint16LE(off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, jasserr.Wrapf(jasserr.MalformedIndex, "uint16 read at %d out of range (len %d)", off, len(b))
	}
	return binary.LittleEndian.Uint16(b[off : off+2]), nil
}

// Uint32LE reads a little-endian uint32 at off.
func (b Bytes) Uint32LE(off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, jasserr.Wrapf(jasserr.MalformedIndex, "uint32 read at %d out of range (len %d)", off, len(b))
	}
	return binary.LittleEndian.Uint32(b[off : off+4]), nil
}

// Uint64LE reads a little-endian uint64 at off.
func (b Bytes) Uint64LE(off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, jasserr.Wrapf(jasserr.MalformedIndex, "uint64 read at %d out of range (len %d)", off, len(b))
	}
	return binary.LittleEndian.Uint64(b[off : off+8]), nil
}

// Slice returns b[off:end], bounds-checked.
func (b Bytes) Slice(off, end int) (Bytes, error) {
	if off < 0 || end > len(b) || off > end {
		return nil, jasserr.Wrapf(jasserr.MalformedIndex, "slice [%d:%d] out of range (len %d)", off, end, len(b))
	}
	return b[off:end], nil
}

// CString returns the NUL-terminated string starting at off, not
// including the terminator, and the offset immediately after the
// terminator.
func (b Bytes) CString(off int) (string, int, error) {
	if off < 0 || off >= len(b) {
		return "", 0, jasserr.Wrapf(jasserr.MalformedIndex, "cstring read at %d out of range (len %d)", off, len(b))
	}
	i := off
	for i < len(b) && b[i] != 0 {
		i++
	}
	if i >= len(b) {
		return "", 0, jasserr.Wrapf(jasserr.MalformedIndex, "unterminated string at %d", off)
	}
	return string(b[off:i]), i + 1, nil
}
