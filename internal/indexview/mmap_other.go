//go:build windows

package indexview

import "os"

// mapPostings falls back to a full read on platforms without a unix-style
// mmap syscall, mirroring JASSv2's own #ifdef _MSC_VER fallback.
func mapPostings(path string) (data []byte, closer func() error, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return b, func() error { return nil }, nil
}
