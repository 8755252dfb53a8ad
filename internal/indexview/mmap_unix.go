//go:build !windows

package indexview

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapPostings memory-maps the postings file read-only, so the OS page
// cache backs the postings region instead of Go's heap.
func mapPostings(path string) (data []byte, closer func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := fi.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return mapped, func() error { return unix.Munmap(mapped) }, nil
}
