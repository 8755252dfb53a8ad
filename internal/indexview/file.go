package indexview

import "os"

// readFile loads a small index file (primary keys, vocabulary) fully
// into memory; only the postings region is large enough to warrant
// memory-mapping.
func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
