// Package queryfile reads batches of (query_id, query_text) pairs from
// either of two on-disk formats, auto-detected by the first byte of the
// file: a JASS line-topic file (one id-prefixed query per line) when it
// starts with an ASCII digit, otherwise a TREC topic file.
//
// Grounded on JASS_anytime.cpp's make_input_channel(): the same
// ::isdigit(file[0]) dispatch, and the same inline query-ID split on
// the first run of " \t:" characters for the line format.
package queryfile

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jassgo/jass/internal/jasserr"
)

// Entry is one query read from a query file.
type Entry struct {
	ID   string
	Text string
}

// DetectAndOpen reads the file at path and parses it as whichever of
// the two formats its first byte indicates.
func DetectAndOpen(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, jasserr.Wrap(jasserr.IoError, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if isASCIIDigit(raw[0]) {
		return parseLineFormat(raw)
	}
	return parseTRECTopics(raw)
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// parseLineFormat splits each line on the first run of " \t:" into
// (query_id, query_text), exactly as JASS_anytime.cpp's main loop does
// before handing the remainder to the query parser, and strips trailing
// whitespace from the query text.
func parseLineFormat(raw []byte) ([]Entry, error) {
	const seps = " \t:"
	var entries []Entry
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		idEnd := strings.IndexAny(line, seps)
		if idEnd < 0 {
			entries = append(entries, Entry{ID: "", Text: line})
			continue
		}
		id := line[:idEnd]
		rest := strings.TrimSpace(strings.TrimLeft(line[idEnd:], seps))
		entries = append(entries, Entry{ID: id, Text: rest})
	}
	if err := scanner.Err(); err != nil {
		return nil, jasserr.Wrap(jasserr.IoError, err)
	}
	return entries, nil
}

var (
	trecNumTag   = regexp.MustCompile(`(?is)<num>\s*(?:Number:)?\s*(.*?)\s*</num>`)
	trecTitleTag = regexp.MustCompile(`(?is)<title>\s*(.*?)\s*</title>`)
	trecTopTag   = regexp.MustCompile(`(?is)<top>(.*?)</top>`)
)

// parseTRECTopics extracts the num/title pair out of every <top>...</top>
// block of a standard TREC topic file. This stands in for JASSv2's
// channel_trec collaborator (tag pair "tq"): spec.md only requires that
// some reader yield the (query_id, query_text) stream, not that TREC
// parsing live in an external helper.
func parseTRECTopics(raw []byte) ([]Entry, error) {
	var entries []Entry
	for _, block := range trecTopTag.FindAllSubmatch(raw, -1) {
		body := block[1]
		num := firstSubmatch(trecNumTag, body)
		title := firstSubmatch(trecTitleTag, body)
		if num == "" && title == "" {
			continue
		}
		entries = append(entries, Entry{ID: num, Text: title})
	}
	return entries, nil
}

func firstSubmatch(re *regexp.Regexp, body []byte) string {
	m := re.FindSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(string(m[1]))
}

// WriteLineFormat is the inverse of parseLineFormat, used by tests and
// by tools that materialise a synthetic query batch to disk.
func WriteLineFormat(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.ID + " " + e.Text + "\n"); err != nil {
			return jasserr.Wrap(jasserr.IoError, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return jasserr.Wrap(jasserr.IoError, err)
	}
	return nil
}
