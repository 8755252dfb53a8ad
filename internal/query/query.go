// Package query tokenizes query text into the term multiset the
// scheduler consumes, coalescing repeated terms into a single entry
// with a repetition count.
package query

import (
	"strings"
	"unicode"

	"github.com/jassgo/jass/internal/scheduler"
)

// Parse tokenizes text into a deduplicated, repetition-counted term
// list. When raw is true, tokenization is a plain whitespace split
// with casefolding only (JASSv2's "raw" parser); otherwise each token
// also has leading/trailing ASCII punctuation stripped, matching the
// richer default parser.
func Parse(text string, raw bool) []scheduler.Term {
	var fields []string
	if raw {
		fields = strings.Fields(text)
	} else {
		fields = strings.FieldsFunc(text, func(r rune) bool {
			return unicode.IsSpace(r)
		})
		for i, f := range fields {
			fields[i] = trimPunctuation(f)
		}
	}

	counts := make(map[string]uint32, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(f)
		if f == "" {
			continue
		}
		if counts[f] == 0 {
			order = append(order, f)
		}
		counts[f]++
	}

	terms := make([]scheduler.Term, 0, len(order))
	for _, text := range order {
		terms = append(terms, scheduler.Term{Text: text, Repetition: counts[text]})
	}
	return terms
}

func trimPunctuation(s string) string {
	isPunct := func(r rune) bool {
		return r < 0x80 && (unicode.IsPunct(r) || unicode.IsSymbol(r))
	}
	start := 0
	for start < len(s) && isPunct(rune(s[start])) {
		start++
	}
	end := len(s)
	for end > start && isPunct(rune(s[end-1])) {
		end--
	}
	return s[start:end]
}
