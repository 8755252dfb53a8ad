// Package trecrun writes query results in the standard TREC run format
// and a supplemental per-query XML-ish stats report.
//
// Grounded on JASSv2's run_export(): the same "query_id iter primary_key
// rank score run_name" column layout, iter fixed at "Q0".
package trecrun

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jassgo/jass/internal/accumulator"
	"github.com/jassgo/jass/internal/jasserr"
)

// WriteTREC writes one TREC run line per result in top, ranked from 1.
func WriteTREC(w io.Writer, queryID string, top []accumulator.Result, primaryKey func(doc uint32) (string, error), runName string) error {
	bw := bufio.NewWriter(w)
	for rank, r := range top {
		key, err := primaryKey(r.DocID)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s Q0 %s %d %d %s\n", queryID, key, rank+1, r.Score, runName); err != nil {
			return jasserr.Wrap(jasserr.IoError, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return jasserr.Wrap(jasserr.IoError, err)
	}
	return nil
}

// QueryStats is one query's execution summary, as reported in the
// stats file.
type QueryStats struct {
	ID                string
	Query             string
	PostingsProcessed uint64
	TimeNanos         int64
}

// WriteStats writes the XML-ish <id>/<query>/<postings>/<time_ns> report
// JASSv2's anytime binary emits alongside its TREC run file.
func WriteStats(w io.Writer, stats []QueryStats) error {
	bw := bufio.NewWriter(w)
	for _, s := range stats {
		if _, err := fmt.Fprintf(bw, "<id>%s</id><query>%s</query><postings>%d</postings><time_ns>%d</time_ns>\n",
			s.ID, s.Query, s.PostingsProcessed, s.TimeNanos); err != nil {
			return jasserr.Wrap(jasserr.IoError, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return jasserr.Wrap(jasserr.IoError, err)
	}
	return nil
}
