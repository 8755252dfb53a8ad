// Command jassrun runs a batch of impact-ordered top-k queries against
// a precomputed inverted index and writes a TREC run file plus a
// per-query stats report.
//
// Usage:
//
//	jassrun -index-keys K -index-vocab V -index-terms T -index-postings P \
//	        -queries Q -run run.trec -stats stats.xml [options]
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/jassgo/jass/internal/accumulator"
	"github.com/jassgo/jass/internal/config"
	"github.com/jassgo/jass/internal/indexview"
	"github.com/jassgo/jass/internal/jasserr"
	"github.com/jassgo/jass/internal/logging"
	"github.com/jassgo/jass/internal/query"
	"github.com/jassgo/jass/internal/queryfile"
	"github.com/jassgo/jass/internal/scheduler"
	"github.com/jassgo/jass/internal/trecrun"
	"github.com/jassgo/jass/internal/worker"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		kind := jasserr.KindOf(err)
		log.Error().Err(err).Str("kind", kind.String()).Msg("jassrun failed")
		os.Exit(kind.ExitCode())
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("jassrun", flag.ContinueOnError)
	keysPath := fs.String("index-keys", "", "path to the primary keys file")
	vocabPath := fs.String("index-vocab", "", "path to the vocabulary triples file")
	termsPath := fs.String("index-terms", "", "path to the term strings file")
	postingsPath := fs.String("index-postings", "", "path to the postings file")
	queriesPath := fs.String("queries", "", "path to the query batch file")
	runPath := fs.String("run", "", "output TREC run file")
	statsPath := fs.String("stats", "", "output per-query stats file")
	runName := fs.String("run-name", "jassgo", "run tag written to the TREC run file")

	threads := fs.Int("threads", 1, "number of worker threads")
	topK := fs.Int("top-k", 10, "number of results per query")
	budgetAbsolute := fs.Uint64("posting-budget-absolute", 0, "hard posting budget; overrides the ratio if nonzero")
	budgetRatioPct := fs.Int("posting-budget-ratio-pct", 100, "posting budget as a percentage of the document count")
	widthExp := fs.Uint("accumulator-width-exp", 8, "log2 of the accumulator block count")
	rawParser := fs.Bool("raw-parser", false, "treat query text as pre-tokenised, whitespace-separated terms")
	useBlockMax := fs.Bool("block-max", false, "use the block-max accumulator instead of the bucketed one")
	logLevel := fs.String("log-level", "info", "zerolog level")
	interactive := fs.Bool("interactive", true, "use a human-readable console log writer")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logging.Init(*interactive, *logLevel)

	if *keysPath == "" || *vocabPath == "" || *termsPath == "" || *postingsPath == "" || *queriesPath == "" {
		return jasserr.New(jasserr.IoError, "index-keys, index-vocab, index-terms, index-postings, and queries are all required")
	}

	cfg := config.Config{
		Threads:               *threads,
		TopK:                  *topK,
		PostingBudgetAbsolute: *budgetAbsolute,
		PostingBudgetRatioPct: *budgetRatioPct,
		AccumulatorWidthExp:   *widthExp,
		RawParser:             *rawParser,
	}
	if err := cfg.Validate(config.DefaultBounds); err != nil {
		return err
	}

	view, err := indexview.Open(*keysPath, *vocabPath, *termsPath, *postingsPath, indexview.DefaultBounds)
	if err != nil {
		return err
	}
	defer view.Close()

	entries, err := queryfile.DetectAndOpen(*queriesPath)
	if err != nil {
		return err
	}

	const width = accumulator.Width32
	newAcc := func() accumulator.Accumulator {
		if *useBlockMax {
			return accumulator.NewBlockMax(view.Documents(), cfg.AccumulatorWidthExp, true)
		}
		return accumulator.NewBucketed(view.Documents(), cfg.AccumulatorWidthExp, width)
	}

	queries := make([]worker.Query, len(entries))
	textByID := make(map[string]string, len(entries))
	for i, e := range entries {
		queries[i] = worker.Query{ID: e.ID, Text: e.Text}
		textByID[e.ID] = e.Text
	}

	pool := worker.New(view, queries, worker.Config{
		NumWorkers:       cfg.Threads,
		TopK:             cfg.TopK,
		PostingsBudget:   cfg.PostingBudget(view.Documents()),
		NewAccumulator:   newAcc,
		Tokenize:         func(text string) []scheduler.Term { return query.Parse(text, cfg.RawParser) },
		MaxTermsPerQuery: indexview.DefaultBounds.MaxTermsPerQuery,
		MaxQuantum:       indexview.DefaultBounds.MaxQuantum,
		AccumulatorMax:   accumulator.MaxForWidth(width),
	})

	results := pool.Run()
	return writeOutputs(view, results, textByID, *runPath, *statsPath, *runName)
}

func writeOutputs(view *indexview.IndexView, results []worker.Result, textByID map[string]string, runPath, statsPath, runName string) error {
	runFile, err := os.Create(runPath)
	if err != nil {
		return jasserr.Wrap(jasserr.IoError, err)
	}
	defer runFile.Close()

	statsFile, err := os.Create(statsPath)
	if err != nil {
		return jasserr.Wrap(jasserr.IoError, err)
	}
	defer statsFile.Close()

	stats := make([]trecrun.QueryStats, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			log.Warn().Str("query_id", r.QueryID).Err(r.Err).Msg("query failed; recording empty result")
		}
		if err := trecrun.WriteTREC(runFile, r.QueryID, r.Top, view.PrimaryKey, runName); err != nil {
			return err
		}
		stats = append(stats, trecrun.QueryStats{
			ID:                r.QueryID,
			Query:             textByID[r.QueryID],
			PostingsProcessed: r.PostingsProcessed,
		})
	}
	return trecrun.WriteStats(statsFile, stats)
}
