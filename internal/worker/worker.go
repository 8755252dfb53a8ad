// Package worker runs a fixed-size pool of goroutines over an immutable
// query list, each claiming its next query via a single shared atomic
// counter — the pool's only mutable shared state — and scoring it with
// entirely private scratch state (decode buffer, schedule buffer,
// accumulator, top-k buffer).
//
// Grounded on the teacher's parallel row encoder
// (internal/lossy/encode_parallel.go): the same nextRow atomic.Int32 +
// sync.WaitGroup + per-goroutine scratch-struct shape, simplified here
// since queries are independent and need no cross-item synchronization.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/jassgo/jass/internal/accumulator"
	"github.com/jassgo/jass/internal/indexview"
	"github.com/jassgo/jass/internal/scheduler"
)

// Query is one query to service.
type Query struct {
	ID   string
	Text string
}

// Result is the outcome of servicing one query.
type Result struct {
	QueryID           string
	Top               []accumulator.Result
	PostingsProcessed uint64
	Err               error
}

// AccumulatorFactory builds a fresh, private accumulator for one worker.
type AccumulatorFactory func() accumulator.Accumulator

// Tokenizer turns query text into the schedule's term multiset.
type Tokenizer func(text string) []scheduler.Term

// Pool runs queries across numWorkers goroutines.
type Pool struct {
	view             *indexview.IndexView
	queries          []Query
	nextQuery        atomic.Int32
	numWorkers       int
	topK             int
	postingsBudget   uint64
	newAccumulator   AccumulatorFactory
	tokenize         Tokenizer
	maxTermsPerQuery int
	maxQuantum       int
	accumulatorMax   uint32
}

// Config collects the parameters a Pool needs beyond the query list.
type Config struct {
	NumWorkers       int
	TopK             int
	PostingsBudget   uint64
	NewAccumulator   AccumulatorFactory
	Tokenize         Tokenizer
	MaxTermsPerQuery int
	MaxQuantum       int
	AccumulatorMax   uint32
}

// New constructs a Pool ready to Run over queries.
func New(view *indexview.IndexView, queries []Query, cfg Config) *Pool {
	n := cfg.NumWorkers
	if n < 1 {
		n = 1
	}
	return &Pool{
		view:             view,
		queries:          queries,
		numWorkers:       n,
		topK:             cfg.TopK,
		postingsBudget:   cfg.PostingsBudget,
		newAccumulator:   cfg.NewAccumulator,
		tokenize:         cfg.Tokenize,
		maxTermsPerQuery: cfg.MaxTermsPerQuery,
		maxQuantum:       cfg.MaxQuantum,
		accumulatorMax:   cfg.AccumulatorMax,
	}
}

// initialScheduleCapacity is the starting capacity of a worker's schedule
// buffer. scheduler.Build appends onto this slice and lets it grow as far
// as a query's term/quantum count requires; the buffer's length is not
// checked against MaxTermsPerQuery*MaxQuantum.
const initialScheduleCapacity = 256

// worker holds state private to one goroutine: everything it touches is
// never shared, so no worker ever locks against another.
type worker struct {
	acc           accumulator.Accumulator
	scheduleBuf   []scheduler.Entry
	decodeScratch []uint32
	results       []Result
}

// Run dispatches all queries across the pool's goroutines and returns
// every result, ordered by worker and by that worker's dispatch order
// (not overall query order — per spec.md §5, cross-worker completion
// order is not guaranteed).
func (p *Pool) Run() []Result {
	p.nextQuery.Store(0)
	var wg sync.WaitGroup
	allResults := make([][]Result, p.numWorkers)

	for wi := 0; wi < p.numWorkers; wi++ {
		wg.Add(1)
		go func(wi int) {
			defer wg.Done()
			w := &worker{
				acc:         p.newAccumulator(),
				scheduleBuf: make([]scheduler.Entry, 0, initialScheduleCapacity),
			}
			for {
				i := int(p.nextQuery.Add(1) - 1)
				if i >= len(p.queries) {
					break
				}
				q := p.queries[i]
				w.results = append(w.results, p.process(w, q))
			}
			allResults[wi] = w.results
		}(wi)
	}
	wg.Wait()

	out := make([]Result, 0, len(p.queries))
	for _, rs := range allResults {
		out = append(out, rs...)
	}
	return out
}

func (p *Pool) process(w *worker, q Query) Result {
	terms := p.tokenize(q.Text)
	entries, bounds, err := scheduler.Build(p.view, terms, w.scheduleBuf[:0])
	if err != nil {
		return Result{QueryID: q.ID, Err: err}
	}
	w.scheduleBuf = entries[:0]

	if err := scheduler.CheckWidth(bounds, p.accumulatorMax); err != nil {
		return Result{QueryID: q.ID, Err: err}
	}

	var top uint32
	if len(entries) > 0 {
		top = entries[0].EffectiveImpact
	}
	w.acc.Reset(p.view.Documents(), bounds.Smallest, top, bounds.Largest, p.topK)

	processed, err := scheduler.Execute(p.view, entries, p.postingsBudget, w.acc, w.decodeScratch)
	if err != nil {
		return Result{QueryID: q.ID, Err: err, PostingsProcessed: processed}
	}
	return Result{
		QueryID:           q.ID,
		Top:               w.acc.Finalize(p.topK),
		PostingsProcessed: processed,
	}
}
