// Package config holds the immutable, validated run configuration
// mirroring spec.md §6's option table, plus the compile-time bounds a
// loaded index is checked against at startup.
package config

import "github.com/jassgo/jass/internal/jasserr"

// Bounds are the compile-time limits a loaded index must respect.
// Exceeding any of them is fatal at startup (IndexTooLarge).
type Bounds struct {
	MaxDocuments     uint32
	MaxTopK          int
	MaxTermsPerQuery int
	MaxQuantum       int
}

// DefaultBounds mirrors indexview.DefaultBounds; kept as an independent
// constant here since config validation happens before any IndexView
// exists.
var DefaultBounds = Bounds{
	MaxDocuments:     1 << 28,
	MaxTopK:          10000,
	MaxTermsPerQuery: 1024,
	MaxQuantum:       1 << 20,
}

// Config is the validated, immutable set of run parameters, mirroring
// spec.md §6's option table exactly.
type Config struct {
	Threads               int
	TopK                  int
	PostingBudgetAbsolute uint64
	PostingBudgetRatioPct int
	AccumulatorWidthExp   uint
	RawParser             bool
}

// PostingBudget resolves the effective posting budget for an index of
// the given document count: the absolute budget overrides the ratio
// when it is nonzero, per spec.md §6.
func (c Config) PostingBudget(documents uint32) uint64 {
	if c.PostingBudgetAbsolute != 0 {
		return c.PostingBudgetAbsolute
	}
	if c.PostingBudgetRatioPct == 100 {
		return ^uint64(0)
	}
	return uint64(documents) * uint64(c.PostingBudgetRatioPct) / 100
}

// Validate checks c against bounds, returning an IndexTooLarge-classified
// error the caller should treat as fatal at startup.
func (c Config) Validate(bounds Bounds) error {
	if c.Threads < 1 {
		return jasserr.Wrapf(jasserr.IndexTooLarge, "threads must be >= 1, got %d", c.Threads)
	}
	if c.TopK < 1 || c.TopK > bounds.MaxTopK {
		return jasserr.Wrapf(jasserr.IndexTooLarge, "top_k %d out of range [1, %d]", c.TopK, bounds.MaxTopK)
	}
	if c.PostingBudgetRatioPct < 0 || c.PostingBudgetRatioPct > 100 {
		return jasserr.Wrapf(jasserr.IndexTooLarge, "posting_budget_ratio_pct %d out of range [0, 100]", c.PostingBudgetRatioPct)
	}
	return nil
}
