package hunt

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/jobs"
	"github.com/spigell/visa-hunter/internal/ranking"
	"github.com/spigell/visa-hunter/internal/scoring"
	"github.com/spigell/visa-hunter/internal/utils"
)

// DefaultDelay is the pause between two provider queries.
const DefaultDelay = time.Second

// Searcher returns the postings found for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]jobs.Posting, error)
}

// Options configures a search run.
type Options struct {
	// Skills are the candidate skills used for scoring.
	Skills []string
	// Preferences are scored independently and the best score is kept.
	Preferences []scoring.Preference
	// Delay between queries. Negative disables waiting.
	Delay time.Duration
	// Now is the reference time for recency. Defaults to time.Now.
	Now    time.Time
	Logger *zap.Logger
}

// Stats summarizes a run.
type Stats struct {
	ranking.Stats

	Queries int
	Failed  int
}

// Result is the outcome of a run: ranked postings and counters.
type Result struct {
	Postings []*ranking.Scored
	Stats    Stats
}

// Run issues the queries one by one, feeding every posting into a fresh aggregator.
// A failing query is logged and counted as returning nothing. Run only fails when ctx is done.
func Run(ctx context.Context, searcher Searcher, queries []string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	delay := opts.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	agg := ranking.NewAggregator(opts.Skills, opts.Preferences, now)
	stats := Stats{}

	for i, query := range queries {
		if i > 0 {
			if err := utils.WaitFor(ctx, delay); err != nil {
				return nil, fmt.Errorf("waiting before query %q: %w", query, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stats.Queries++
		logger.Info("searching", zap.String("query", query), zap.Int("number", i+1), zap.Int("total", len(queries)))

		postings, err := searcher.Search(ctx, query)
		if err != nil {
			stats.Failed++
			logger.Warn("search failed, skipping query", zap.String("query", query), zap.Error(err))
			continue
		}

		kept := 0
		for j := range postings {
			if agg.Add(query, &postings[j]) {
				kept++
			}
		}

		logger.Debug("query processed",
			zap.String("query", query),
			zap.Int("found", len(postings)),
			zap.Int("kept", kept),
		)
	}

	stats.Stats = agg.Stats()

	logger.Info("search finished",
		zap.Int("queries", stats.Queries),
		zap.Int("failed", stats.Failed),
		zap.Int("raw", stats.Raw),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("irrelevant", stats.Irrelevant),
		zap.Int("kept", stats.Kept),
	)

	return &Result{
		Postings: agg.Ranked(),
		Stats:    stats,
	}, nil
}
