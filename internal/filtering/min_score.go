package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/ranking"
)

type minScoreFilter struct {
	min      int
	disabled bool
	reason   string
}

// NewMinScore creates a filter that drops postings scoring below threshold.
func NewMinScore(threshold int) Filter {
	f := &minScoreFilter{min: threshold}
	if threshold <= 0 {
		f.Disable("no minimum score configured")
	}
	return f
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minScoreFilter) Validate() error { return nil }

func (f *minScoreFilter) Apply(_ context.Context, logger *zap.Logger, items []*ranking.Scored) ([]*ranking.Scored, Step, error) {
	initial := len(items)

	kept, dropped := keep(items, func(s *ranking.Scored) bool {
		return s.Score >= f.min
	})

	if len(dropped) > 0 {
		logger.Debug("excluding postings below minimum score",
			zap.Int("min_score", f.min),
			zap.Strings("excluded_postings", titles(dropped)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_score": strconv.Itoa(f.min)},
	}
}
