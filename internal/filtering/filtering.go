package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/ranking"
)

// Filter represents a single filtering step applied to ranked postings.
// Steps must keep the order of the postings they leave.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, logger *zap.Logger, items []*ranking.Scored) ([]*ranking.Scored, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates and then executes the enabled filters sequentially.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, items []*ranking.Scored) ([]*ranking.Scored, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, logger, items)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		items = next
	}

	return items, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the items accepted by fn, preserving order, and the dropped ones.
func keep(items []*ranking.Scored, fn func(*ranking.Scored) bool) ([]*ranking.Scored, []*ranking.Scored) {
	kept := make([]*ranking.Scored, 0, len(items))
	var dropped []*ranking.Scored
	for _, item := range items {
		if fn(item) {
			kept = append(kept, item)
			continue
		}
		dropped = append(dropped, item)
	}
	return kept, dropped
}

func titles(items []*ranking.Scored) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprintf("%s / %s", item.Title, item.Company))
	}
	return out
}
