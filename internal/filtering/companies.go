package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/ranking"
)

type companiesFilter struct {
	companies map[string]struct{}
	names     []string
	disabled  bool
	reason    string
}

// NewExcludedCompanies creates a filter that removes postings of the given companies.
// Names are compared case-insensitively.
func NewExcludedCompanies(companies []string) Filter {
	f := &companiesFilter{companies: make(map[string]struct{}, len(companies))}
	for _, c := range companies {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			continue
		}
		if _, ok := f.companies[key]; ok {
			continue
		}
		f.companies[key] = struct{}{}
		f.names = append(f.names, key)
	}
	return f
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *companiesFilter) IsEnabled() bool { return !f.disabled }

func (f *companiesFilter) Validate() error { return nil }

func (f *companiesFilter) Apply(_ context.Context, logger *zap.Logger, items []*ranking.Scored) ([]*ranking.Scored, Step, error) {
	initial := len(items)
	if len(f.companies) == 0 {
		return items, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept, dropped := keep(items, func(s *ranking.Scored) bool {
		_, excluded := f.companies[strings.ToLower(strings.TrimSpace(s.Company))]
		return !excluded
	})

	if len(dropped) > 0 {
		logger.Info("excluding postings by companies",
			zap.Strings("excluded_companies", f.names),
			zap.Strings("excluded_postings", titles(dropped)),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["companies"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
