package query

import (
	"strings"

	"github.com/spigell/visa-hunter/internal/scoring"
)

const (
	// DefaultMaxQueries bounds the number of provider calls per run.
	DefaultMaxQueries = 50
	// DefaultMaxSkills is the number of leading skills crossed with base phrases.
	DefaultMaxSkills = 5
)

// BasePhrases are combined with the job title and skills.
var BasePhrases = []string{"visa sponsorship", "work visa", "sponsor visa", "relocation support"}

// Options controls query generation.
type Options struct {
	Skills        []string
	JobTitle      string
	Countries     []string
	IncludeRemote bool
	MaxSkills     int
	MaxQueries    int
}

// Generate builds an ordered list of unique search queries.
// Uniqueness is case-insensitive on the trimmed query and the result never exceeds MaxQueries.
// When no country is given the sponsor-friendly locations are used instead.
func Generate(opts Options) []string {
	maxSkills := opts.MaxSkills
	if maxSkills <= 0 {
		maxSkills = DefaultMaxSkills
	}
	maxQueries := opts.MaxQueries
	if maxQueries <= 0 {
		maxQueries = DefaultMaxQueries
	}

	skills := nonEmpty(opts.Skills)
	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}

	countries := nonEmpty(opts.Countries)
	if len(countries) == 0 {
		countries = scoring.SponsorFriendlyLocations
	}

	title := strings.TrimSpace(opts.JobTitle)

	bases := make([]string, 0, len(BasePhrases)*(len(skills)+1))
	for _, phrase := range BasePhrases {
		bases = append(bases, join(title, phrase))
		for _, skill := range skills {
			bases = append(bases, join(title, phrase, skill))
		}
	}

	set := newSet(maxQueries)
	for _, base := range bases {
		for _, country := range countries {
			set.add(join(base, country))
		}
		if opts.IncludeRemote {
			set.add(join(base, "remote"))
			for _, country := range countries {
				set.add(join(base, country, "remote"))
			}
		}
		if set.full() {
			break
		}
	}

	return set.items
}

type set struct {
	limit int
	seen  map[string]struct{}
	items []string
}

func newSet(limit int) *set {
	return &set{limit: limit, seen: make(map[string]struct{}), items: make([]string, 0, limit)}
}

func (s *set) add(q string) {
	if s.full() {
		return
	}
	q = strings.TrimSpace(q)
	key := strings.ToLower(q)
	if key == "" {
		return
	}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, q)
}

func (s *set) full() bool {
	return len(s.items) >= s.limit
}

func join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func nonEmpty(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
