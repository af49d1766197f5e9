package ranking

import (
	"slices"
	"time"

	"github.com/spigell/visa-hunter/internal/jobs"
	"github.com/spigell/visa-hunter/internal/scoring"
)

// Scored is a posting together with its relevance. It is not modified after creation.
type Scored struct {
	jobs.Posting

	Query      string
	Score      int
	Reasons    []string
	Preference string
	Visa       scoring.VisaStatus

	seq   int
	age   time.Duration
	dated bool
}

// Stats counts what happened to the postings passed to an aggregator.
type Stats struct {
	Raw        int
	Duplicates int
	Irrelevant int
	Kept       int
}

// Aggregator deduplicates and scores postings of a single search run.
type Aggregator struct {
	skills []string
	prefs  []scoring.Preference
	now    time.Time

	seen  map[string]struct{}
	items []*Scored
	stats Stats
}

// NewAggregator creates an aggregator. Every posting is scored under each of prefs and the
// best result is kept; pass a single merged preference to score under one configuration.
// now is the reference time for posting recency.
func NewAggregator(skills []string, prefs []scoring.Preference, now time.Time) *Aggregator {
	return &Aggregator{
		skills: slices.Clone(skills),
		prefs:  slices.Clone(prefs),
		now:    now,
		seen:   make(map[string]struct{}),
	}
}

// Add scores the posting found by query and keeps it unless it duplicates an earlier posting
// (same title, company and location) or scores zero. It reports whether the posting was kept.
func (a *Aggregator) Add(query string, p *jobs.Posting) bool {
	if p == nil {
		return false
	}
	a.stats.Raw++

	key := p.Key()
	if _, ok := a.seen[key]; ok {
		a.stats.Duplicates++
		return false
	}
	a.seen[key] = struct{}{}

	result := scoring.ScoreBest(p, a.skills, a.prefs)
	if result.Score <= 0 {
		a.stats.Irrelevant++
		return false
	}

	age, dated := PostingAge(p.PostedAt, a.now)

	a.items = append(a.items, &Scored{
		Posting:    *p,
		Query:      query,
		Score:      result.Score,
		Reasons:    result.Reasons,
		Preference: result.Preference,
		Visa:       scoring.VisaStatusOf(p),
		seq:        len(a.items),
		age:        age,
		dated:      dated,
	})
	a.stats.Kept++

	return true
}

// Ranked returns the kept postings ordered by score (highest first), then by posting date
// (newest first, unknown dates last), then by the order they were added.
func (a *Aggregator) Ranked() []*Scored {
	ranked := slices.Clone(a.items)
	Sort(ranked)
	return ranked
}

// Stats returns the counters collected so far.
func (a *Aggregator) Stats() Stats {
	return a.stats
}

// Sort orders postings in place using the ranking order.
func Sort(items []*Scored) {
	slices.SortStableFunc(items, compare)
}

func compare(a, b *Scored) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	if a.dated != b.dated {
		if a.dated {
			return -1
		}
		return 1
	}
	if a.dated && a.age != b.age {
		if a.age < b.age {
			return -1
		}
		return 1
	}
	return a.seq - b.seq
}
