package scoring

import (
	"fmt"
	"strings"

	"github.com/spigell/visa-hunter/internal/jobs"
)

// Points awarded per signal.
const (
	PointsPerSkill        = 10
	PointsVisaKeyword     = 100
	PointsSponsorLocation = 50
	PointsTargetCountry   = 75
	PointsRemote          = 30
	PointsFocusSkill      = 25
	PointsSalary          = 40
)

// Result is the outcome of scoring one posting under one preference.
type Result struct {
	Score   int
	Reasons []string
	// Preference is the name of the preference that produced the result.
	Preference string
}

// Score computes the relevance of a posting. Reasons are listed in evaluation order and
// the score is the sum of the contributions they describe.
func Score(p *jobs.Posting, skills []string, pref Preference) Result {
	result := Result{Preference: pref.Name}
	if p == nil {
		return result
	}

	pref = pref.Normalize()
	text := p.Text()
	location := strings.ToLower(p.Location)

	add := func(points int, reason string) {
		result.Score += points
		result.Reasons = append(result.Reasons, reason)
	}

	if matches := countSkillMatches(text, skills); matches > 0 {
		add(matches*PointsPerSkill, fmt.Sprintf("%d skill matches", matches))
	}

	if pref.VisaPriority {
		if ok, kw := VisaIndicator(p); ok {
			add(PointsVisaKeyword, "Visa sponsorship: "+kw)
		} else if SponsorFriendlyLocation(p.Location) {
			add(PointsSponsorLocation, "Sponsor-friendly location")
		}
	}

	for _, country := range pref.TargetCountries {
		if strings.Contains(location, country) {
			add(PointsTargetCountry, "Target country: "+country)
			break
		}
	}

	if pref.RemoteOnly && RemoteFriendly(text) {
		add(PointsRemote, "Remote work available")
	}

	for _, focus := range pref.SkillFocus {
		if strings.Contains(text, focus) {
			add(PointsFocusSkill, "Focus skill: "+focus)
		}
	}

	if pref.SalaryPriority && SalaryAboveThreshold(p.Salary) {
		add(PointsSalary, fmt.Sprintf("Salary above %d", SalaryThreshold))
	}

	return result
}

// ScoreBest scores a posting under every preference independently and returns the highest
// result. The earlier preference wins a tie. Without preferences only skills are scored.
func ScoreBest(p *jobs.Posting, skills []string, prefs []Preference) Result {
	if len(prefs) == 0 {
		return Score(p, skills, Preference{})
	}

	best := Score(p, skills, prefs[0])
	for _, pref := range prefs[1:] {
		if r := Score(p, skills, pref); r.Score > best.Score {
			best = r
		}
	}
	return best
}

func countSkillMatches(text string, skills []string) int {
	seen := make(map[string]struct{}, len(skills))
	matches := 0
	for _, skill := range skills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if strings.Contains(text, key) {
			matches++
		}
	}
	return matches
}
