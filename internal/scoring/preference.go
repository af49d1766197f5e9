package scoring

import (
	"strings"
)

// Preference selects which signals contribute to a score.
type Preference struct {
	Name            string   `mapstructure:"name" json:"name,omitempty"`
	VisaPriority    bool     `mapstructure:"visa-priority" json:"visa_priority"`
	TargetCountries []string `mapstructure:"target-countries" json:"target_countries,omitempty"`
	RemoteOnly      bool     `mapstructure:"remote-only" json:"remote_only"`
	SkillFocus      []string `mapstructure:"skill-focus" json:"skill_focus,omitempty"`
	SalaryPriority  bool     `mapstructure:"salary-priority" json:"salary_priority"`
}

// DefaultPreference prioritizes visa sponsorship only.
func DefaultPreference() Preference {
	return Preference{Name: "visa", VisaPriority: true}
}

// Normalize returns a copy with lowercased, trimmed and deduplicated lists.
func (p Preference) Normalize() Preference {
	p.Name = strings.TrimSpace(p.Name)
	p.TargetCountries = normalizeList(p.TargetCountries)
	p.SkillFocus = normalizeList(p.SkillFocus)
	return p
}

// IsZero reports whether the preference enables no signal besides skill matching.
func (p Preference) IsZero() bool {
	return !p.VisaPriority && !p.RemoteOnly && !p.SalaryPriority &&
		len(p.TargetCountries) == 0 && len(p.SkillFocus) == 0
}

// Merge combines preferences into one: toggles are OR-ed, lists are joined in order
// without duplicates.
func Merge(prefs ...Preference) Preference {
	merged := Preference{Name: "merged"}
	var countries, focus []string

	for _, p := range prefs {
		merged.VisaPriority = merged.VisaPriority || p.VisaPriority
		merged.RemoteOnly = merged.RemoteOnly || p.RemoteOnly
		merged.SalaryPriority = merged.SalaryPriority || p.SalaryPriority
		countries = append(countries, p.TargetCountries...)
		focus = append(focus, p.SkillFocus...)
	}

	merged.TargetCountries = countries
	merged.SkillFocus = focus

	return merged.Normalize()
}

// ParseList splits a comma separated user input into a normalized list.
func ParseList(s string) []string {
	return normalizeList(strings.Split(s, ","))
}

func normalizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
