package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/visa-hunter/internal/letters"
	"github.com/spigell/visa-hunter/internal/query"
	"github.com/spigell/visa-hunter/internal/resume"
	"github.com/spigell/visa-hunter/internal/scoring"
)

const (
	PromptYes        = "Yes"
	PromptEditSkills = "Edit skills"

	PromptPrefVisa      = "Visa sponsorship"
	PromptPrefCountries = "Target countries"
	PromptPrefRemote    = "Remote only"
	PromptPrefSkills    = "Skill focus"
	PromptPrefSalary    = "Salary"

	defaultLetters = 5
)

// confirmSkills asks whether the extracted skills are correct and lets the user replace them.
func confirmSkills(skills []string) ([]string, error) {
	confirm := promptui.Select{
		Label: fmt.Sprintf("Do these skills look correct? %s", strings.Join(skills, ", ")),
		Items: []string{PromptYes, PromptEditSkills, PromptNo},
	}

	_, answer, err := confirm.Run()
	if err != nil {
		return nil, err
	}

	switch answer {
	case PromptYes:
		return skills, nil
	case PromptNo:
		return nil, errExit
	}

	edit := promptui.Prompt{
		Label:   "Skills (comma separated)",
		Default: strings.Join(skills, ", "),
		Validate: func(s string) error {
			if len(resume.Dedup(strings.Split(s, ","))) == 0 {
				return errors.New("at least one skill is required")
			}
			return nil
		},
	}

	input, err := edit.Run()
	if err != nil {
		return nil, err
	}

	return parseSkills(input), nil
}

func parseSkills(input string) []string {
	parts := strings.Split(input, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return resume.Dedup(parts)
}

// selectPreference asks which signal matters most for this run.
func selectPreference() (scoring.Preference, error) {
	choice := promptui.Select{
		Label: "What matters most in this search?",
		Items: []string{PromptPrefVisa, PromptPrefCountries, PromptPrefRemote, PromptPrefSkills, PromptPrefSalary},
	}

	_, answer, err := choice.Run()
	if err != nil {
		return scoring.Preference{}, err
	}

	var input string
	switch answer {
	case PromptPrefCountries, PromptPrefSkills:
		list := promptui.Prompt{Label: fmt.Sprintf("%s (comma separated)", answer)}
		input, err = list.Run()
		if err != nil {
			return scoring.Preference{}, err
		}
	}

	return preferenceFor(answer, input), nil
}

// preferenceFor builds a preference from a prompt answer. Unknown answers and empty lists
// fall back to visa priority.
func preferenceFor(answer, input string) scoring.Preference {
	var pref scoring.Preference
	switch answer {
	case PromptPrefCountries:
		pref = scoring.Preference{Name: "countries", TargetCountries: scoring.ParseList(input)}
	case PromptPrefRemote:
		pref = scoring.Preference{Name: "remote", RemoteOnly: true}
	case PromptPrefSkills:
		pref = scoring.Preference{Name: "skills", SkillFocus: scoring.ParseList(input)}
	case PromptPrefSalary:
		pref = scoring.Preference{Name: "salary", SalaryPriority: true}
	}

	if pref.IsZero() {
		return scoring.DefaultPreference()
	}
	return pref
}

// buildPreferences applies the preference mode. Single mode merges everything into one preference.
func buildPreferences(mode string, prefs []scoring.Preference) ([]scoring.Preference, error) {
	if len(prefs) == 0 {
		prefs = []scoring.Preference{scoring.DefaultPreference()}
	}

	normalized := make([]scoring.Preference, 0, len(prefs))
	for _, p := range prefs {
		normalized = append(normalized, p.Normalize())
	}

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case modeSingle:
		return []scoring.Preference{scoring.Merge(normalized...)}, nil
	case modeMulti, "":
		return normalized, nil
	default:
		return nil, fmt.Errorf("unknown preference mode %q, expected %s or %s", mode, modeSingle, modeMulti)
	}
}

// queryOptions takes countries from the config and falls back to the preferences.
func queryOptions(config *Config, skills []string, prefs []scoring.Preference) query.Options {
	merged := scoring.Merge(prefs...)

	countries := config.Countries
	if len(countries) == 0 {
		countries = merged.TargetCountries
	}

	return query.Options{
		Skills:        skills,
		JobTitle:      config.JobTitle,
		Countries:     countries,
		IncludeRemote: config.IncludeRemote || merged.RemoteOnly,
		MaxSkills:     config.MaxSkills,
		MaxQueries:    config.MaxQueries,
	}
}

// letterLimit asks how many cover letters to write.
func letterLimit(configured int) (int, error) {
	def := configured
	if def <= 0 {
		def = defaultLetters
	}

	count := promptui.Prompt{
		Label:   fmt.Sprintf("How many cover letters? (max %d)", letters.MaxPerRun),
		Default: strconv.Itoa(min(def, letters.MaxPerRun)),
		Validate: func(s string) error {
			_, err := parseLetterLimit(s)
			return err
		},
	}

	input, err := count.Run()
	if err != nil {
		return 0, err
	}

	return parseLetterLimit(input)
}

func parseLetterLimit(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", input)
	}
	if n < 1 || n > letters.MaxPerRun {
		return 0, fmt.Errorf("must be between 1 and %d", letters.MaxPerRun)
	}
	return n, nil
}
