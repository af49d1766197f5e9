package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Token length bounds in runes, inclusive.
	minSkillLength = 2
	maxSkillLength = 50
	// MaxSkills caps the number of extracted skills.
	MaxSkills = 128
)

var (
	bulletRe    = regexp.MustCompile(`^[\s•\-*·–]+`)
	categoryRe  = regexp.MustCompile(`(?i)^(?:programming\s+languages?|technolog(?:y|ies)|frameworks?|databases?|devops\s*(?:&\s*)?tools?|languages?)\s*[:\-–]\s*`)
	delimiterRe = regexp.MustCompile(`[,;]+`)
	conjRe      = regexp.MustCompile(`(?i)^(?:and\s+|&\s+)`)

	stopWords = map[string]struct{}{
		"the":      {},
		"and":      {},
		"or":       {},
		"with":     {},
		"using":    {},
		"include":  {},
		"includes": {},
		"etc":      {},
	}
)

const trimSet = ".,;:•-() \t\r"

// ExtractSkills turns a skills section into a list of skills.
// The result is deduplicated case-insensitively keeping the first spelling, in order of appearance.
func ExtractSkills(content string) []string {
	var tokens []string

	for _, ln := range strings.Split(content, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}

		ln = bulletRe.ReplaceAllString(ln, "")
		ln = categoryRe.ReplaceAllString(ln, "")

		for _, item := range delimiterRe.Split(ln, -1) {
			item = strings.TrimSpace(item)
			item = conjRe.ReplaceAllString(item, "")
			item = strings.Trim(item, trimSet)

			if !validSkill(item) {
				continue
			}
			tokens = append(tokens, item)
		}
	}

	skills := Dedup(tokens)
	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	return skills
}

// Dedup removes case-insensitive duplicates, keeping the first occurrence and its casing.
func Dedup(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}
	return result
}

// validSkill rejects tokens outside the length bounds, stop words, broken UTF-8, control
// characters and tokens without a single letter or digit.
func validSkill(token string) bool {
	n := utf8.RuneCountInString(token)
	if n < minSkillLength || n > maxSkillLength || !utf8.ValidString(token) {
		return false
	}
	if _, stop := stopWords[strings.ToLower(token)]; stop {
		return false
	}

	alnum := false
	for _, r := range token {
		if unicode.IsControl(r) {
			return false
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum = true
		}
	}
	return alnum
}
