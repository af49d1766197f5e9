package resume

import (
	"regexp"
	"strings"

	"github.com/spigell/visa-hunter/internal/utils"
)

const (
	maxExperienceEntries = 3
	maxEducationEntries  = 3
	maxLineEntries       = 5
	maxEntryRunes        = 300
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?)?(?:\(\d{1,4}\)[\s.\-]?)?\d{2,4}(?:[\s.\-]?\d{2,4}){1,4}`)
	yearsRe = regexp.MustCompile(`^(?:19|20)\d{2}\s*[\-.]\s*(?:19|20)\d{2}$`)

	jobTitleRe = regexp.MustCompile(`^(?:[A-Z][\w+#./&\-]*\s+){0,5}[A-Z]?[\w\-]*(?:Engineer|Developer|Manager|Analyst|Architect|Consultant|Intern)\b`)

	degreeKeywords = []string{
		"bachelor", "master", "phd", "ph.d", "b.sc", "m.sc", "bsc", "msc",
		"mba", "diploma", "degree", "university", "college",
	}
)

// Contact holds the contact details found in the document.
type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Record is the structured view of a résumé. It is built once by Extract and not modified afterwards.
type Record struct {
	Sections       map[string]string `json:"sections"`
	Skills         []string          `json:"skills"`
	Contact        Contact           `json:"contact"`
	Experience     []string          `json:"experience,omitempty"`
	Education      []string          `json:"education,omitempty"`
	Projects       []string          `json:"projects,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
}

// Extract segments text with the given headers and pulls skills, contact details and
// short excerpts out of it. It never fails: missing data leaves the fields empty.
func Extract(text string, headers map[string]string) *Record {
	sections := SectionMap(Segment(text, headers))

	return &Record{
		Sections:       sections,
		Skills:         ExtractSkills(skillsSource(sections, text)),
		Contact:        ExtractContact(text),
		Experience:     extractExperience(sections[SectionExperience]),
		Education:      extractEducation(sections[SectionEducation]),
		Projects:       nonBlankLines(sections[SectionProjects], maxLineEntries),
		Certifications: nonBlankLines(sections[SectionCertifications], maxLineEntries),
	}
}

// ExtractContact returns the first email and the first phone number found in text.
func ExtractContact(text string) Contact {
	var contact Contact

	contact.Email = emailRe.FindString(text)

	for _, candidate := range phoneRe.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		digits := countDigits(candidate)
		if digits < 7 || digits > 15 {
			continue
		}
		if yearsRe.MatchString(candidate) {
			continue
		}
		contact.Phone = candidate
		break
	}

	return contact
}

// Excerpt builds a short résumé summary for cover letters.
func (r *Record) Excerpt() string {
	if r == nil {
		return ""
	}

	var parts []string
	if len(r.Skills) > 0 {
		skills := r.Skills
		if len(skills) > 10 {
			skills = skills[:10]
		}
		parts = append(parts, "Skills: "+strings.Join(skills, ", "))
	}
	if len(r.Experience) > 0 {
		parts = append(parts, "Recent experience: "+r.Experience[0])
	}

	return strings.Join(parts, "\n")
}

func skillsSource(sections map[string]string, text string) string {
	for _, name := range []string{SectionSkills, SectionSummary, SectionProfile} {
		if s := strings.TrimSpace(sections[name]); s != "" {
			return s
		}
	}
	return text
}

func extractExperience(section string) []string {
	if strings.TrimSpace(section) == "" {
		return nil
	}

	var entries []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		entries = append(entries, utils.TruncateForLog(strings.Join(current, " "), maxEntryRunes))
		current = nil
	}

	titled := false
	for _, ln := range strings.Split(section, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if jobTitleRe.MatchString(ln) {
			titled = true
			flush()
		}
		current = append(current, ln)
	}
	flush()

	if !titled {
		entries = nonBlankLines(section, maxExperienceEntries)
	}

	if len(entries) > maxExperienceEntries {
		entries = entries[:maxExperienceEntries]
	}
	return entries
}

func extractEducation(section string) []string {
	var entries []string
	for _, ln := range strings.Split(section, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		lower := strings.ToLower(ln)
		for _, kw := range degreeKeywords {
			if strings.Contains(lower, kw) {
				entries = append(entries, utils.TruncateForLog(ln, maxEntryRunes))
				break
			}
		}
		if len(entries) == maxEducationEntries {
			break
		}
	}
	return entries
}

func nonBlankLines(section string, limit int) []string {
	var entries []string
	for _, ln := range strings.Split(section, "\n") {
		ln = strings.TrimSpace(bulletRe.ReplaceAllString(ln, ""))
		if ln == "" {
			continue
		}
		entries = append(entries, utils.TruncateForLog(ln, maxEntryRunes))
		if len(entries) == limit {
			break
		}
	}
	return entries
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
