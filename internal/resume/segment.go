package resume

import (
	"slices"
	"sort"
	"strings"
)

// Logical section names.
const (
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionSummary        = "summary"
	SectionProfile        = "profile"
	// SectionAll holds the whole document when no header was recognized.
	SectionAll = "all"
)

// DefaultHeaders maps logical section names to the header labels looked up in the text.
var DefaultHeaders = map[string]string{
	SectionSkills:         "Skills",
	SectionExperience:     "Experience",
	SectionEducation:      "Education",
	SectionProjects:       "Projects",
	SectionCertifications: "Certifications",
	SectionSummary:        "Summary",
	SectionProfile:        "Profile",
}

// Section is a named span of the document. Start and End are byte offsets, End is exclusive.
type Section struct {
	Name  string
	Start int
	End   int
	Text  string
}

type line struct {
	start int
	end   int
	next  int
	// terminated is false only for a last line without a trailing line break.
	terminated bool
}

// MergeHeaders returns DefaultHeaders with the non-empty overrides applied.
func MergeHeaders(overrides map[string]string) map[string]string {
	headers := make(map[string]string, len(DefaultHeaders)+len(overrides))
	for name, label := range DefaultHeaders {
		headers[name] = label
	}
	for name, label := range overrides {
		name = strings.ToLower(strings.TrimSpace(name))
		label = strings.TrimSpace(label)
		if name == "" || label == "" {
			continue
		}
		headers[name] = label
	}
	return headers
}

// Segment splits text into sections by locating header lines.
//
// A header line holds only the label (case-insensitive), optionally followed by a colon.
// A section runs from the line after its header up to the next header line, the first of
// two consecutive blank lines, or the end of the document. Labels without a header line
// produce no section. When no header is found the whole text is returned as SectionAll.
// The returned sections are ordered by position and never overlap.
func Segment(text string, headers map[string]string) []Section {
	if headers == nil {
		headers = DefaultHeaders
	}

	lines := splitLines(text)

	byLabel := make(map[string][]string)
	for name, label := range headers {
		label = normalizeLabel(label)
		if label == "" {
			continue
		}
		byLabel[label] = append(byLabel[label], name)
	}
	for label := range byLabel {
		sort.Strings(byLabel[label])
	}

	isHeader := make([]bool, len(lines))
	claimed := make(map[string]int)
	for i, ln := range lines {
		if !ln.terminated {
			continue
		}
		names, ok := byLabel[normalizeLabel(text[ln.start:ln.end])]
		if !ok {
			continue
		}
		isHeader[i] = true
		// The first header line of a label opens its section; a label shared by
		// several names is claimed by the first name only.
		if _, seen := claimed[names[0]]; !seen {
			claimed[names[0]] = i
		}
	}

	if len(claimed) == 0 {
		return []Section{{Name: SectionAll, Start: 0, End: len(text), Text: strings.TrimSpace(text)}}
	}

	sections := make([]Section, 0, len(claimed))
	for name, idx := range claimed {
		start := lines[idx].next
		end := len(text)

		for j := idx + 1; j < len(lines); j++ {
			if isHeader[j] {
				end = lines[j].start
				break
			}
			if isBlank(text, lines[j]) && j+1 < len(lines) && isBlank(text, lines[j+1]) {
				end = lines[j].start
				break
			}
		}

		sections = append(sections, Section{
			Name:  name,
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(text[start:end]),
		})
	}

	slices.SortFunc(sections, func(a, b Section) int {
		return a.Start - b.Start
	})

	return sections
}

// SectionMap converts sections into a name to text mapping.
func SectionMap(sections []Section) map[string]string {
	result := make(map[string]string, len(sections))
	for _, s := range sections {
		result[s.Name] = s.Text
	}
	return result
}

func splitLines(text string) []line {
	var lines []line
	pos := 0
	for pos < len(text) {
		idx := strings.IndexByte(text[pos:], '\n')
		if idx == -1 {
			lines = append(lines, line{start: pos, end: len(text), next: len(text)})
			break
		}
		lines = append(lines, line{start: pos, end: pos + idx, next: pos + idx + 1, terminated: true})
		pos += idx + 1
	}
	return lines
}

func normalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":")
	return strings.ToLower(strings.TrimSpace(s))
}

func isBlank(text string, ln line) bool {
	return strings.TrimSpace(text[ln.start:ln.end]) == ""
}
