package ranking

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	notSpecified = "Not specified"
	unknownDate  = "Unknown"
	notAvailable = "Not available"
	notApplied   = "Not Applied"

	maxDescriptionRunes = 500
	reviewURL           = "https://www.glassdoor.com/Reviews/%s-Reviews-E.htm"
)

// Record is one output row of a search run.
type Record struct {
	Query       string `json:"search_query"`
	Score       int    `json:"relevance_score"`
	Reasons     string `json:"score_reasons"`
	Title       string `json:"job_title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	PostedAt    string `json:"posting_date"`
	Description string `json:"job_description"`
	ApplyLink   string `json:"application_link"`
	Visa        string `json:"visa_sponsorship_mentioned"`
	ReviewLink  string `json:"company_review_link"`
	Status      string `json:"application_status"`
	CoverLetter string `json:"cover_letter_generated"`
}

// Columns returns the header of the tabular output, in Row order.
func Columns() []string {
	return []string{
		"Search Query",
		"Relevance Score",
		"Score Reasons",
		"Job Title",
		"Company",
		"Location",
		"Salary",
		"Posting Date",
		"Job Description",
		"Application Link",
		"Visa Sponsorship Mentioned",
		"Company Review Link",
		"Application Status",
		"Cover Letter Generated",
	}
}

// Row returns the record fields in Columns order.
func (r Record) Row() []string {
	return []string{
		r.Query,
		strconv.Itoa(r.Score),
		r.Reasons,
		r.Title,
		r.Company,
		r.Location,
		r.Salary,
		r.PostedAt,
		r.Description,
		r.ApplyLink,
		r.Visa,
		r.ReviewLink,
		r.Status,
		r.CoverLetter,
	}
}

// Format builds the output record for a scored posting.
func Format(s *Scored, coverLetter bool) Record {
	letter := "No"
	if coverLetter {
		letter = "Yes"
	}

	return Record{
		Query:       s.Query,
		Score:       s.Score,
		Reasons:     strings.Join(s.Reasons, "; "),
		Title:       s.Title,
		Company:     s.Company,
		Location:    s.Location,
		Salary:      orDefault(s.Salary, notSpecified),
		PostedAt:    orDefault(s.PostedAt, unknownDate),
		Description: truncateDescription(s.Description),
		ApplyLink:   orDefault(s.ApplyLink, notAvailable),
		Visa:        string(s.Visa),
		ReviewLink:  ReviewLink(s.Company),
		Status:      notApplied,
		CoverLetter: letter,
	}
}

// ReviewLink returns the company review page link, or "Not available" when the company
// name has nothing usable.
func ReviewLink(company string) string {
	name := strings.ReplaceAll(strings.TrimSpace(company), "&", "and")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-':
			b.WriteRune(r)
		}
	}

	slug := b.String()
	if strings.Trim(slug, "-") == "" {
		return notAvailable
	}

	return fmt.Sprintf(reviewURL, slug)
}

func truncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= maxDescriptionRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxDescriptionRunes]) + "..."
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
