package jobs

import (
	"fmt"
	"strings"
)

// Posting is a single job listing as returned by the search provider.
// Every field may be empty.
type Posting struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Salary      string `json:"salary,omitempty"`
	PostedAt    string `json:"posted_at,omitempty"`
	ApplyLink   string `json:"apply_link,omitempty"`
}

// Key is the identity used to deduplicate postings across queries.
func (p *Posting) Key() string {
	return Key(p.Title, p.Company, p.Location)
}

// Key builds an identity key from the lowercased title, company and location.
func Key(title, company, location string) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(company)),
		strings.ToLower(strings.TrimSpace(location)),
	)
}

// Text returns the lowercased title and description joined by a space.
func (p *Posting) Text() string {
	return strings.ToLower(p.Description + " " + p.Title)
}
