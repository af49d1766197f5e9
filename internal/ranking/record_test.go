package ranking

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spigell/visa-hunter/internal/jobs"
	"github.com/spigell/visa-hunter/internal/scoring"
)

func TestFormatDefaults(t *testing.T) {
	s := &Scored{
		Posting: jobs.Posting{Title: "Go Developer", Company: "Acme"},
		Query:   "go visa",
		Score:   110,
		Reasons: []string{"1 skill matches", "Visa sponsorship: h1b"},
		Visa:    scoring.VisaYes,
	}

	got := Format(s, false)
	expected := Record{
		Query:       "go visa",
		Score:       110,
		Reasons:     "1 skill matches; Visa sponsorship: h1b",
		Title:       "Go Developer",
		Company:     "Acme",
		Salary:      "Not specified",
		PostedAt:    "Unknown",
		ApplyLink:   "Not available",
		Visa:        "Yes",
		ReviewLink:  "https://www.glassdoor.com/Reviews/Acme-Reviews-E.htm",
		Status:      "Not Applied",
		CoverLetter: "No",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected record:\n got %+v\nwant %+v", got, expected)
	}

	if Format(s, true).CoverLetter != "Yes" {
		t.Fatalf("expected cover letter flag")
	}
}

func TestFormatTruncatesDescription(t *testing.T) {
	long := strings.Repeat("é", 600)
	got := Format(&Scored{Posting: jobs.Posting{Description: long}}, false)

	if !strings.HasSuffix(got.Description, "...") {
		t.Fatalf("expected ellipsis")
	}
	if n := utf8.RuneCountInString(got.Description); n != 503 {
		t.Fatalf("expected 503 runes, got %d", n)
	}

	short := strings.Repeat("a", 500)
	if got := Format(&Scored{Posting: jobs.Posting{Description: short}}, false); got.Description != short {
		t.Fatalf("did not expect truncation at the limit")
	}
}

func TestReviewLink(t *testing.T) {
	cases := map[string]string{
		"Procter & Gamble": "https://www.glassdoor.com/Reviews/Procter-and-Gamble-Reviews-E.htm",
		"Acme, Inc.":       "https://www.glassdoor.com/Reviews/Acme-Inc-Reviews-E.htm",
		" Zalando SE ":     "https://www.glassdoor.com/Reviews/Zalando-SE-Reviews-E.htm",
		"":                 "Not available",
		"!!!":              "Not available",
		"Müller GmbH":      "https://www.glassdoor.com/Reviews/Mller-GmbH-Reviews-E.htm",
	}

	for company, expected := range cases {
		if got := ReviewLink(company); got != expected {
			t.Fatalf("company %q: expected %q, got %q", company, expected, got)
		}
	}
}

func TestRowMatchesColumns(t *testing.T) {
	r := Format(&Scored{Posting: jobs.Posting{Title: "t"}, Score: 7}, false)

	row := r.Row()
	if len(row) != len(Columns()) {
		t.Fatalf("row has %d fields, header has %d", len(row), len(Columns()))
	}
	if row[1] != "7" || row[3] != "t" || row[12] != "Not Applied" {
		t.Fatalf("unexpected row: %q", row)
	}
}
