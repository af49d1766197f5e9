package scoring

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spigell/visa-hunter/internal/jobs"
)

// SalaryThreshold is the value a posting salary must exceed to count as a signal.
const SalaryThreshold = 60000

// VisaKeywords are matched in order; the first match is reported.
var VisaKeywords = []string{
	"visa sponsorship", "h1b", "work visa", "sponsor visa", "immigration support",
	"work authorization", "eligible to work", "visa support", "sponsorship available",
	"h1b visa", "work permit", "visa assistance", "international candidates",
	"relocation assistance", "global talent", "overseas candidates",
}

// SponsorFriendlyLocations are countries and regions associated with visa sponsorship.
var SponsorFriendlyLocations = []string{
	"united states", "usa", "canada", "germany", "netherlands", "ireland",
	"australia", "new zealand", "uk", "united kingdom", "sweden", "denmark",
	"switzerland", "austria", "singapore",
}

// RemoteTerms mark a posting as remote friendly.
var RemoteTerms = []string{"remote", "work from home", "telecommute"}

// VisaStatus tells how likely a posting is to offer sponsorship.
type VisaStatus string

const (
	VisaYes     VisaStatus = "Yes"
	VisaMaybe   VisaStatus = "Maybe"
	VisaUnknown VisaStatus = "Unknown"
)

// VisaIndicator reports whether the description, title or company mention a visa keyword.
func VisaIndicator(p *jobs.Posting) (bool, string) {
	if p == nil {
		return false, ""
	}

	text := strings.ToLower(strings.Join([]string{p.Description, p.Title, p.Company}, " "))
	for _, kw := range VisaKeywords {
		if strings.Contains(text, kw) {
			return true, kw
		}
	}
	return false, ""
}

// SponsorFriendlyLocation reports whether the location names a sponsor-friendly country.
func SponsorFriendlyLocation(location string) bool {
	location = strings.ToLower(location)
	if strings.TrimSpace(location) == "" {
		return false
	}
	for _, country := range SponsorFriendlyLocations {
		if strings.Contains(location, country) {
			return true
		}
	}
	return false
}

// RemoteFriendly reports whether text mentions remote work.
func RemoteFriendly(text string) bool {
	text = strings.ToLower(text)
	for _, term := range RemoteTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// SalaryAboveThreshold concatenates every digit of the salary field and compares the number
// with SalaryThreshold. Fields without digits give false; numbers too large for int64 give true.
func SalaryAboveThreshold(salary string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, salary)
	if digits == "" {
		return false
	}

	value, err := strconv.ParseInt(digits, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return true
	}
	if err != nil {
		return false
	}
	return value > SalaryThreshold
}

// VisaStatusOf derives the sponsorship status shown in reports.
func VisaStatusOf(p *jobs.Posting) VisaStatus {
	if ok, _ := VisaIndicator(p); ok {
		return VisaYes
	}
	if p != nil && SponsorFriendlyLocation(p.Location) {
		return VisaMaybe
	}
	return VisaUnknown
}
