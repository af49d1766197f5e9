package scoring

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/visa-hunter/internal/jobs"
)

func backendPosting(description string) *jobs.Posting {
	return &jobs.Posting{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Berlin, Germany",
		Description: description,
	}
}

func TestScoreVisaKeyword(t *testing.T) {
	p := backendPosting("We offer visa sponsorship for this Python role.")

	got := Score(p, []string{"Python", "Go"}, Preference{VisaPriority: true})

	if got.Score != 110 {
		t.Fatalf("expected score 110, got %d (%v)", got.Score, got.Reasons)
	}

	expected := []string{"1 skill matches", "Visa sponsorship: visa sponsorship"}
	if !reflect.DeepEqual(got.Reasons, expected) {
		t.Fatalf("unexpected reasons: %q", got.Reasons)
	}

	if status := VisaStatusOf(p); status != VisaYes {
		t.Fatalf("expected visa status Yes, got %s", status)
	}
}

func TestScoreSponsorFriendlyLocation(t *testing.T) {
	p := backendPosting("We are hiring for this Python role.")

	got := Score(p, []string{"Python", "Go"}, Preference{VisaPriority: true})

	if got.Score != 60 {
		t.Fatalf("expected score 60, got %d (%v)", got.Score, got.Reasons)
	}
	if got.Reasons[len(got.Reasons)-1] != "Sponsor-friendly location" {
		t.Fatalf("expected sponsor-friendly location reason, got %q", got.Reasons)
	}
	if status := VisaStatusOf(p); status != VisaMaybe {
		t.Fatalf("expected visa status Maybe, got %s", status)
	}
}

func TestScoreRemoteOnly(t *testing.T) {
	p := &jobs.Posting{Description: "Fully remote position"}

	got := Score(p, nil, Preference{RemoteOnly: true})

	if got.Score != 30 {
		t.Fatalf("expected score 30, got %d", got.Score)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"Remote work available"}) {
		t.Fatalf("unexpected reasons: %q", got.Reasons)
	}
	if status := VisaStatusOf(p); status != VisaUnknown {
		t.Fatalf("expected visa status Unknown, got %s", status)
	}
}

func TestScoreH1BPriority(t *testing.T) {
	p := &jobs.Posting{Title: "Engineer", Description: "H1B transfer welcome"}

	got := Score(p, nil, Preference{VisaPriority: true})
	if got.Score < 100 {
		t.Fatalf("expected score >= 100, got %d", got.Score)
	}

	found := false
	for _, r := range got.Reasons {
		if strings.HasPrefix(r, "Visa sponsorship") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected visa reason, got %q", got.Reasons)
	}
}

func TestScoreIsSumOfContributions(t *testing.T) {
	p := &jobs.Posting{
		Title:       "Senior Go Developer",
		Company:     "Globex",
		Location:    "Toronto, Canada",
		Description: "Work from home. We use Kubernetes and Go. Work permit support.",
		Salary:      "CA$120,000 a year",
	}
	pref := Preference{
		VisaPriority:    true,
		TargetCountries: []string{"Canada", "toronto"},
		RemoteOnly:      true,
		SkillFocus:      []string{"kubernetes", "terraform", "Go"},
		SalaryPriority:  true,
	}

	got := Score(p, []string{"Go", "go", "Kubernetes", "Rust"}, pref)

	expectedReasons := []string{
		"2 skill matches",
		"Visa sponsorship: work permit",
		"Target country: canada",
		"Remote work available",
		"Focus skill: kubernetes",
		"Focus skill: go",
		"Salary above 60000",
	}
	if !reflect.DeepEqual(got.Reasons, expectedReasons) {
		t.Fatalf("unexpected reasons:\n got %q\nwant %q", got.Reasons, expectedReasons)
	}

	expected := 2*PointsPerSkill + PointsVisaKeyword + PointsTargetCountry + PointsRemote + 2*PointsFocusSkill + PointsSalary
	if got.Score != expected {
		t.Fatalf("expected score %d, got %d", expected, got.Score)
	}
}

func TestScoreInactiveSignals(t *testing.T) {
	p := backendPosting("Visa sponsorship, remote, 100000 EUR")
	p.Salary = "100000"

	got := Score(p, nil, Preference{})
	if got.Score != 0 || len(got.Reasons) != 0 {
		t.Fatalf("expected zero score without preferences, got %d %q", got.Score, got.Reasons)
	}

	if got := Score(nil, []string{"Go"}, Preference{VisaPriority: true}); got.Score != 0 {
		t.Fatalf("expected zero score for nil posting")
	}
}

func TestScoreBest(t *testing.T) {
	p := &jobs.Posting{Location: "Remote", Description: "remote friendly team"}
	prefs := []Preference{
		{Name: "visa", VisaPriority: true},
		{Name: "remote", RemoteOnly: true},
		{Name: "remote-too", RemoteOnly: true},
	}

	got := ScoreBest(p, nil, prefs)
	if got.Score != PointsRemote || got.Preference != "remote" {
		t.Fatalf("unexpected best result: %+v", got)
	}

	if got := ScoreBest(p, []string{"team"}, nil); got.Score != PointsPerSkill {
		t.Fatalf("expected skill-only score, got %+v", got)
	}
}

func TestMerge(t *testing.T) {
	merged := Merge(
		Preference{VisaPriority: true, TargetCountries: []string{" Germany", "canada"}},
		Preference{RemoteOnly: true, TargetCountries: []string{"GERMANY", "uk"}, SkillFocus: []string{"Go"}},
	)

	if !merged.VisaPriority || !merged.RemoteOnly || merged.SalaryPriority {
		t.Fatalf("unexpected toggles: %+v", merged)
	}
	if !reflect.DeepEqual(merged.TargetCountries, []string{"germany", "canada", "uk"}) {
		t.Fatalf("unexpected countries: %q", merged.TargetCountries)
	}
	if !reflect.DeepEqual(merged.SkillFocus, []string{"go"}) {
		t.Fatalf("unexpected skill focus: %q", merged.SkillFocus)
	}
	if merged.IsZero() {
		t.Fatalf("merged preference must not be zero")
	}
	if !(Preference{}).IsZero() {
		t.Fatalf("empty preference must be zero")
	}
}

func TestParseList(t *testing.T) {
	got := ParseList(" Germany, ,canada,germany ")
	if !reflect.DeepEqual(got, []string{"germany", "canada"}) {
		t.Fatalf("unexpected list: %q", got)
	}
	if ParseList("  ") != nil {
		t.Fatalf("expected nil for blank input")
	}
}
