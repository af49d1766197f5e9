package jobs

import "testing"

func TestKeyIsCaseInsensitive(t *testing.T) {
	a := &Posting{Title: "Backend Engineer", Company: "Acme", Location: "Berlin, Germany"}
	b := &Posting{Title: "backend engineer ", Company: "ACME", Location: "berlin, germany"}

	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys, got %q and %q", a.Key(), b.Key())
	}

	c := &Posting{Title: "Backend Engineer", Company: "Acme", Location: "Munich, Germany"}
	if a.Key() == c.Key() {
		t.Fatalf("expected location to be part of the key")
	}
}

func TestText(t *testing.T) {
	p := &Posting{Title: "Go Developer", Description: "Fully REMOTE"}
	if got := p.Text(); got != "fully remote go developer" {
		t.Fatalf("unexpected text: %q", got)
	}
}
