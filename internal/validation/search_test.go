package validation

import "testing"

func TestNormalizeSearch(t *testing.T) {
	cases := map[string]string{
		"Véronique":  "veronique",
		"HÔTEL Près": "hotel pres",
		"déjà vu":    "deja vu",
		"simple":     "simple",
	}
	for in, want := range cases {
		if got := NormalizeSearch(in); got != want {
			t.Errorf("NormalizeSearch(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatchesSearch(t *testing.T) {
	if !MatchesSearch("veronique", "Madame Véronique Martin") {
		t.Error("expected accent-insensitive match")
	}
	if !MatchesSearch("LYON", "12 rue de la République, lyon") {
		t.Error("expected case-insensitive match")
	}
	if MatchesSearch("paris", "12 rue de la République, Lyon") {
		t.Error("expected no match")
	}
	if MatchesSearch("  ", "anything") {
		t.Error("blank term must match nothing")
	}
	if !MatchesSearch("mar", "", "Martin") {
		t.Error("expected match on any field")
	}
}
