package concierge

import (
	"testing"

	"github.com/campushub/concierge-go/internal/kb"
)

func mustLoadKB(t *testing.T) *kb.KnowledgeBase {
	t.Helper()
	base, err := kb.Load()
	if err != nil {
		t.Fatalf("kb.Load() error = %v", err)
	}
	return base
}

func TestMatchRanksExplicitNameFirst(t *testing.T) {
	base := mustLoadKB(t)

	candidates := Match(base, "where is the central library")
	if len(candidates) == 0 {
		t.Fatal("expected candidates for a library query")
	}
	if candidates[0].LocationID != "central-library" {
		t.Errorf("top candidate = %s, want central-library", candidates[0].LocationID)
	}
	if candidates[0].Score < minCandidateScore {
		t.Errorf("score = %d, want at least %d", candidates[0].Score, minCandidateScore)
	}
}

func TestMatchServicePhrase(t *testing.T) {
	base := mustLoadKB(t)

	candidates := FilterQualified(Match(base, "where is the id card office"))
	if len(candidates) != 1 {
		t.Fatalf("qualified candidates = %d, want 1", len(candidates))
	}
	if candidates[0].LocationID != "student-services" {
		t.Errorf("candidate = %s, want student-services", candidates[0].LocationID)
	}
}

func TestMatchIncidentalTokenDoesNotQualify(t *testing.T) {
	base := mustLoadKB(t)

	// "office" alone appears in several locations but a single shared
	// token must never qualify a candidate.
	for _, c := range FilterQualified(Match(base, "office")) {
		if c.Score < minCandidateScore {
			t.Errorf("unqualified candidate %s with score %d passed the filter", c.LocationID, c.Score)
		}
	}
}

func TestMatchFunctionWordsCarryNoEvidence(t *testing.T) {
	base := mustLoadKB(t)

	// Function words appear in most location descriptions; a query made
	// of them plus generic verbs must not qualify any candidate.
	if got := FilterQualified(Match(base, "can my parents visit on weekdays")); len(got) != 0 {
		t.Errorf("qualified candidates = %d, want 0", len(got))
	}
}

func TestMatchGibberish(t *testing.T) {
	base := mustLoadKB(t)

	if got := FilterQualified(Match(base, "xylophone quartz zeppelin")); len(got) != 0 {
		t.Errorf("qualified candidates for gibberish = %v, want none", got)
	}
}

func TestMatchDeterministicOrder(t *testing.T) {
	base := mustLoadKB(t)

	first := Match(base, "take me from the gate to the library")
	for range 5 {
		again := Match(base, "take me from the gate to the library")
		if len(again) != len(first) {
			t.Fatalf("candidate count changed between runs: %d vs %d", len(again), len(first))
		}
		for i := range again {
			if again[i].LocationID != first[i].LocationID || again[i].Score != first[i].Score {
				t.Errorf("ordering changed at %d: %+v vs %+v", i, again[i], first[i])
			}
		}
	}
}

func TestMatchRouteEndpoints(t *testing.T) {
	base := mustLoadKB(t)

	qualified := FilterQualified(Match(base, "take me from the gate to the library"))
	ids := make(map[string]bool, len(qualified))
	for _, c := range qualified {
		ids[c.LocationID] = true
	}
	if !ids["main-gate"] || !ids["central-library"] {
		t.Errorf("expected both route endpoints qualified, got %v", ids)
	}
}

func TestIsRouteQuery(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"take me from the gate to the library", true},
		{"how to go from the main gate to the admin block", true},
		{"directions to the sports complex", true},
		{"navigate to the health center", true},
		{"show route between hostel and cafeteria", true},
		{"where is the library", false},
		{"last date to pay fees at the accounts office", false},
		{"how do i get a transcript from the registrar office", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := IsRouteQuery(tt.query); got != tt.want {
				t.Errorf("IsRouteQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
