package concierge

import (
	"sort"
	"strings"

	"github.com/campushub/concierge-go/internal/kb"
	"github.com/campushub/concierge-go/internal/stringutil"
)

// minCandidateScore is the score a candidate needs before the deterministic
// pipeline will answer with it. One incidental shared token is not enough.
const minCandidateScore = 2

// Phrase bonuses. A full name hit outranks an alias or service name hit.
const (
	nameBonus  = 3
	aliasBonus = 2
)

// MatchCandidate is a scored location for a query.
type MatchCandidate struct {
	LocationID   string
	MatchedTerms []string
	Score        int
}

// Match scores every location in the knowledge base against the query and
// returns all candidates with a non-zero score, best first. Ordering is
// deterministic: score descending, then shortest matched term, then ID.
func Match(base *kb.KnowledgeBase, query string) []MatchCandidate {
	normQuery := stringutil.Normalize(query)
	tokens := stringutil.ContentTokens(query)

	locations := base.Locations()
	candidates := make([]MatchCandidate, 0, 4)

	for i := range locations {
		loc := &locations[i]

		score := 0
		var matched []string
		for _, token := range tokens {
			if loc.HasToken(token) {
				score++
				matched = append(matched, token)
			}
		}

		if bonus, phrase := phraseBonus(normQuery, loc); bonus > 0 {
			score += bonus
			matched = append(matched, phrase)
		}

		if score == 0 {
			continue
		}
		candidates = append(candidates, MatchCandidate{
			LocationID:   loc.ID,
			MatchedTerms: matched,
			Score:        score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		si, sj := shortestTerm(candidates[i]), shortestTerm(candidates[j])
		if si != sj {
			return si < sj
		}
		return candidates[i].LocationID < candidates[j].LocationID
	})

	return candidates
}

// phraseBonus returns the strongest whole-phrase hit for a location. The
// full building name beats an alias or service name.
func phraseBonus(normQuery string, loc *kb.Location) (int, string) {
	if stringutil.ContainsPhrase(normQuery, loc.NormName()) {
		return nameBonus, loc.NormName()
	}
	for _, phrase := range loc.AltPhrases() {
		if stringutil.ContainsPhrase(normQuery, phrase) {
			return aliasBonus, phrase
		}
	}
	return 0, ""
}

func shortestTerm(c MatchCandidate) int {
	shortest := -1
	for _, term := range c.MatchedTerms {
		if shortest == -1 || len(term) < shortest {
			shortest = len(term)
		}
	}
	return shortest
}

// FilterQualified keeps only candidates strong enough to answer with.
func FilterQualified(candidates []MatchCandidate) []MatchCandidate {
	qualified := make([]MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= minCandidateScore {
			qualified = append(qualified, c)
		}
	}
	return qualified
}

// routeVerbs are phrases that mark a query as a navigation request even
// without an explicit origin and destination pair.
var routeVerbs = []string{"directions", "navigate", "show route", "take me to"}

// IsRouteQuery reports whether the query asks for a route between or to
// campus locations.
func IsRouteQuery(query string) bool {
	q := stringutil.Normalize(query)

	if strings.Contains(q, "from ") && strings.Contains(q, " to ") {
		return true
	}
	if strings.Contains(q, "between ") && strings.Contains(q, " and ") {
		return true
	}
	for _, verb := range routeVerbs {
		if stringutil.ContainsPhrase(q, verb) {
			return true
		}
	}
	return false
}
