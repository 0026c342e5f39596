package concierge

import (
	"github.com/campushub/concierge-go/internal/stringutil"
)

// escalationPhrases flag queries that need a human responder. These are
// whole phrases, not bare tokens, so "wifi help desk" does not escalate.
var escalationPhrases = []string{
	"emergency",
	"urgent",
	"need help",
	"injured",
	"accident",
	"harassment",
	"unsafe",
	"danger",
	"fire",
}

var deadlinePhrases = []string{
	"deadline",
	"last date",
	"due date",
	"last day",
}

var policyTokens = []string{
	"policy", "policies", "rules", "rule", "allowed", "fine", "fines", "regulations",
}

var howtoTokens = []string{
	"how", "apply", "admission", "onboarding", "procedure", "steps", "enroll",
}

var officeTokens = []string{
	"office", "cell", "warden",
}

var serviceTokens = []string{
	"service", "services", "wifi", "printing", "laundry", "desk",
}

// Classify decides the intent and action for a query given its qualified
// match candidates. Escalation is checked before anything else, then
// navigation, then the topic categories from most to least specific.
func Classify(query string, qualified []MatchCandidate) Classification {
	normQuery := stringutil.Normalize(query)
	tokens := tokenSet(normQuery)

	if matchesAnyPhrase(normQuery, escalationPhrases) {
		// The engine substitutes campus security when nothing matched,
		// so an escalation is always answerable deterministically.
		return Classification{
			Intent:     IntentEscalation,
			Action:     actionForCount(len(qualified)),
			Confidence: ConfidenceHigh,
		}
	}

	if IsRouteQuery(query) {
		// Route phrasing wins regardless of how many endpoints resolved;
		// the normalizer downgrades the action when none did.
		return Classification{
			Intent:     IntentRouteNavigation,
			Action:     ActionShowRoute,
			Confidence: ConfidenceHigh,
		}
	}

	if len(qualified) == 0 {
		return Classification{
			Intent:     IntentUnknown,
			Action:     ActionShowLocation,
			Confidence: ConfidenceLow,
		}
	}

	intent := IntentLocationLookup
	switch {
	case matchesAnyPhrase(normQuery, deadlinePhrases):
		intent = IntentDeadlineQuery
	case hasAnyToken(tokens, policyTokens):
		intent = IntentPolicyQuery
	case hasAnyToken(tokens, howtoTokens):
		intent = IntentProcessHowto
	case hasAnyToken(tokens, officeTokens):
		intent = IntentOfficeLookup
	case hasAnyToken(tokens, serviceTokens):
		intent = IntentServiceLookup
	}

	return Classification{
		Intent:     intent,
		Action:     actionForCount(len(qualified)),
		Confidence: ConfidenceHigh,
	}
}

func actionForCount(n int) Action {
	if n >= 2 {
		return ActionShowMultipleLocations
	}
	return ActionShowLocation
}

func tokenSet(normQuery string) map[string]struct{} {
	tokens := stringutil.Tokenize(normQuery)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

func matchesAnyPhrase(normQuery string, phrases []string) bool {
	for _, phrase := range phrases {
		if stringutil.ContainsPhrase(normQuery, phrase) {
			return true
		}
	}
	return false
}

func hasAnyToken(set map[string]struct{}, tokens []string) bool {
	for _, token := range tokens {
		if _, ok := set[token]; ok {
			return true
		}
	}
	return false
}
