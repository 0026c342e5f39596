// Package stringutil provides text normalization shared by the
// knowledge base loader and the deterministic matcher. Both sides
// must agree on one canonical form so lookups stay token-order-insensitive.
package stringutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, folds compatibility characters to their plain
// form (NFKC, so full-width digits and ligatures match their ASCII
// equivalents), replaces punctuation with spaces, and collapses runs of
// whitespace into single spaces.
func Normalize(s string) string {
	folded := norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits s into normalized tokens.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// stopwords carry no lexical evidence for a location. If they were
// indexed, "the" or "on" in a description would count toward a match
// score the same as "registrar".
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "can": {}, "could": {},
	"do": {}, "does": {}, "each": {}, "for": {}, "from": {},
	"get": {}, "go": {}, "has": {}, "have": {}, "how": {},
	"i": {}, "if": {}, "in": {}, "is": {}, "it": {}, "its": {},
	"may": {}, "me": {}, "my": {}, "near": {}, "now": {},
	"of": {}, "on": {}, "or": {}, "our": {},
	"so": {}, "some": {}, "that": {}, "the": {}, "their": {},
	"there": {}, "this": {}, "to": {}, "was": {}, "we": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// IsStopword reports whether the normalized token is a function word
// excluded from lexical matching.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// ContentTokens returns the distinct normalized tokens of s with
// stopwords removed, preserving first-seen order.
func ContentTokens(s string) []string {
	tokens := DistinctTokens(s)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// DistinctTokens returns the normalized tokens of s with duplicates
// removed, preserving first-seen order. Order stability matters: matcher
// output must be byte-identical across calls with the same input.
func DistinctTokens(s string) []string {
	tokens := Tokenize(s)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// ContainsPhrase reports whether phrase occurs in text on word
// boundaries. Both arguments must already be in Normalize form.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" || text == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
