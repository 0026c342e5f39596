// Package eval runs the student support evaluation corpus against the
// query resolution engine and reports per-category pass rates.
//
// The corpus runs with the generative fallback disabled: it measures the
// deterministic pipeline, which has to stay trustworthy on its own.
package eval

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campushub/concierge-go/internal/concierge"
)

// evalConcurrency caps how many corpus groups resolve at once.
const evalConcurrency = 4

//go:embed student_support_eval_set.json
var embeddedCorpus []byte

// Group is a named category with its evaluation queries.
type Group struct {
	Category string   `json:"category"`
	Queries  []string `json:"queries"`
}

// Corpus is a versioned evaluation query set.
type Corpus struct {
	Version  string  `json:"version"`
	Language string  `json:"language"`
	Groups   []Group `json:"groups"`
}

// Expectation is the set of acceptable intents and actions for a query.
type Expectation struct {
	Intents []concierge.Intent `json:"intents"`
	Actions []concierge.Action `json:"actions"`
}

// QueryResult is the outcome of a single evaluated query.
type QueryResult struct {
	Category   string           `json:"category"`
	Query      string           `json:"query"`
	Intent     concierge.Intent `json:"intent"`
	Action     concierge.Action `json:"action"`
	Expected   Expectation      `json:"expected"`
	IntentPass bool             `json:"intent_pass"`
	ActionPass bool             `json:"action_pass"`
}

// FullPass reports whether both the intent and action checks passed.
func (r QueryResult) FullPass() bool {
	return r.IntentPass && r.ActionPass
}

// Report summarizes an evaluation run.
type Report struct {
	Version      string        `json:"version"`
	Language     string        `json:"language"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Total        int           `json:"total"`
	IntentPassed int           `json:"intent_passed"`
	ActionPassed int           `json:"action_passed"`
	FullPassed   int           `json:"full_passed"`
	Results      []QueryResult `json:"results"`
}

// Passed reports whether every query passed both checks.
func (r *Report) Passed() bool {
	return r.FullPassed == r.Total
}

// Failures returns the results that did not fully pass.
func (r *Report) Failures() []QueryResult {
	failures := make([]QueryResult, 0)
	for _, result := range r.Results {
		if !result.FullPass() {
			failures = append(failures, result)
		}
	}
	return failures
}

// categoryExpectations maps each corpus category to its acceptable
// intent and action sets.
var categoryExpectations = map[string]Expectation{
	"admissions_onboarding": {
		Intents: []concierge.Intent{concierge.IntentProcessHowto, concierge.IntentOfficeLookup, concierge.IntentEscalation},
		Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
	"registration_and_records": {
		Intents: []concierge.Intent{concierge.IntentProcessHowto, concierge.IntentOfficeLookup, concierge.IntentPolicyQuery},
		Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
	"library": {
		Intents: []concierge.Intent{concierge.IntentPolicyQuery, concierge.IntentServiceLookup, concierge.IntentLocationLookup},
		Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
	"hostel_and_food": {
		Intents: []concierge.Intent{concierge.IntentServiceLookup, concierge.IntentOfficeLookup, concierge.IntentLocationLookup},
		Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
	"student_services": {
		Intents: []concierge.Intent{concierge.IntentServiceLookup, concierge.IntentOfficeLookup, concierge.IntentLocationLookup},
		Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
	"notices_and_deadlines": {
		Intents: []concierge.Intent{concierge.IntentDeadlineQuery, concierge.IntentOfficeLookup, concierge.IntentPolicyQuery},
		Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
	"student_organizations": {
		Intents: []concierge.Intent{concierge.IntentLocationLookup, concierge.IntentOfficeLookup, concierge.IntentServiceLookup},
		Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
	"navigation_and_route": {
		Intents: []concierge.Intent{concierge.IntentRouteNavigation, concierge.IntentLocationLookup},
		Actions: []concierge.Action{concierge.ActionShowRoute, concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
	"emergency_and_escalation": {
		Intents: []concierge.Intent{concierge.IntentEscalation, concierge.IntentOfficeLookup},
		Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
	},
}

// ExpectedFor returns the expectation for a query in a category. A
// navigation query that looks like an explicit route request tightens
// to route intent and action only.
func ExpectedFor(category, query string) Expectation {
	base, ok := categoryExpectations[category]
	if !ok {
		return Expectation{
			Intents: []concierge.Intent{concierge.IntentUnknown},
			Actions: []concierge.Action{concierge.ActionShowLocation, concierge.ActionShowMultipleLocations},
		}
	}

	if category == "navigation_and_route" && concierge.IsRouteQuery(query) {
		return Expectation{
			Intents: []concierge.Intent{concierge.IntentRouteNavigation},
			Actions: []concierge.Action{concierge.ActionShowRoute},
		}
	}

	return base
}

// LoadCorpus parses the embedded evaluation query set.
func LoadCorpus() (*Corpus, error) {
	return parseCorpus(embeddedCorpus)
}

// LoadCorpusFromFile parses an evaluation query set from disk.
func LoadCorpusFromFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return parseCorpus(data)
}

func parseCorpus(data []byte) (*Corpus, error) {
	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	if len(corpus.Groups) == 0 {
		return nil, fmt.Errorf("corpus has no groups")
	}
	return &corpus, nil
}

// Runner evaluates a corpus against an engine.
type Runner struct {
	engine *concierge.Engine
}

// NewRunner creates an evaluation runner.
func NewRunner(engine *concierge.Engine) *Runner {
	return &Runner{engine: engine}
}

// Run resolves every corpus query deterministically and scores the
// results against the category expectations. Groups run concurrently;
// the report keeps the corpus order.
func (r *Runner) Run(ctx context.Context, corpus *Corpus) (*Report, error) {
	groupResults := make([][]QueryResult, len(corpus.Groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(evalConcurrency)

	for i, group := range corpus.Groups {
		g.Go(func() error {
			results := make([]QueryResult, 0, len(group.Queries))
			for _, query := range group.Queries {
				resp, err := r.engine.Resolve(ctx, query, concierge.Options{AllowLLM: false})
				if err != nil {
					return fmt.Errorf("resolve %q: %w", query, err)
				}

				expected := ExpectedFor(group.Category, query)
				results = append(results, QueryResult{
					Category:   group.Category,
					Query:      query,
					Intent:     resp.Intent,
					Action:     resp.Action,
					Expected:   expected,
					IntentPass: slices.Contains(expected.Intents, resp.Intent),
					ActionPass: slices.Contains(expected.Actions, resp.Action),
				})
			}
			groupResults[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Version:     corpus.Version,
		Language:    corpus.Language,
		GeneratedAt: time.Now().UTC(),
		Results:     make([]QueryResult, 0, len(corpus.Groups)*3),
	}

	for _, results := range groupResults {
		for _, result := range results {
			report.Total++
			if result.IntentPass {
				report.IntentPassed++
			}
			if result.ActionPass {
				report.ActionPassed++
			}
			if result.FullPass() {
				report.FullPassed++
			}
			report.Results = append(report.Results, result)
		}
	}

	return report, nil
}
