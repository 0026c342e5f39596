package eval

import (
	"context"
	"testing"

	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/kb"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	base, err := kb.Load()
	if err != nil {
		t.Fatalf("kb.Load() error = %v", err)
	}
	return NewRunner(concierge.NewEngine(base, nil, nil, nil))
}

func TestLoadCorpus(t *testing.T) {
	corpus, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	if len(corpus.Groups) != 9 {
		t.Errorf("groups = %d, want 9", len(corpus.Groups))
	}
	for _, group := range corpus.Groups {
		if len(group.Queries) == 0 {
			t.Errorf("category %s has no queries", group.Category)
		}
		if _, ok := categoryExpectations[group.Category]; !ok {
			t.Errorf("category %s has no expectations", group.Category)
		}
	}
}

func TestExpectedForRouteOverride(t *testing.T) {
	got := ExpectedFor("navigation_and_route", "navigate to the health center")

	if len(got.Intents) != 1 || got.Intents[0] != concierge.IntentRouteNavigation {
		t.Errorf("route override intents = %v, want route_navigation only", got.Intents)
	}
	if len(got.Actions) != 1 || got.Actions[0] != concierge.ActionShowRoute {
		t.Errorf("route override actions = %v, want show_route only", got.Actions)
	}
}

func TestExpectedForUnknownCategory(t *testing.T) {
	got := ExpectedFor("made_up_category", "anything")

	if len(got.Intents) != 1 || got.Intents[0] != concierge.IntentUnknown {
		t.Errorf("unknown category intents = %v, want unknown only", got.Intents)
	}
}

func TestRunFullCorpusPasses(t *testing.T) {
	corpus, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	report, err := newRunner(t).Run(context.Background(), corpus)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Total == 0 {
		t.Fatal("report has no results")
	}
	if !report.Passed() {
		for _, failure := range report.Failures() {
			t.Errorf("[%s] %q -> intent=%s action=%s (expected intents %v actions %v)",
				failure.Category, failure.Query, failure.Intent, failure.Action,
				failure.Expected.Intents, failure.Expected.Actions)
		}
	}
	if report.FullPassed != report.Total {
		t.Errorf("full passed = %d/%d", report.FullPassed, report.Total)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	corpus, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	runner := newRunner(t)

	first, err := runner.Run(context.Background(), corpus)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := runner.Run(context.Background(), corpus)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if first.FullPassed != second.FullPassed || first.Total != second.Total {
		t.Errorf("runs disagree: %d/%d vs %d/%d", first.FullPassed, first.Total, second.FullPassed, second.Total)
	}
	for i := range first.Results {
		if first.Results[i].Intent != second.Results[i].Intent || first.Results[i].Action != second.Results[i].Action {
			t.Errorf("result %d differs between runs", i)
		}
	}
}
