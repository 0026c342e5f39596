// Package main runs the student support evaluation corpus against the
// deterministic resolution pipeline and reports per-category results.
// It exits non-zero when any query misses its expected intent or action,
// so it can gate CI and deploys.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/campushub/concierge-go/internal/concierge"
	"github.com/campushub/concierge-go/internal/config"
	"github.com/campushub/concierge-go/internal/eval"
	"github.com/campushub/concierge-go/internal/kb"
	"github.com/campushub/concierge-go/internal/logger"
	"github.com/campushub/concierge-go/internal/metrics"
	"github.com/campushub/concierge-go/internal/r2client"
)

func main() {
	corpusPath := flag.String("corpus", "", "path to an evaluation corpus JSON file (default: embedded corpus)")
	reportPath := flag.String("report", "", "write the full JSON report to this file")
	archive := flag.Bool("archive", false, "upload the report to the configured R2 bucket")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	base, err := loadKnowledgeBase(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to load knowledge base")
	}

	corpus, err := loadCorpus(*corpusPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load evaluation corpus")
	}

	// The corpus measures the deterministic pipeline only, so the engine
	// runs without a fallback resolver.
	engine := concierge.NewEngine(base, nil, metrics.New(prometheus.NewRegistry()), log)
	runner := eval.NewRunner(engine)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := runner.Run(ctx, corpus)
	if err != nil {
		log.WithError(err).Fatal("Evaluation run failed")
	}

	printReport(report)

	if *reportPath != "" {
		if err := writeReport(*reportPath, report); err != nil {
			log.WithError(err).Fatal("Failed to write report file")
		}
		fmt.Printf("\nReport written to %s\n", *reportPath)
	}

	if *archive {
		if !cfg.HasR2() {
			log.Fatal("R2 archive requested but credentials are not configured")
		}
		key, err := archiveReport(ctx, cfg, report)
		if err != nil {
			log.WithError(err).Fatal("Failed to archive report")
		}
		fmt.Printf("Report archived to r2://%s/%s\n", cfg.R2BucketName, key)
	}

	if !report.Passed() {
		os.Exit(1)
	}
}

func loadKnowledgeBase(cfg *config.Config) (*kb.KnowledgeBase, error) {
	if cfg.KnowledgeBasePath != "" {
		return kb.LoadFromFile(cfg.KnowledgeBasePath)
	}
	return kb.Load()
}

func loadCorpus(path string) (*eval.Corpus, error) {
	if path != "" {
		return eval.LoadCorpusFromFile(path)
	}
	return eval.LoadCorpus()
}

// printReport renders per-query results grouped by category, then a
// summary line.
func printReport(report *eval.Report) {
	fmt.Printf("Student Support Evaluation (corpus %s, %s)\n", report.Version, report.Language)
	fmt.Println("==================================================")

	category := ""
	for _, result := range report.Results {
		if result.Category != category {
			category = result.Category
			fmt.Printf("\n[%s]\n", category)
		}

		status := "PASS"
		if !result.FullPass() {
			status = "FAIL"
		}
		fmt.Printf("  %s  %q -> intent=%s action=%s\n", status, result.Query, result.Intent, result.Action)

		if !result.IntentPass {
			fmt.Printf("        expected intent in %v\n", result.Expected.Intents)
		}
		if !result.ActionPass {
			fmt.Printf("        expected action in %v\n", result.Expected.Actions)
		}
	}

	fmt.Printf("\nSummary: %d/%d passed (intent %d, action %d)\n",
		report.FullPassed, report.Total, report.IntentPassed, report.ActionPassed)

	if failures := report.Failures(); len(failures) > 0 {
		fmt.Printf("Failures: %d\n", len(failures))
	}
}

func writeReport(path string, report *eval.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// archiveReport uploads the compressed report keyed by generation time.
func archiveReport(ctx context.Context, cfg *config.Config, report *eval.Report) (string, error) {
	client, err := r2client.New(ctx, r2client.Config{
		AccountID:   cfg.R2AccountID,
		AccessKeyID: cfg.R2AccessKeyID,
		SecretKey:   cfg.R2SecretAccessKey,
		BucketName:  cfg.R2BucketName,
	})
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("eval-reports/%s/%s.json.zst",
		report.Version,
		report.GeneratedAt.UTC().Format("2006-01-02T15-04-05Z"),
	)

	if _, err := client.UploadCompressedJSON(ctx, key, report); err != nil {
		return "", err
	}
	return key, nil
}
