package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"equityscore/pkg/core/config"
	"equityscore/pkg/core/dcf"
	"equityscore/pkg/core/pipeline"
	"equityscore/pkg/core/report"
	"equityscore/pkg/core/rules"
	"equityscore/pkg/core/scorecard"
	"equityscore/pkg/core/store"
	"equityscore/pkg/logger"
	"equityscore/pkg/provider"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	tickers := flag.String("tickers", "", "comma-separated tickers to screen")
	tickerFile := flag.String("file", "", "file with one ticker per line")
	outCSV := flag.String("out", "", "write results to this CSV file")
	reportDir := flag.String("reports", "", "write per-ticker Markdown reports to this directory")
	save := flag.Bool("save", false, "persist analyses to the database")
	flag.Parse()

	list, err := tickerList(*tickers, *tickerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no tickers given (use -tickers or -file)")
		os.Exit(1)
	}

	// Load falls back to the built-in defaults when the file is unusable.
	cfg, err := config.Load(*configPath)
	log := logger.New(cfg.LogLevel, true)
	if err != nil {
		log.Warn().Err(err).Msg("config file not loaded, using defaults")
	}

	registry := rules.DefaultRegistry()
	if cfg.RuleTables != "" {
		if err := registry.LoadHJSON(cfg.RuleTables); err != nil {
			log.Fatal().Err(err).Str("path", cfg.RuleTables).Msg("failed to load rule tables")
		}
	}
	scenarios := cfg.Scenarios
	if len(scenarios) == 0 {
		scenarios = dcf.DefaultScenarios()
	}

	analyzer := pipeline.NewAnalyzer(buildProvider(cfg), registry, scenarios, cfg.Currency, log)

	if *save {
		if cfg.DatabaseURL == "" {
			log.Fatal().Msg("-save requires DATABASE_URL")
		}
		if err := store.InitDB(context.Background(), cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("database init failed")
		}
		defer store.Close()
		analyzer.SetRepository(store.NewScorecardRepo())
	}

	result := analyzer.RunBatch(context.Background(), list)

	printSummary(result)

	if *outCSV != "" {
		if err := writeCSV(*outCSV, result.Analyses); err != nil {
			log.Fatal().Err(err).Msg("failed to write CSV")
		}
		fmt.Printf("\nResults written to %s\n", *outCSV)
	}

	if *reportDir != "" {
		if err := writeReports(*reportDir, result.Analyses); err != nil {
			log.Fatal().Err(err).Msg("failed to write reports")
		}
		fmt.Printf("Reports written to %s\n", *reportDir)
	}

	if len(result.Failures) > 0 {
		os.Exit(1)
	}
}

func buildProvider(cfg config.Config) provider.Provider {
	if cfg.Provider.FixtureDir != "" {
		return provider.NewDirProvider(cfg.Provider.FixtureDir)
	}
	return provider.NewHTTPProvider(cfg.Provider.BaseURL, cfg.Provider.RequestsPerSecond, cfg.Provider.CacheDir)
}

func tickerList(csvArg, filePath string) ([]string, error) {
	var list []string
	for _, t := range strings.Split(csvArg, ",") {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, strings.ToUpper(t))
		}
	}

	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if t := strings.TrimSpace(scanner.Text()); t != "" && !strings.HasPrefix(t, "#") {
				list = append(list, strings.ToUpper(t))
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func printSummary(result pipeline.BatchResult) {
	sorted := make([]*scorecard.Analysis, len(result.Analyses))
	copy(sorted, result.Analyses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Scorecard.Total > sorted[j].Scorecard.Total
	})

	fmt.Println("\n================================================================================")
	fmt.Printf("                    EQUITY SCREEN RESULTS  (run %s)\n", result.RunID)
	fmt.Println("================================================================================")
	fmt.Printf("%-8s | %6s | %-10s | %-8s | %-13s | %s\n",
		"Ticker", "Score", "Moat", "Health", "Valuation", "Recommendation")
	fmt.Println(strings.Repeat("-", 80))

	for _, a := range sorted {
		if !a.Scorecard.Analyzable {
			fmt.Printf("%-8s | %6s | %-10s | %-8s | %-13s | %s\n",
				a.Ticker, "-", "-", "-", "-", a.Scorecard.Recommendation)
			continue
		}
		fmt.Printf("%-8s | %6.1f | %-10s | %-8s | %-13s | %s\n",
			a.Ticker, a.Scorecard.Total, a.Moat.Rating, a.Health.Rating,
			a.Scorecard.ValuationAssessment, a.Scorecard.Recommendation)
	}

	for ticker, err := range result.Failures {
		fmt.Printf("%-8s | FAILED: %v\n", ticker, err)
	}
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("Analyzed %d, failed %d\n", len(result.Analyses), len(result.Failures))
}

func writeCSV(path string, analyses []*scorecard.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"ticker", "score", "recommendation", "confidence",
		"quality_points", "moat_rating", "health_rating", "red_flags",
		"valuation_assessment", "margin_of_safety", "dcf_verdict",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, a := range analyses {
		row := []string{
			a.Ticker,
			fmt.Sprintf("%.2f", a.Scorecard.Total),
			a.Scorecard.Recommendation,
			a.Scorecard.Confidence,
			fmt.Sprintf("%.2f", a.Scorecard.Breakdown.Quality),
			a.Moat.Rating,
			a.Health.Rating,
			fmt.Sprintf("%d", len(a.Health.RedFlags)),
			a.Scorecard.ValuationAssessment,
			fmt.Sprintf("%.1f", a.Valuation.MarginOfSafety),
			a.Valuation.Verdict,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeReports(dir string, analyses []*scorecard.Analysis) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, a := range analyses {
		path := filepath.Join(dir, a.Ticker+".md")
		if err := os.WriteFile(path, []byte(report.Markdown(a)), 0644); err != nil {
			return err
		}
	}
	return nil
}
