// Package main provides the streaming scoring entry point. It consumes raw
// ledger records over a WebSocket feed and periodically rescores the table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/features"
	"wallet-credit-lab/internal/ingestion"
	"wallet-credit-lab/internal/normalization"
	"wallet-credit-lab/internal/observability"
	"wallet-credit-lab/internal/reporting"
	"wallet-credit-lab/internal/scoring"
)

func main() {
	_ = godotenv.Load()

	wsURL := flag.String("ws-url", os.Getenv("STREAM_WS_URL"), "WebSocket endpoint for the raw ledger feed")
	batchSize := flag.Int("batch-size", 100, "Records per rescoring batch")
	output := flag.String("output", "scores.csv", "Output CSV path, rewritten after every batch")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := log.New(os.Stdout, "[stream] ", log.LstdFlags)

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("")
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	if *wsURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -ws-url is required")
		flag.Usage()
		os.Exit(1)
	}
	if *batchSize <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -batch-size must be positive")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	source, err := ingestion.NewWSRecordSource(ctx, *wsURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to %s: %v\n", *wsURL, err)
		os.Exit(1)
	}
	defer source.Close()

	records, err := source.Subscribe(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error subscribing: %v\n", err)
		os.Exit(1)
	}
	logger.Printf("Subscribed to %s", *wsURL)

	// The full raw history is kept so every rescore sees all actions per
	// wallet, not just the latest batch.
	var raw []map[string]any
	pending := 0

	flush := func() {
		if pending == 0 {
			return
		}
		if err := rescore(raw, *output, *verbose, logger); err != nil {
			logger.Printf("Rescore failed: %v", err)
			return
		}
		pending = 0
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			logger.Printf("Stopped after %d records", len(raw))
			return
		case rec, ok := <-records:
			if !ok {
				flush()
				logger.Printf("Feed closed after %d records", len(raw))
				return
			}
			raw = append(raw, rec)
			pending++
			if metrics != nil {
				metrics.StreamRecordsReceived.Inc()
			}
			if pending >= *batchSize {
				flush()
			}
		}
	}
}

// rescore runs the scoring pipeline over the accumulated raw records and
// rewrites the output table.
func rescore(raw []map[string]any, output string, verbose bool, logger *log.Logger) error {
	norm, err := normalization.Normalize(raw)
	if err != nil {
		return err
	}

	feats := features.Aggregate(norm.Records)
	scored := make([]domain.ScoredWallet, 0, len(feats))
	for _, f := range feats {
		score := scoring.Score(f)
		scored = append(scored, domain.ScoredWallet{
			WalletID:    f.WalletID,
			CreditScore: score,
			RiskLabel:   scoring.Label(score),
		})
	}

	if err := os.WriteFile(output, []byte(reporting.RenderCSV(scored)), 0o644); err != nil {
		return err
	}
	if verbose {
		logger.Printf("Rescored %d wallets from %d records (%d skipped, %d invalid timestamps)",
			len(scored), len(raw), norm.SkippedRows, norm.InvalidTimes)
	}
	return nil
}
