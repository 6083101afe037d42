// Package main provides the batch scoring entry point.
// Executes: ingestion → normalization → features → scoring → reporting
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wallet-credit-lab/internal/observability"
	"wallet-credit-lab/internal/orchestrator"
	chstore "wallet-credit-lab/internal/storage/clickhouse"
	"wallet-credit-lab/internal/storage/migrations"
	pgstore "wallet-credit-lab/internal/storage/postgres"
)

func main() {
	// .env is optional; flags and real env vars win
	_ = godotenv.Load()

	// Parse flags
	input := flag.String("input", "", "Input ledger file (.json or .csv)")
	output := flag.String("output", "scores.csv", "Output CSV path")
	summary := flag.String("summary", "", "Optional Markdown summary path")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for the score sink (empty to disable)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for the record archive (empty to disable)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(1)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

	opts := orchestrator.Options{Verbose: *verbose}

	// Metrics server if enabled
	if *metricsAddr != "" {
		opts.Metrics = observability.NewMetrics("")
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
			}
		}()
	}

	// Optional PostgreSQL score sink
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Error running PostgreSQL migrations: %v\n", err)
			os.Exit(1)
		}
		opts.ScoreStore = pgstore.NewWalletScoreStore(pool)
	}

	// Optional ClickHouse record archive
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error preparing ClickHouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		opts.RecordStore = chstore.NewActionRecordStore(conn)
	}

	orch := orchestrator.New(opts)
	result, err := orch.Run(ctx, *input, *output, *summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scoring completed:\n")
	fmt.Printf("  Records loaded:  %d\n", result.RecordsLoaded)
	fmt.Printf("  Normalized:      %d (%d skipped, %d invalid timestamps)\n",
		result.RecordsNormalized, result.SkippedRows, result.InvalidTimestamps)
	fmt.Printf("  Wallets scored:  %d\n", result.WalletsScored)
	fmt.Printf("  Output:          %s\n", *output)
	if *summary != "" {
		fmt.Printf("  Summary:         %s\n", *summary)
	}
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
}
