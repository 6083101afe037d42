// Package orchestrator provides E2E pipeline orchestration.
// It coordinates: ingestion → normalization → features → scoring → reporting
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/features"
	"wallet-credit-lab/internal/ingestion"
	"wallet-credit-lab/internal/normalization"
	"wallet-credit-lab/internal/observability"
	"wallet-credit-lab/internal/reporting"
	"wallet-credit-lab/internal/scoring"
	"wallet-credit-lab/internal/storage"
)

// Orchestrator coordinates the E2E pipeline execution.
// Flow: load → normalize → aggregate features → score → export
type Orchestrator struct {
	// Optional sinks
	scoreStore  storage.WalletScoreStore
	recordStore storage.ActionRecordStore

	// Options
	metrics *observability.Metrics
	verbose bool
	clock   func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Optional sinks. When nil the corresponding persistence phase is skipped.
	ScoreStore  storage.WalletScoreStore
	RecordStore storage.ActionRecordStore

	// Options
	Metrics *observability.Metrics
	Verbose bool
	Clock   func() time.Time
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Orchestrator{
		scoreStore:  opts.ScoreStore,
		recordStore: opts.RecordStore,
		metrics:     opts.Metrics,
		verbose:     opts.Verbose,
		clock:       clock,
	}
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	RecordsLoaded     int
	RecordsNormalized int
	SkippedRows       int
	InvalidTimestamps int
	WalletsScored     int
	WalletColumn      string
	Scored            []domain.ScoredWallet
	Errors            []string
}

// Run executes the full pipeline on the file at inputPath and writes the
// scored table to outputPath. When summaryPath is non-empty a Markdown
// summary is written alongside.
// Phases:
//  1. Load raw records
//  2. Normalize into canonical action records
//  3. Aggregate per-wallet features
//  4. Score and label each wallet
//  5. Export CSV (and optional summary), persist to configured sinks
func (o *Orchestrator) Run(ctx context.Context, inputPath, outputPath, summaryPath string) (*RunResult, error) {
	start := o.clock()
	result := &RunResult{}

	// Phase 1: Load
	o.log("Phase 1: Loading records from %s...", inputPath)
	raw, err := ingestion.LoadRecords(inputPath)
	if err != nil {
		o.recordRun("error", start)
		return nil, fmt.Errorf("phase 1 (load) failed: %w", err)
	}
	result.RecordsLoaded = len(raw)
	o.log("  Loaded %d raw records", len(raw))
	if o.metrics != nil {
		o.metrics.RecordsLoaded.Add(float64(len(raw)))
	}

	// Phase 2: Normalization
	o.log("Phase 2: Normalizing records...")
	norm, err := normalization.Normalize(raw)
	if err != nil {
		o.recordRun("error", start)
		return nil, fmt.Errorf("phase 2 (normalization) failed: %w", err)
	}
	result.RecordsNormalized = len(norm.Records)
	result.SkippedRows = norm.SkippedRows
	result.InvalidTimestamps = norm.InvalidTimes
	result.WalletColumn = norm.WalletColumn
	o.log("  Wallet column: %q, amount column: %q", norm.WalletColumn, norm.AmountColumn)
	o.log("  Normalized %d records (%d skipped, %d invalid timestamps)",
		len(norm.Records), norm.SkippedRows, norm.InvalidTimes)
	o.observeNormalization(norm)

	// Phase 3: Feature aggregation
	o.log("Phase 3: Aggregating wallet features...")
	feats := features.Aggregate(norm.Records)
	o.log("  Aggregated features for %d wallets", len(feats))

	// Phase 4: Scoring
	o.log("Phase 4: Scoring wallets...")
	scored := make([]domain.ScoredWallet, 0, len(feats))
	for _, f := range feats {
		score := scoring.Score(f)
		label := scoring.Label(score)
		scored = append(scored, domain.ScoredWallet{
			WalletID:    f.WalletID,
			CreditScore: score,
			RiskLabel:   label,
		})
		if o.metrics != nil {
			o.metrics.RecordScore(score, string(label))
		}
	}
	result.WalletsScored = len(scored)
	result.Scored = scored
	o.log("  Scored %d wallets", len(scored))

	// Phase 5: Export and persistence
	o.log("Phase 5: Exporting results...")
	if err := os.WriteFile(outputPath, []byte(reporting.RenderCSV(scored)), 0o644); err != nil {
		o.recordRun("error", start)
		return nil, fmt.Errorf("phase 5 (export) failed: %w", err)
	}
	o.log("  Wrote %s", outputPath)

	if summaryPath != "" {
		summary := reporting.Summarize(scored, o.clock())
		if err := os.WriteFile(summaryPath, []byte(reporting.RenderSummaryMarkdown(summary)), 0o644); err != nil {
			o.recordRun("error", start)
			return nil, fmt.Errorf("phase 5 (summary) failed: %w", err)
		}
		o.log("  Wrote %s", summaryPath)
	}

	result.Errors = append(result.Errors, o.persist(ctx, norm.Records, scored)...)

	o.recordRun("success", start)
	o.log("Pipeline completed: %d records in, %d wallets scored",
		result.RecordsLoaded, result.WalletsScored)

	return result, nil
}

// persist writes records and scores to the configured sinks. Duplicate keys
// are expected on re-runs and skipped silently.
func (o *Orchestrator) persist(ctx context.Context, records []domain.ActionRecord, scored []domain.ScoredWallet) []string {
	var errs []string

	if o.recordStore != nil && len(records) > 0 {
		batch := make([]*domain.ActionRecord, len(records))
		for i := range records {
			r := records[i]
			batch[i] = &r
		}
		if err := o.recordStore.InsertBulk(ctx, batch); err != nil {
			errs = append(errs, fmt.Sprintf("persist action records: %v", err))
		} else {
			o.log("  Persisted %d action records", len(batch))
		}
	}

	if o.scoreStore != nil {
		persisted := 0
		for i := range scored {
			if err := o.scoreStore.Insert(ctx, &scored[i]); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					continue
				}
				errs = append(errs, fmt.Sprintf("persist score %s: %v", scored[i].WalletID, err))
				continue
			}
			persisted++
		}
		o.log("  Persisted %d wallet scores", persisted)
	}

	return errs
}

func (o *Orchestrator) observeNormalization(norm *normalization.Result) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordsNormalized.Add(float64(len(norm.Records)))
	o.metrics.RowsSkipped.Add(float64(norm.SkippedRows))
	o.metrics.InvalidTimestamps.Add(float64(norm.InvalidTimes))
	for format, n := range norm.WalletFormats {
		o.metrics.WalletFormatsDetected.WithLabelValues(string(format)).Add(float64(n))
	}
}

func (o *Orchestrator) recordRun(status string, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordPipelineRun(status, o.clock().Sub(start).Seconds())
	if status == "success" {
		o.metrics.LastSuccessfulRun.Set(float64(o.clock().Unix()))
	}
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
