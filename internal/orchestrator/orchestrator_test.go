// Package orchestrator provides E2E pipeline orchestration tests.
package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wallet-credit-lab/internal/ingestion"
	"wallet-credit-lab/internal/normalization"
	"wallet-credit-lab/internal/storage/memory"
)

const sampleLedger = `[
	{"wallet_id": "w1", "action": "deposit", "actionData": {"amount": 100}, "timestamp": 1700000000},
	{"wallet_id": "w1", "action": "deposit", "actionData": {"amount": 100}, "timestamp": 1700000100},
	{"wallet_id": "w1", "action": "borrow", "actionData": {"amount": 50}, "timestamp": 1700100000},
	{"wallet_id": "w1", "action": "repay", "actionData": {"amount": 50}, "timestamp": 1700100100}
]`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestOrchestrator_Run_EndToEnd(t *testing.T) {
	ctx := context.Background()
	input := writeInput(t, "ledger.json", sampleLedger)
	output := filepath.Join(t.TempDir(), "scores.csv")

	recordStore := memory.NewActionRecordStore()
	scoreStore := memory.NewWalletScoreStore()

	orch := New(Options{
		ScoreStore:  scoreStore,
		RecordStore: recordStore,
	})

	result, err := orch.Run(ctx, input, output, "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.RecordsLoaded != 4 {
		t.Errorf("expected 4 records loaded, got %d", result.RecordsLoaded)
	}
	if result.RecordsNormalized != 4 {
		t.Errorf("expected 4 records normalized, got %d", result.RecordsNormalized)
	}
	if result.WalletsScored != 1 {
		t.Errorf("expected 1 wallet scored, got %d", result.WalletsScored)
	}
	if result.WalletColumn != "wallet_id" {
		t.Errorf("expected wallet column wallet_id, got %q", result.WalletColumn)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no persistence errors, got %v", result.Errors)
	}

	// 300 base, +16 deposit activity, +60 repayment, +4 engagement
	// (2 active days), +0.3 volume, truncated to 380.
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "wallet_id,credit_score,risk_label\nw1,380,Poor\n"
	if string(got) != want {
		t.Errorf("output mismatch:\n got: %q\nwant: %q", got, want)
	}

	// Sinks received the run.
	records, err := recordStore.GetByWallet(ctx, "w1")
	if err != nil {
		t.Fatalf("get records: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("expected 4 persisted records, got %d", len(records))
	}
	score, err := scoreStore.GetByWallet(ctx, "w1")
	if err != nil {
		t.Fatalf("get score: %v", err)
	}
	if score.CreditScore != 380 {
		t.Errorf("expected persisted score 380, got %d", score.CreditScore)
	}
}

func TestOrchestrator_Run_Idempotent(t *testing.T) {
	ctx := context.Background()
	input := writeInput(t, "ledger.json", sampleLedger)
	dir := t.TempDir()
	first := filepath.Join(dir, "run1.csv")
	second := filepath.Join(dir, "run2.csv")

	scoreStore := memory.NewWalletScoreStore()
	orch := New(Options{ScoreStore: scoreStore})

	res1, err := orch.Run(ctx, input, first, "")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	res2, err := orch.Run(ctx, input, second, "")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	out1, _ := os.ReadFile(first)
	out2, _ := os.ReadFile(second)
	if string(out1) != string(out2) {
		t.Errorf("runs not byte-identical:\n run1: %q\n run2: %q", out1, out2)
	}

	// Re-running against a populated score store must not surface
	// duplicate key errors.
	if len(res1.Errors) != 0 || len(res2.Errors) != 0 {
		t.Errorf("expected no errors, got %v / %v", res1.Errors, res2.Errors)
	}
}

func TestOrchestrator_Run_SchemaError(t *testing.T) {
	input := writeInput(t, "ledger.json", `[{"action": "deposit", "amount": 5}]`)
	output := filepath.Join(t.TempDir(), "scores.csv")

	orch := New(Options{})
	_, err := orch.Run(context.Background(), input, output, "")
	if err == nil {
		t.Fatal("expected schema error, got nil")
	}

	var schemaErr *normalization.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *normalization.SchemaError, got: %v", err)
	}

	// Nothing must be exported on a failed run.
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file, stat returned: %v", statErr)
	}
}

func TestOrchestrator_Run_EmptyInput(t *testing.T) {
	input := writeInput(t, "ledger.json", `[]`)
	output := filepath.Join(t.TempDir(), "scores.csv")

	orch := New(Options{})
	result, err := orch.Run(context.Background(), input, output, "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.WalletsScored != 0 {
		t.Errorf("expected 0 wallets, got %d", result.WalletsScored)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "wallet_id,credit_score,risk_label\n" {
		t.Errorf("expected header-only output, got %q", got)
	}
}

func TestOrchestrator_Run_MissingInput(t *testing.T) {
	output := filepath.Join(t.TempDir(), "scores.csv")

	orch := New(Options{})
	_, err := orch.Run(context.Background(), filepath.Join(t.TempDir(), "absent.json"), output, "")
	if !errors.Is(err, ingestion.ErrNotFound) {
		t.Fatalf("expected ingestion.ErrNotFound, got: %v", err)
	}
}

func TestOrchestrator_Run_WritesSummary(t *testing.T) {
	input := writeInput(t, "ledger.json", sampleLedger)
	dir := t.TempDir()
	output := filepath.Join(dir, "scores.csv")
	summary := filepath.Join(dir, "summary.md")

	orch := New(Options{})
	if _, err := orch.Run(context.Background(), input, output, summary); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if len(got) == 0 {
		t.Error("expected non-empty summary")
	}
}
