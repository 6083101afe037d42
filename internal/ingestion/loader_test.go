package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTempFile writes content to a file under t.TempDir and returns its path.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadRecords_JSONArray(t *testing.T) {
	path := writeTempFile(t, "txns.json", `[
		{"userWallet": "w1", "action": "deposit", "actionData": {"amount": "100"}},
		{"userWallet": "w2", "action": "borrow"}
	]`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["userWallet"] != "w1" {
		t.Errorf("expected userWallet w1, got %v", records[0]["userWallet"])
	}
}

func TestLoadRecords_JSONWrappedList(t *testing.T) {
	path := writeTempFile(t, "txns.json", `{"transactions": [{"user": "w1", "action": "repay"}]}`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestLoadRecords_JSONWrappedList_FirstKeyWins(t *testing.T) {
	// "data" precedes "records" in the envelope key order.
	path := writeTempFile(t, "txns.json", `{
		"records": [{"user": "late"}],
		"data": [{"user": "early"}]
	}`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0]["user"] != "early" {
		t.Fatalf("expected the data list to win, got %v", records)
	}
}

func TestLoadRecords_JSONObjectWithoutList(t *testing.T) {
	path := writeTempFile(t, "txns.json", `{"meta": {"count": 3}}`)

	_, err := LoadRecords(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadRecords_JSONSkipsNonObjectEntries(t *testing.T) {
	path := writeTempFile(t, "txns.json", `[{"user": "w1"}, 42, "noise", {"user": "w2"}]`)

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 usable records, got %d", len(records))
	}
}

func TestLoadRecords_CSV(t *testing.T) {
	path := writeTempFile(t, "txns.csv", "wallet_id,action,amount,timestamp\nw1,deposit,50,1700000000\nw1,borrow,25,1700086400\n")

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1]["action"] != "borrow" {
		t.Errorf("expected action borrow, got %v", records[1]["action"])
	}
}

func TestLoadRecords_CSVRaggedRow(t *testing.T) {
	path := writeTempFile(t, "txns.csv", "wallet_id,action,amount\nw1,deposit\n")

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if _, ok := records[0]["amount"]; ok {
		t.Errorf("expected missing amount cell to stay absent, got %v", records[0]["amount"])
	}
}

func TestLoadRecords_PathMissing(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadRecords_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "txns.parquet", "binary")

	_, err := LoadRecords(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
