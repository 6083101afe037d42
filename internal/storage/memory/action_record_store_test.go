package memory

import (
	"context"
	"errors"
	"testing"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

func TestActionRecordStore_InsertBulkAndGetByWallet(t *testing.T) {
	store := NewActionRecordStore()
	ctx := context.Background()

	records := []*domain.ActionRecord{
		{WalletID: "w1", Action: "borrow", Amount: 20, Timestamp: 1700000100, TimestampValid: true},
		{WalletID: "w2", Action: "deposit", Amount: 5, Timestamp: 1700000000, TimestampValid: true},
		{WalletID: "w1", Action: "deposit", Amount: 50, Timestamp: 1700000000, TimestampValid: true},
		{WalletID: "w1", Action: "repay"},
	}

	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByWallet(ctx, "w1")
	if err != nil {
		t.Fatalf("GetByWallet failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(result))
	}

	// Invalid timestamp sorts first, then ascending
	if result[0].Action != "repay" {
		t.Errorf("Expected repay (no timestamp) first, got %s", result[0].Action)
	}
	if result[1].Action != "deposit" || result[2].Action != "borrow" {
		t.Errorf("Expected [deposit borrow] order, got [%s %s]", result[1].Action, result[2].Action)
	}
}

func TestActionRecordStore_InsertBulk_InvalidInput(t *testing.T) {
	store := NewActionRecordStore()

	err := store.InsertBulk(context.Background(), []*domain.ActionRecord{
		{WalletID: "", Action: "deposit"},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestActionRecordStore_GetAll(t *testing.T) {
	store := NewActionRecordStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.ActionRecord{
		{WalletID: "w2", Action: "deposit", Amount: 1},
		{WalletID: "w1", Action: "borrow", Amount: 2},
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(all))
	}
	if all[0].WalletID != "w1" {
		t.Errorf("Expected w1 first, got %s", all[0].WalletID)
	}

	// Mutating the returned copy must not touch the store
	all[0].Amount = 999
	again, _ := store.GetAll(ctx)
	if again[0].Amount == 999 {
		t.Error("GetAll must return copies, not internal pointers")
	}
}
