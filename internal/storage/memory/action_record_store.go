package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ActionRecordStore is an in-memory implementation of storage.ActionRecordStore.
type ActionRecordStore struct {
	mu   sync.RWMutex
	data []*domain.ActionRecord
}

// NewActionRecordStore creates a new in-memory action record store.
func NewActionRecordStore() *ActionRecordStore {
	return &ActionRecordStore{}
}

// InsertBulk adds a batch of normalized records.
func (s *ActionRecordStore) InsertBulk(_ context.Context, records []*domain.ActionRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if rec == nil || rec.WalletID == "" {
			return storage.ErrInvalidInput
		}
	}
	for _, rec := range records {
		copy := *rec
		s.data = append(s.data, &copy)
	}
	return nil
}

// GetByWallet retrieves all records for a wallet, ordered by timestamp ASC.
func (s *ActionRecordStore) GetByWallet(_ context.Context, walletID string) ([]*domain.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ActionRecord
	for _, rec := range s.data {
		if rec.WalletID == walletID {
			copy := *rec
			result = append(result, &copy)
		}
	}

	sortRecords(result)
	return result, nil
}

// GetAll retrieves every stored record.
func (s *ActionRecordStore) GetAll(_ context.Context) ([]*domain.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ActionRecord, 0, len(s.data))
	for _, rec := range s.data {
		copy := *rec
		result = append(result, &copy)
	}

	sortRecords(result)
	return result, nil
}

// sortRecords orders by wallet, then timestamp ASC with invalid
// timestamps first.
func sortRecords(records []*domain.ActionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].WalletID != records[j].WalletID {
			return records[i].WalletID < records[j].WalletID
		}
		if records[i].TimestampValid != records[j].TimestampValid {
			return !records[i].TimestampValid
		}
		return records[i].Timestamp < records[j].Timestamp
	})
}

var _ storage.ActionRecordStore = (*ActionRecordStore)(nil)
