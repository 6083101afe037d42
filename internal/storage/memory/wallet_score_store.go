package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// WalletScoreStore is an in-memory implementation of storage.WalletScoreStore.
type WalletScoreStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScoredWallet // keyed by wallet id
}

// NewWalletScoreStore creates a new in-memory wallet score store.
func NewWalletScoreStore() *WalletScoreStore {
	return &WalletScoreStore{
		data: make(map[string]*domain.ScoredWallet),
	}
}

// Insert adds a new score row. Returns ErrDuplicateKey if the wallet exists.
func (s *WalletScoreStore) Insert(_ context.Context, score *domain.ScoredWallet) error {
	if score == nil || score.WalletID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[score.WalletID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *score
	s.data[score.WalletID] = &copy
	return nil
}

// InsertBulk adds multiple score rows atomically. Fails entire batch on any duplicate.
func (s *WalletScoreStore) InsertBulk(_ context.Context, scores []*domain.ScoredWallet) error {
	if len(scores) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(scores))

	// First pass: check for duplicates (existing + intra-batch)
	for _, score := range scores {
		if score == nil || score.WalletID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[score.WalletID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[score.WalletID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[score.WalletID] = struct{}{}
	}

	// Second pass: insert all
	for _, score := range scores {
		copy := *score
		s.data[score.WalletID] = &copy
	}

	return nil
}

// GetByWallet retrieves the score for a wallet. Returns ErrNotFound if absent.
func (s *WalletScoreStore) GetByWallet(_ context.Context, walletID string) (*domain.ScoredWallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, exists := s.data[walletID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *score
	return &copy, nil
}

// GetAll retrieves all stored scores, ordered by wallet id ASC.
func (s *WalletScoreStore) GetAll(_ context.Context) ([]*domain.ScoredWallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ScoredWallet, 0, len(s.data))
	for _, score := range s.data {
		copy := *score
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].WalletID < result[j].WalletID
	})

	return result, nil
}

var _ storage.WalletScoreStore = (*WalletScoreStore)(nil)
