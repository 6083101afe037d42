package storage

import (
	"context"

	"wallet-credit-lab/internal/domain"
)

// ActionRecordStore provides access to normalized action record storage.
// Records are an append-only archive; the same action may legitimately
// appear in several ingestion runs.
type ActionRecordStore interface {
	// InsertBulk adds a batch of normalized records.
	InsertBulk(ctx context.Context, records []*domain.ActionRecord) error

	// GetByWallet retrieves all records for a wallet, ordered by timestamp ASC
	// (rows without a valid timestamp sort first).
	GetByWallet(ctx context.Context, walletID string) ([]*domain.ActionRecord, error)

	// GetAll retrieves every stored record.
	GetAll(ctx context.Context) ([]*domain.ActionRecord, error)
}

// WalletScoreStore provides access to scored wallet storage.
type WalletScoreStore interface {
	// Insert adds a new score row. Returns ErrDuplicateKey if the wallet
	// already has a stored score.
	Insert(ctx context.Context, s *domain.ScoredWallet) error

	// InsertBulk adds multiple score rows atomically. Fails entire batch
	// on any duplicate.
	InsertBulk(ctx context.Context, scores []*domain.ScoredWallet) error

	// GetByWallet retrieves the score for a wallet. Returns ErrNotFound
	// if the wallet has not been scored.
	GetByWallet(ctx context.Context, walletID string) (*domain.ScoredWallet, error)

	// GetAll retrieves all stored scores, ordered by wallet id ASC.
	GetAll(ctx context.Context) ([]*domain.ScoredWallet, error)
}
