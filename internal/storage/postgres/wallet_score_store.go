package postgres

import (
	"context"
	"fmt"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// WalletScoreStore implements storage.WalletScoreStore using PostgreSQL.
type WalletScoreStore struct {
	pool *Pool
}

// NewWalletScoreStore creates a new WalletScoreStore.
func NewWalletScoreStore(pool *Pool) *WalletScoreStore {
	return &WalletScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletScoreStore = (*WalletScoreStore)(nil)

// Insert adds a new score row. Returns ErrDuplicateKey if the wallet exists.
func (s *WalletScoreStore) Insert(ctx context.Context, score *domain.ScoredWallet) error {
	if score == nil || score.WalletID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO wallet_scores (wallet_id, credit_score, risk_label)
		VALUES ($1, $2, $3)
	`

	_, err := s.pool.Exec(ctx, query, score.WalletID, score.CreditScore, string(score.RiskLabel))
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet score: %w", err)
	}
	return nil
}

// InsertBulk adds multiple score rows atomically. Fails entire batch on any duplicate.
func (s *WalletScoreStore) InsertBulk(ctx context.Context, scores []*domain.ScoredWallet) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO wallet_scores (wallet_id, credit_score, risk_label)
		VALUES ($1, $2, $3)
	`

	for _, score := range scores {
		if score == nil || score.WalletID == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, query, score.WalletID, score.CreditScore, string(score.RiskLabel)); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert wallet score %s: %w", score.WalletID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByWallet retrieves the score for a wallet. Returns ErrNotFound if absent.
func (s *WalletScoreStore) GetByWallet(ctx context.Context, walletID string) (*domain.ScoredWallet, error) {
	query := `
		SELECT wallet_id, credit_score, risk_label
		FROM wallet_scores
		WHERE wallet_id = $1
	`

	var score domain.ScoredWallet
	var label string
	err := s.pool.QueryRow(ctx, query, walletID).Scan(&score.WalletID, &score.CreditScore, &label)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet score: %w", err)
	}
	score.RiskLabel = domain.RiskLabel(label)
	return &score, nil
}

// GetAll retrieves all stored scores, ordered by wallet id ASC.
func (s *WalletScoreStore) GetAll(ctx context.Context) ([]*domain.ScoredWallet, error) {
	query := `
		SELECT wallet_id, credit_score, risk_label
		FROM wallet_scores
		ORDER BY wallet_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query wallet scores: %w", err)
	}
	defer rows.Close()

	var result []*domain.ScoredWallet
	for rows.Next() {
		var score domain.ScoredWallet
		var label string
		if err := rows.Scan(&score.WalletID, &score.CreditScore, &label); err != nil {
			return nil, fmt.Errorf("scan wallet score: %w", err)
		}
		score.RiskLabel = domain.RiskLabel(label)
		result = append(result, &score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet scores: %w", err)
	}

	return result, nil
}
