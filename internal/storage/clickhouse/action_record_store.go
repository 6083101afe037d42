package clickhouse

import (
	"context"
	"fmt"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ActionRecordStore implements storage.ActionRecordStore using ClickHouse.
// The table is an append-only analytics archive; MergeTree enforces no
// uniqueness and none is needed for action records.
type ActionRecordStore struct {
	conn *Conn
}

// NewActionRecordStore creates a new ActionRecordStore.
func NewActionRecordStore(conn *Conn) *ActionRecordStore {
	return &ActionRecordStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ActionRecordStore = (*ActionRecordStore)(nil)

// InsertBulk adds a batch of normalized records.
func (s *ActionRecordStore) InsertBulk(ctx context.Context, records []*domain.ActionRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, rec := range records {
		if rec == nil || rec.WalletID == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO action_records (wallet_id, action, amount, timestamp, timestamp_valid)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, rec := range records {
		valid := uint8(0)
		if rec.TimestampValid {
			valid = 1
		}
		if err := batch.Append(rec.WalletID, rec.Action, rec.Amount, rec.Timestamp, valid); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByWallet retrieves all records for a wallet, ordered by timestamp ASC
// with invalid timestamps first.
func (s *ActionRecordStore) GetByWallet(ctx context.Context, walletID string) ([]*domain.ActionRecord, error) {
	query := `
		SELECT wallet_id, action, amount, timestamp, timestamp_valid
		FROM action_records
		WHERE wallet_id = ?
		ORDER BY timestamp_valid ASC, timestamp ASC
	`
	return s.queryRecords(ctx, query, walletID)
}

// GetAll retrieves every stored record, ordered by wallet id then timestamp.
func (s *ActionRecordStore) GetAll(ctx context.Context) ([]*domain.ActionRecord, error) {
	query := `
		SELECT wallet_id, action, amount, timestamp, timestamp_valid
		FROM action_records
		ORDER BY wallet_id ASC, timestamp_valid ASC, timestamp ASC
	`
	return s.queryRecords(ctx, query)
}

func (s *ActionRecordStore) queryRecords(ctx context.Context, query string, args ...any) ([]*domain.ActionRecord, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query action records: %w", err)
	}
	defer rows.Close()

	var result []*domain.ActionRecord
	for rows.Next() {
		var rec domain.ActionRecord
		var valid uint8
		if err := rows.Scan(&rec.WalletID, &rec.Action, &rec.Amount, &rec.Timestamp, &valid); err != nil {
			return nil, fmt.Errorf("scan action record: %w", err)
		}
		rec.TimestampValid = valid == 1
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action records: %w", err)
	}

	return result, nil
}
