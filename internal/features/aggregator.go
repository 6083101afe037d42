// Package features reduces the normalized action table to one statistics
// row per wallet.
package features

import (
	"sort"
	"time"

	"wallet-credit-lab/internal/domain"
)

// activeDayKey truncates a valid timestamp to its UTC calendar date.
// Day boundaries are pinned to UTC so active_days is reproducible
// regardless of the host time zone.
func activeDayKey(epochSeconds int64) string {
	return time.Unix(epochSeconds, 0).UTC().Format("2006-01-02")
}

// accumulator carries the running statistics for one wallet.
type accumulator struct {
	totalActions    int
	numDeposits     int
	numBorrows      int
	numRepays       int
	numLiquidations int
	totalVolume     float64
	days            map[string]struct{}
}

// Aggregate groups the action table by wallet and computes the per-wallet
// feature rows. Empty input yields empty output, never an error. Output is
// sorted by wallet id for deterministic downstream export.
func Aggregate(records []domain.ActionRecord) []domain.WalletFeatures {
	groups := make(map[string]*accumulator)

	for _, rec := range records {
		acc, ok := groups[rec.WalletID]
		if !ok {
			acc = &accumulator{days: make(map[string]struct{})}
			groups[rec.WalletID] = acc
		}

		acc.totalActions++
		acc.totalVolume += rec.Amount

		// Unmatched action tokens count only toward total_actions.
		switch rec.Action {
		case domain.ActionDeposit:
			acc.numDeposits++
		case domain.ActionBorrow:
			acc.numBorrows++
		case domain.ActionRepay:
			acc.numRepays++
		case domain.ActionLiquidation:
			acc.numLiquidations++
		}

		if rec.TimestampValid {
			acc.days[activeDayKey(rec.Timestamp)] = struct{}{}
		}
	}

	wallets := make([]string, 0, len(groups))
	for wallet := range groups {
		wallets = append(wallets, wallet)
	}
	sort.Strings(wallets)

	rows := make([]domain.WalletFeatures, 0, len(wallets))
	for _, wallet := range wallets {
		acc := groups[wallet]
		rows = append(rows, domain.WalletFeatures{
			WalletID:        wallet,
			TotalActions:    acc.totalActions,
			NumDeposits:     acc.numDeposits,
			NumBorrows:      acc.numBorrows,
			NumRepays:       acc.numRepays,
			NumLiquidations: acc.numLiquidations,
			TotalVolume:     acc.totalVolume,
			AvgTxnAmount:    acc.totalVolume / float64(acc.totalActions),
			ActiveDays:      len(acc.days),

			DepositBorrowRatio: float64(acc.numDeposits) / float64(acc.numBorrows+1),
			RepayBorrowRatio:   float64(acc.numRepays) / float64(acc.numBorrows+1),
			LiquidationRate:    float64(acc.numLiquidations) / float64(acc.totalActions+1),
		})
	}

	return rows
}
