package domain

// WalletFeatures holds per-wallet aggregate statistics computed from the
// full normalized action history. One row per distinct wallet, immutable
// once aggregated, consumed exactly once by the scorer.
type WalletFeatures struct {
	WalletID string

	// Counts
	TotalActions    int // total rows for this wallet, >= 1
	NumDeposits     int
	NumBorrows      int
	NumRepays       int
	NumLiquidations int

	// Volume
	TotalVolume  float64 // sum of amounts
	AvgTxnAmount float64 // mean amount

	// Engagement
	ActiveDays int // distinct UTC calendar dates with a valid timestamp

	// Derived ratios, Laplace +1 denominator so small samples stay finite.
	DepositBorrowRatio float64 // num_deposits / (num_borrows + 1)
	RepayBorrowRatio   float64 // num_repays / (num_borrows + 1)
	LiquidationRate    float64 // num_liquidations / (total_actions + 1)
}
