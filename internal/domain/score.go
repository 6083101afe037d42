package domain

// RiskLabel is one of five ordinal risk categories derived from a score.
type RiskLabel string

const (
	RiskExcellent RiskLabel = "Excellent"
	RiskGood      RiskLabel = "Good"
	RiskFair      RiskLabel = "Fair"
	RiskPoor      RiskLabel = "Poor"
	RiskVeryRisky RiskLabel = "Very Risky"
)

// ScoredWallet is the terminal output row of the pipeline.
// Corresponds to wallet_scores table in PostgreSQL.
type ScoredWallet struct {
	WalletID    string
	CreditScore int // closed interval [0, 1000]
	RiskLabel   RiskLabel
}
