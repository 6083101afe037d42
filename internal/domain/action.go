package domain

// ActionRecord represents one normalized on-chain lending action.
// Corresponds to action_records table in ClickHouse.
type ActionRecord struct {
	WalletID  string  // actor identifier, never empty after normalization
	Action    string  // action type token, "" if the row carried none
	Amount    float64 // action amount, 0 when absent or unparseable
	Timestamp int64   // Unix timestamp in seconds, meaningful only if TimestampValid
	// TimestampValid is false when the raw timestamp was missing or unparseable.
	// Rows without a valid timestamp still count toward every statistic
	// except active_days.
	TimestampValid bool
}

// Recognized action type tokens. Matching is exact and case-sensitive;
// anything else counts only toward total_actions.
const (
	ActionDeposit     = "deposit"
	ActionBorrow      = "borrow"
	ActionRepay       = "repay"
	ActionLiquidation = "liquidationcall"
)
