package scoring

import "wallet-credit-lab/internal/domain"

// thresholds maps inclusive lower score bounds to labels, scanned from
// highest to lowest; first match wins. Scores below every bound are
// Very Risky.
var thresholds = []struct {
	min   int
	label domain.RiskLabel
}{
	{750, domain.RiskExcellent},
	{600, domain.RiskGood},
	{500, domain.RiskFair},
	{350, domain.RiskPoor},
}

// Label maps a credit score to its risk label. Pure, total, deterministic.
func Label(score int) domain.RiskLabel {
	for _, t := range thresholds {
		if score >= t.min {
			return t.label
		}
	}
	return domain.RiskVeryRisky
}
