package scoring

import "wallet-credit-lab/internal/domain"

// Score maps one wallet feature row to a credit score in [MinScore, MaxScore].
// Pure, total, deterministic: defined for every numerically valid row,
// including all-zero rows, and never returns an error.
func Score(f domain.WalletFeatures) int {
	score := float64(BaseScore)

	for _, t := range cappedTerms {
		adj := sanitize(t.value(f)) * t.weight
		if adj > t.cap {
			adj = t.cap
		}
		score += t.sign * adj
	}

	for _, p := range flatPenalties {
		if p.guard(f) {
			score -= p.penalty
		}
	}

	// Truncate, then clamp.
	result := int(score)
	if result < MinScore {
		return MinScore
	}
	if result > MaxScore {
		return MaxScore
	}
	return result
}
