package reporting

import (
	"fmt"
	"strings"

	"wallet-credit-lab/internal/domain"
)

// RenderCSV renders scored wallets as CSV. Column order is fixed:
// wallet_id, credit_score, risk_label. Rows are emitted in input order;
// the orchestrator hands them over already sorted by wallet id, which
// keeps repeated runs byte-identical.
func RenderCSV(rows []domain.ScoredWallet) string {
	var sb strings.Builder

	sb.WriteString("wallet_id,credit_score,risk_label\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%s\n", r.WalletID, r.CreditScore, r.RiskLabel))
	}

	return sb.String()
}
