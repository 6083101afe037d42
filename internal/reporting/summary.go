// Package reporting renders the scored wallet table for export and for
// analyst-facing summaries. It performs no computation beyond counting and
// averaging what the pipeline already produced.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"wallet-credit-lab/internal/domain"
)

// labelOrder fixes the summary row order from best to worst.
var labelOrder = []domain.RiskLabel{
	domain.RiskExcellent,
	domain.RiskGood,
	domain.RiskFair,
	domain.RiskPoor,
	domain.RiskVeryRisky,
}

// Summary aggregates the scored table for the markdown report.
type Summary struct {
	GeneratedAt time.Time
	Wallets     int
	MeanScore   float64
	MinScore    int
	MaxScore    int
	LabelCounts map[domain.RiskLabel]int
}

// Summarize computes the summary of a scored wallet table.
func Summarize(rows []domain.ScoredWallet, now time.Time) *Summary {
	s := &Summary{
		GeneratedAt: now,
		Wallets:     len(rows),
		LabelCounts: make(map[domain.RiskLabel]int),
	}
	if len(rows) == 0 {
		return s
	}

	total := 0
	s.MinScore = rows[0].CreditScore
	s.MaxScore = rows[0].CreditScore
	for _, r := range rows {
		total += r.CreditScore
		if r.CreditScore < s.MinScore {
			s.MinScore = r.CreditScore
		}
		if r.CreditScore > s.MaxScore {
			s.MaxScore = r.CreditScore
		}
		s.LabelCounts[r.RiskLabel]++
	}
	s.MeanScore = float64(total) / float64(len(rows))

	return s
}

// RenderSummaryMarkdown renders the summary as Markdown.
func RenderSummaryMarkdown(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Wallet Credit Score Summary\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Wallets Scored | %d |\n", s.Wallets))
	sb.WriteString(fmt.Sprintf("| Mean Score | %.1f |\n", s.MeanScore))
	sb.WriteString(fmt.Sprintf("| Min Score | %d |\n", s.MinScore))
	sb.WriteString(fmt.Sprintf("| Max Score | %d |\n", s.MaxScore))
	sb.WriteString("\n")

	sb.WriteString("## Risk Label Distribution\n\n")
	sb.WriteString("| Label | Wallets |\n")
	sb.WriteString("|-------|--------|\n")
	for _, label := range labelOrder {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", label, s.LabelCounts[label]))
	}
	sb.WriteString("\n")

	return sb.String()
}
