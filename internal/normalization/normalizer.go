// Package normalization turns raw heterogeneous records into the canonical
// action record table. Schema variance is handled declaratively: ordered
// candidate lists resolve the wallet column and the amount column, nested
// values are flattened to dotted paths before lookup.
package normalization

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/walletid"
)

// walletColumns is the priority list of candidate wallet identifier columns.
// First match against the observed schema wins.
var walletColumns = []string{"wallet_id", "wallet_address", "user", "account", "address", "userWallet"}

// Canonical column names.
const (
	actionColumn         = "action"
	amountColumn         = "actionData.amount"
	amountFallbackColumn = "amount"
	timestampColumn      = "timestamp"
)

// SchemaError indicates the input schema lacks a required field. It is fatal
// to the run: a score computed from a misread schema would be meaningless.
type SchemaError struct {
	Missing string   // description of the unresolvable field
	Columns []string // observed columns, sorted
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: no %s field among columns %v", e.Missing, e.Columns)
}

// Result is the output of one normalization pass, including the detected
// schema and data quality counters.
type Result struct {
	Records []domain.ActionRecord

	// Detected schema
	WalletColumn string   // resolved wallet identifier column
	AmountColumn string   // resolved amount column, "" if every amount defaulted
	Columns      []string // observed columns, sorted

	// Data quality
	SkippedRows   int // rows dropped for a missing/empty wallet identifier
	InvalidTimes  int // rows whose timestamp could not be parsed
	WalletFormats map[walletid.Format]int
}

// Normalize flattens raw records, resolves the schema and produces the
// canonical action record table.
func Normalize(raw []map[string]any) (*Result, error) {
	// Zero records carry no schema to misinterpret; the pipeline proceeds
	// to an empty feature table and a header-only export.
	if len(raw) == 0 {
		return &Result{WalletFormats: make(map[walletid.Format]int)}, nil
	}

	flat := make([]map[string]any, len(raw))
	columnSet := make(map[string]struct{})
	for i, rec := range raw {
		flat[i] = Flatten(rec)
		for col := range flat[i] {
			columnSet[col] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	walletCol := ""
	for _, candidate := range walletColumns {
		if _, ok := columnSet[candidate]; ok {
			walletCol = candidate
			break
		}
	}
	if walletCol == "" {
		return nil, &SchemaError{Missing: "wallet identifier", Columns: columns}
	}
	if _, ok := columnSet[actionColumn]; !ok {
		return nil, &SchemaError{Missing: "action type", Columns: columns}
	}

	amountCol := ""
	if _, ok := columnSet[amountColumn]; ok {
		amountCol = amountColumn
	} else if _, ok := columnSet[amountFallbackColumn]; ok {
		amountCol = amountFallbackColumn
	}

	result := &Result{
		Records:       make([]domain.ActionRecord, 0, len(flat)),
		WalletColumn:  walletCol,
		AmountColumn:  amountCol,
		Columns:       columns,
		WalletFormats: make(map[walletid.Format]int),
	}

	for _, rec := range flat {
		wallet := coerceString(rec[walletCol])
		if wallet == "" {
			result.SkippedRows++
			continue
		}

		amount := 0.0
		if amountCol != "" {
			amount = coerceFloat(rec[amountCol])
		}

		ts, tsValid := coerceEpochSeconds(rec[timestampColumn])
		if !tsValid {
			result.InvalidTimes++
		}

		result.WalletFormats[walletid.Detect(wallet)]++
		result.Records = append(result.Records, domain.ActionRecord{
			WalletID:       wallet,
			Action:         coerceString(rec[actionColumn]),
			Amount:         amount,
			Timestamp:      ts,
			TimestampValid: tsValid,
		})
	}

	return result, nil
}

// Flatten converts nested maps into dotted-path keys, e.g. a nested amount
// under actionData becomes "actionData.amount". Non-map values, including
// lists, are kept as-is.
func Flatten(rec map[string]any) map[string]any {
	flat := make(map[string]any, len(rec))
	flattenInto(flat, "", rec)
	return flat
}

func flattenInto(flat map[string]any, prefix string, rec map[string]any) {
	for key, value := range rec {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(flat, path, nested)
			continue
		}
		flat[path] = value
	}
}

// coerceString renders a raw value as a trimmed string.
func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", s))
	}
}

// coerceFloat renders a raw value as a non-negative amount.
// Anything unparseable defaults to 0; the row is never failed.
func coerceFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// coerceEpochSeconds parses a raw value as epoch seconds.
// Unparseable values yield the invalid marker, never an error.
func coerceEpochSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return int64(parsed), true
	default:
		return 0, false
	}
}
