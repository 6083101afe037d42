// Package walletid classifies wallet identifier formats for data quality
// reporting. Classification never affects scoring; unknown formats are
// still valid grouping keys.
package walletid

import (
	"encoding/hex"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Format identifies the encoding of a wallet identifier.
type Format string

const (
	// FormatEVM is a 0x-prefixed 20-byte hex address.
	FormatEVM Format = "evm"
	// FormatEd25519 is a base58-encoded 32-byte ed25519 public key
	// lying on the curve (Solana-style address).
	FormatEd25519 Format = "ed25519"
	// FormatUnknown is any identifier matching neither format.
	FormatUnknown Format = "unknown"
)

// Detect returns the format of a wallet identifier.
func Detect(id string) Format {
	if isEVMAddress(id) {
		return FormatEVM
	}
	if isEd25519Address(id) {
		return FormatEd25519
	}
	return FormatUnknown
}

// isEVMAddress reports whether id is a 0x-prefixed 20-byte hex string.
func isEVMAddress(id string) bool {
	if len(id) != 42 || !strings.HasPrefix(id, "0x") {
		return false
	}
	_, err := hex.DecodeString(id[2:])
	return err == nil
}

// isEd25519Address reports whether id decodes from base58 to a 32-byte
// value that is a valid point on the ed25519 curve.
func isEd25519Address(id string) bool {
	decoded, err := base58.Decode(id)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}
