package walletid

import "testing"

func TestDetect_EVMAddress(t *testing.T) {
	got := Detect("0x00000000219ab540356cbb839cbe05303d7705fa")
	if got != FormatEVM {
		t.Errorf("expected FormatEVM, got %s", got)
	}
}

func TestDetect_EVMAddress_UpperHex(t *testing.T) {
	got := Detect("0x00000000219AB540356CBB839CBE05303D7705FA")
	if got != FormatEVM {
		t.Errorf("expected FormatEVM, got %s", got)
	}
}

func TestDetect_EVMAddress_WrongLength(t *testing.T) {
	got := Detect("0x00000000219ab540356cbb839cbe05303d7705")
	if got != FormatUnknown {
		t.Errorf("expected FormatUnknown for short hex, got %s", got)
	}
}

func TestDetect_Ed25519Address(t *testing.T) {
	// Wrapped SOL mint, a known on-curve address.
	got := Detect("So11111111111111111111111111111111111111112")
	if got != FormatEd25519 {
		t.Errorf("expected FormatEd25519, got %s", got)
	}
}

func TestDetect_Base58_TooShort(t *testing.T) {
	// Valid base58 but decodes to fewer than 32 bytes.
	got := Detect("abc")
	if got != FormatUnknown {
		t.Errorf("expected FormatUnknown, got %s", got)
	}
}

func TestDetect_ArbitraryString(t *testing.T) {
	got := Detect("wallet-42")
	if got != FormatUnknown {
		t.Errorf("expected FormatUnknown, got %s", got)
	}
}
