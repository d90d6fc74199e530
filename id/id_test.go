package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/gymledger/id"
)

func TestNewAccountID(t *testing.T) {
	got := id.NewAccountID()
	if got.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if !strings.HasPrefix(got.String(), "acct_") {
		t.Errorf("expected prefix %q, got %q", "acct_", got.String())
	}
	if got.Prefix() != id.PrefixAccount {
		t.Errorf("expected prefix %q, got %q", id.PrefixAccount, got.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := id.NewAccountID()

	parsed, err := id.ParseAccountID(original.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(original) {
		t.Errorf("round trip: got %q, want %q", parsed.String(), original.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not-a-typeid"},
		{"bad suffix", "acct_!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("Parse(%q): expected error", tt.input)
			}
		})
	}
}

func TestParseWithPrefixMismatch(t *testing.T) {
	other := id.New("sess")
	if _, err := id.ParseAccountID(other.String()); err == nil {
		t.Error("expected prefix mismatch error")
	}
}

func TestNil(t *testing.T) {
	if !id.Nil.IsNil() {
		t.Error("Nil should report IsNil")
	}
	if id.Nil.String() != "" {
		t.Errorf("Nil.String(): got %q, want empty", id.Nil.String())
	}
	if id.NewAccountID().IsNil() {
		t.Error("generated ID should not be nil")
	}
}

func TestTextMarshaling(t *testing.T) {
	original := id.NewAccountID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed id.ID
	if err := parsed.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Equal(original) {
		t.Errorf("round trip: got %q, want %q", parsed.String(), original.String())
	}

	var empty id.ID
	if err := empty.UnmarshalText(nil); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !empty.IsNil() {
		t.Error("unmarshal of empty text should yield Nil")
	}
}

func TestSQLValueScan(t *testing.T) {
	original := id.NewAccountID()

	v, err := original.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var scanned id.ID
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !scanned.Equal(original) {
		t.Errorf("round trip: got %q, want %q", scanned.String(), original.String())
	}

	// Nil ID stores NULL.
	nv, err := id.Nil.Value()
	if err != nil {
		t.Fatalf("nil value: %v", err)
	}
	if nv != nil {
		t.Errorf("Nil.Value(): got %v, want nil", nv)
	}

	var fromNull id.ID
	if err := fromNull.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !fromNull.IsNil() {
		t.Error("scan of NULL should yield Nil")
	}

	if err := scanned.Scan(42); err == nil {
		t.Error("scan of int should fail")
	}
}
