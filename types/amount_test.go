package types

import "testing"

func TestAmountArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Amount
		expected Amount
	}{
		{"Add", func() Amount { return Units(100).Add(Units(200)) }, Units(300)},
		{"Sub", func() Amount { return Units(500).Sub(Units(200)) }, Units(300)},
		{"Mul", func() Amount { return Units(100).Mul(3) }, Units(300)},
		{"Div", func() Amount { return Units(900).Div(Units(3)) }, Units(300)},
		{"Div floors", func() Amount { return Units(130).Div(Units(40)) }, Units(3)},
		{"Mod", func() Amount { return Units(130).Mod(Units(40)) }, Units(10)},
		{"Neg", func() Amount { return Units(100).Neg() }, Units(-100)},
		{"Abs positive", func() Amount { return Units(100).Abs() }, Units(100)},
		{"Abs negative", func() Amount { return Units(-100).Abs() }, Units(100)},
		{"Min", func() Amount { return Units(3).Min(Units(7)) }, Units(3)},
		{"Max", func() Amount { return Units(3).Max(Units(7)) }, Units(7)},
		{"Sum", func() Amount { return SumAmounts(Units(1), Units(2), Units(3)) }, Units(6)},
		{"Complex", func() Amount {
			return Units(1000).Add(Units(500)).Mul(2).Sub(Units(1000))
		}, Units(2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAmountPredicates(t *testing.T) {
	if !Units(1).IsPositive() || Units(0).IsPositive() || Units(-1).IsPositive() {
		t.Error("IsPositive misclassified")
	}
	if !Units(-1).IsNegative() || Units(0).IsNegative() {
		t.Error("IsNegative misclassified")
	}
	if !Units(0).IsZero() || Units(1).IsZero() {
		t.Error("IsZero misclassified")
	}
	if !Units(3).LessThan(Units(7)) || Units(7).LessThan(Units(3)) {
		t.Error("LessThan misclassified")
	}
	if !Units(7).GreaterThan(Units(3)) {
		t.Error("GreaterThan misclassified")
	}
}

func TestAmountString(t *testing.T) {
	tests := []struct {
		amount Amount
		want   string
	}{
		{Units(0), "0u"},
		{Units(50), "50u"},
		{Units(-7), "-7u"},
	}
	for _, tt := range tests {
		if got := tt.amount.String(); got != tt.want {
			t.Errorf("String: got %q, want %q", got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{"50u", Units(50), false},
		{"50", Units(50), false},
		{"-7u", Units(-7), false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAmountDivisionByZero(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for division by zero")
		}
	}()

	_ = Units(100).Div(Units(0))
}
