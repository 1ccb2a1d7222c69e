package money

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		currency  string
		wantMinor int64
		wantCur   string
		wantErr   bool
	}{
		{name: "whole dollars", value: "1000.00", currency: "USD", wantMinor: 100000, wantCur: "USD"},
		{name: "cents", value: "99.99", currency: "USD", wantMinor: 9999, wantCur: "USD"},
		{name: "trailing zeros beyond scale", value: "10.500", currency: "USD", wantMinor: 1050, wantCur: "USD"},
		{name: "zero", value: "0", currency: "USD", wantMinor: 0, wantCur: "USD"},
		{name: "lowercase currency", value: "1", currency: "eur", wantMinor: 100, wantCur: "EUR"},
		{name: "yen has no minor unit", value: "100", currency: "JPY", wantMinor: 100, wantCur: "JPY"},
		{name: "dinar has three decimals", value: "1.234", currency: "KWD", wantMinor: 1234, wantCur: "KWD"},
		{name: "too precise for USD", value: "10.005", currency: "USD", wantErr: true},
		{name: "fractional yen", value: "1.5", currency: "JPY", wantErr: true},
		{name: "negative", value: "-1.00", currency: "USD", wantErr: true},
		{name: "not a number", value: "abc", currency: "USD", wantErr: true},
		{name: "empty", value: "", currency: "USD", wantErr: true},
		{name: "unknown currency", value: "1.00", currency: "NOPE", wantErr: true},
		{name: "out of int64 range", value: "92233720368547758.08", currency: "USD", wantErr: true},
		{name: "huge exponent", value: "1e20000000", currency: "USD", wantErr: true},
		{name: "huge negative exponent", value: "0e-300000000", currency: "USD", wantErr: true},
		{name: "uppercase exponent", value: "1E2", currency: "USD", wantErr: true},
		{name: "longest accepted input", value: "0000000000000000000000000001.000", currency: "USD", wantMinor: 100, wantCur: "USD"},
		{name: "longer than 32 characters", value: "00000000000000000000000000001.000", currency: "USD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromDecimal(tt.value, tt.currency)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("FromDecimal(%q) error = %v, want ErrInvalidAmount", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromDecimal(%q) unexpected error: %v", tt.value, err)
			}
			if m.Minor() != tt.wantMinor {
				t.Errorf("Minor() = %d, want %d", m.Minor(), tt.wantMinor)
			}
			if m.Currency() != tt.wantCur {
				t.Errorf("Currency() = %s, want %s", m.Currency(), tt.wantCur)
			}
		})
	}
}

func TestFromFloat(t *testing.T) {
	m, err := FromFloat(99.99, "USD")
	if err != nil {
		t.Fatalf("FromFloat failed: %v", err)
	}
	if m.Minor() != 9999 {
		t.Errorf("Minor() = %d, want 9999", m.Minor())
	}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.01, 0.1 + 0.2} {
		if _, err := FromFloat(v, "USD"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("FromFloat(%v) error = %v, want ErrInvalidAmount", v, err)
		}
	}
}

func TestNew(t *testing.T) {
	if _, err := New(-1, "USD"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("New(-1) error = %v, want ErrInvalidAmount", err)
	}
	m, err := NewSigned(-1, "USD")
	if err != nil {
		t.Fatalf("NewSigned(-1) failed: %v", err)
	}
	if !m.IsNegative() {
		t.Error("expected negative amount")
	}
	if _, err := NewSigned(math.MinInt64, "USD"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("NewSigned(MinInt64) error = %v, want ErrInvalidAmount", err)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		minor    int64
		currency string
		want     string
	}{
		{100000, "USD", "1000.00 USD"},
		{5, "USD", "0.05 USD"},
		{-1, "USD", "-0.01 USD"},
		{100, "JPY", "100 JPY"},
		{1234, "KWD", "1.234 KWD"},
	}
	for _, tt := range tests {
		m, err := NewSigned(tt.minor, tt.currency)
		if err != nil {
			t.Fatalf("NewSigned failed: %v", err)
		}
		if got := m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAddSubtract(t *testing.T) {
	a := mustMoney(t, 1050, "USD")
	b := mustMoney(t, 25, "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if sum.Minor() != 1075 {
		t.Errorf("Add = %d, want 1075", sum.Minor())
	}

	diff, err := b.Subtract(a)
	if err != nil {
		t.Fatalf("Subtract failed: %v", err)
	}
	if diff.Minor() != -1025 {
		t.Errorf("Subtract = %d, want -1025", diff.Minor())
	}

	eur := mustMoney(t, 1, "EUR")
	if _, err := a.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add across currencies error = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := a.Subtract(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Subtract across currencies error = %v, want ErrCurrencyMismatch", err)
	}

	big := mustMoney(t, math.MaxInt64, "USD")
	if _, err := big.Add(b); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("overflowing Add error = %v, want ErrInvalidAmount", err)
	}
}

func TestMultiplyByRate(t *testing.T) {
	tests := []struct {
		name        string
		minor       int64
		bp          Rate
		want        int64
		wantResidue Residue
	}{
		{name: "exact", minor: 100000, bp: 2000, want: 20000, wantResidue: 0},
		{name: "rounds up above half", minor: 9999, bp: 3300, want: 3300, wantResidue: -3300},
		{name: "half rounds up", minor: 5, bp: 5000, want: 3, wantResidue: -5000},
		{name: "just under one cent", minor: 3, bp: 3333, want: 1, wantResidue: -1},
		{name: "rounds down below half", minor: 12, bp: 100, want: 0, wantResidue: 1200},
		{name: "zero rate", minor: 12345, bp: 0, want: 0, wantResidue: 0},
		{name: "full rate", minor: 12345, bp: RateScale, want: 12345, wantResidue: 0},
		{name: "full rate at max amount", minor: math.MaxInt64, bp: RateScale, want: math.MaxInt64, wantResidue: 0},
		{name: "negative half rounds away from zero", minor: -5, bp: 5000, want: -3, wantResidue: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewSigned(tt.minor, "USD")
			if err != nil {
				t.Fatalf("NewSigned failed: %v", err)
			}
			got, residue := m.MultiplyByRate(tt.bp)
			if got.Minor() != tt.want {
				t.Errorf("MultiplyByRate = %d, want %d", got.Minor(), tt.want)
			}
			if residue != tt.wantResidue {
				t.Errorf("residue = %d, want %d", residue, tt.wantResidue)
			}
			// rounded × scale + residue must reproduce the exact product
			if tt.minor < math.MaxInt64/RateScale && tt.minor > -math.MaxInt64/RateScale {
				exact := tt.minor * int64(tt.bp)
				if got.Minor()*RateScale+int64(residue) != exact {
					t.Errorf("rounded %d and residue %d do not reconstruct %d", got.Minor(), residue, exact)
				}
			}
			if got.Currency() != "USD" {
				t.Errorf("currency = %s, want USD", got.Currency())
			}
		})
	}
}

func TestMultiplyByRatePanicsOnInvalidRate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range rate")
		}
	}()
	mustMoney(t, 100, "USD").MultiplyByRate(Rate(RateScale + 1))
}

func mustMoney(t *testing.T, minor int64, code string) Money {
	t.Helper()
	m, err := New(minor, code)
	if err != nil {
		t.Fatalf("New(%d, %s) failed: %v", minor, code, err)
	}
	return m
}

func TestFromDecimal_ErrorQuotesTruncatedInput(t *testing.T) {
	long := "1" + strings.Repeat("0", 1<<20)
	_, err := FromDecimal(long, "USD")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("FromDecimal error = %v, want ErrInvalidAmount", err)
	}
	if len(err.Error()) > 200 {
		t.Errorf("error message is %d bytes, want it bounded", len(err.Error()))
	}

	_, err = FromDecimal("1e20000000", "USD")
	if err == nil || !strings.Contains(err.Error(), `"1e20000000"`) {
		t.Errorf("error = %v, want the raw input quoted", err)
	}
}
