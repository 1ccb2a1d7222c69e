package money

import (
	"errors"
	"math"
	"testing"
)

func TestFromPercent(t *testing.T) {
	tests := []struct {
		percent float64
		want    Rate
		wantErr bool
	}{
		{percent: 20, want: 2000},
		{percent: 12.5, want: 1250},
		{percent: 0.01, want: 1},
		{percent: 0, want: 0},
		{percent: 100, want: RateScale},
		{percent: 0.001, wantErr: true},
		{percent: 100.01, wantErr: true},
		{percent: -1, wantErr: true},
		{percent: math.NaN(), wantErr: true},
		{percent: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		got, err := FromPercent(tt.percent)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRate) {
				t.Errorf("FromPercent(%v) error = %v, want ErrInvalidRate", tt.percent, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("FromPercent(%v) unexpected error: %v", tt.percent, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FromPercent(%v) = %d, want %d", tt.percent, got, tt.want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in      string
		want    Rate
		wantErr bool
	}{
		{in: "33", want: 3300},
		{in: "33%", want: 3300},
		{in: " 7.25 ", want: 725},
		{in: "100", want: RateScale},
		{in: "100.5", wantErr: true},
		{in: "-0.01", wantErr: true},
		{in: "1.001", wantErr: true},
		{in: "ten", wantErr: true},
		{in: "", wantErr: true},
		{in: "1e20000000", wantErr: true},
		{in: "0e-300000000", wantErr: true},
		{in: "2E1%", wantErr: true},
		{in: "000000000000000000000000000000050%", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePercent(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRate) {
				t.Errorf("ParsePercent(%q) error = %v, want ErrInvalidRate", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePercent(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePercent(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFromBasisPoints(t *testing.T) {
	if _, err := FromBasisPoints(RateScale + 1); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("FromBasisPoints(10001) error = %v, want ErrInvalidRate", err)
	}
	if _, err := FromBasisPoints(-1); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("FromBasisPoints(-1) error = %v, want ErrInvalidRate", err)
	}
	r, err := FromBasisPoints(550)
	if err != nil {
		t.Fatalf("FromBasisPoints(550) failed: %v", err)
	}
	if r.String() != "5.5%" {
		t.Errorf("String() = %q, want 5.5%%", r.String())
	}
}

func TestRateHelpers(t *testing.T) {
	r := MustPercent(20)
	if r.Complement() != 8000 {
		t.Errorf("Complement() = %d, want 8000", r.Complement())
	}
	if r.String() != "20%" {
		t.Errorf("String() = %q, want 20%%", r.String())
	}
	if Rate(RateScale + 1).Valid() {
		t.Error("rate above 100% reported valid")
	}
	if Rate(-1).Valid() {
		t.Error("negative rate reported valid")
	}
}
