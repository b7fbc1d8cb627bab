package exchange

import (
	"errors"
	"math"
	"testing"
)

// INR-based snapshot (base rate 1) with a few well-known codes.
var testRates = Rates{
	"INR": 1,
	"USD": 0.012,
	"EUR": 0.011,
	"JPY": 1.8,
}

func TestConvertSameCurrency(t *testing.T) {
	got, err := Convert(123.45, "INR", "INR", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 123.45 {
		t.Fatalf("same-currency conversion must be exact, got %v", got)
	}
}

func TestConvertBetweenCurrencies(t *testing.T) {
	got, err := Convert(100, "INR", "USD", testRates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1.2) > 1e-9 {
		t.Fatalf("100 INR -> USD: want 1.2 got %v", got)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	amounts := []float64{0.01, 1, 42.42, 999.99, 123456.78}
	codes := []string{"INR", "USD", "EUR", "JPY"}
	for _, a := range amounts {
		for _, x := range codes {
			for _, y := range codes {
				there, err := Convert(a, x, y, testRates)
				if err != nil {
					t.Fatalf("convert %v %s->%s: %v", a, x, y, err)
				}
				back, err := Convert(there, y, x, testRates)
				if err != nil {
					t.Fatalf("convert back %v %s->%s: %v", there, y, x, err)
				}
				if math.Abs(Round2(back)-Round2(a)) > 0.01 {
					t.Fatalf("round trip %v %s->%s->%s drifted to %v", a, x, y, x, back)
				}
			}
		}
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	if _, err := Convert(10, "XXX", "INR", testRates); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency for from code, got %v", err)
	}
	if _, err := Convert(10, "INR", "XXX", testRates); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency for to code, got %v", err)
	}
}

func TestConvertCaseInsensitiveCodes(t *testing.T) {
	got, err := Convert(100, "inr", "usd", testRates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1.2) > 1e-9 {
		t.Fatalf("lowercase codes should convert, got %v", got)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.006:   1.01,
		1.004:   1.0,
		3.14159: 3.14,
		-1.239:  -1.24,
		0:       0,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v want %v", in, got, want)
		}
	}
}
