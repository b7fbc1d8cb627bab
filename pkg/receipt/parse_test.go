package receipt

import (
	"errors"
	"testing"
)

func TestParseTotalCurrencyMarked(t *testing.T) {
	text := "SuperMart\nMilk 55.00\nBread 42.00\nTOTAL ₹97.00\nThank you"
	got, err := ParseTotal(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 97 {
		t.Fatalf("got %v want 97", got)
	}
}

func TestParseTotalRsPrefix(t *testing.T) {
	cases := map[string]float64{
		"Amount due Rs. 1,250.50":      1250.50,
		"total rs 300":                 300,
		"Net payable INR 12,34,567.00": 1234567,
	}
	for text, want := range cases {
		got, err := ParseTotal(text)
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %v want %v", text, got, want)
		}
	}
}

func TestParseTotalPicksLargest(t *testing.T) {
	// item prices and the total are all currency-marked; the total is the max
	text := "Rs 55.00\nRs 42.00\nRs 97.00"
	got, err := ParseTotal(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 97 {
		t.Fatalf("got %v want 97", got)
	}
}

func TestParseTotalBareDecimalOnTotalLine(t *testing.T) {
	text := "Milk 55.00\nGrand Total 97.50\nCash 100.00"
	got, err := ParseTotal(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// "Cash 100.00" has no total keyword; 97.50 vs 100.00 both on keyword
	// lines? only Grand Total line matches, so 97.50 wins.
	if got != 97.5 {
		t.Fatalf("got %v want 97.5", got)
	}
}

func TestParseTotalNoAmount(t *testing.T) {
	if _, err := ParseTotal("thank you for shopping"); !errors.Is(err, ErrNoAmount) {
		t.Fatalf("expected ErrNoAmount, got %v", err)
	}
}

func TestParseTotalRejectsImplausible(t *testing.T) {
	if _, err := ParseTotal("ref ₹99999999999"); !errors.Is(err, ErrNoAmount) {
		t.Fatalf("expected ErrNoAmount for implausible value, got %v", err)
	}
}
