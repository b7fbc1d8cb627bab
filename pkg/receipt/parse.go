package receipt

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoAmount is returned when no plausible monetary amount can be extracted.
var ErrNoAmount = errors.New("no amount detected")

// Indian-format amounts: optional ₹/Rs/INR marker, digit groups with
// optional comma separators, optional two-digit paise part.
var (
	currencyAmountRE = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*([0-9]{1,3}(?:,[0-9]{2,3})*(?:\.[0-9]{2})?|[0-9]+(?:\.[0-9]{2})?)`)
	bareAmountRE     = regexp.MustCompile(`([0-9]{1,3}(?:,[0-9]{2,3})*\.[0-9]{2}|[0-9]+\.[0-9]{2})`)
	totalLineRE      = regexp.MustCompile(`(?i)\b(grand\s*total|total|amount\s*(?:due|payable)?|balance\s*due|net\s*payable)\b`)
)

const maxPlausibleAmount = 10_000_000

// ParseTotal scans OCR text for the payable total. Currency-marked amounts
// win over bare decimals; among candidates the largest plausible value is
// taken, since receipt totals sit above their line items.
func ParseTotal(text string) (float64, error) {
	var candidates []float64

	for _, m := range currencyAmountRE.FindAllStringSubmatch(text, -1) {
		if v, ok := parseAmount(m[1]); ok {
			candidates = append(candidates, v)
		}
	}

	// fall back to decimals on lines mentioning a total
	if len(candidates) == 0 {
		for _, line := range strings.Split(text, "\n") {
			if !totalLineRE.MatchString(line) {
				continue
			}
			for _, m := range bareAmountRE.FindAllStringSubmatch(line, -1) {
				if v, ok := parseAmount(m[1]); ok {
					candidates = append(candidates, v)
				}
			}
		}
	}

	var best float64
	for _, v := range candidates {
		if v > best {
			best = v
		}
	}
	if best <= 0 {
		return 0, ErrNoAmount
	}
	return best, nil
}

func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || v > maxPlausibleAmount {
		return 0, false
	}
	return v, true
}
