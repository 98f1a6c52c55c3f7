package phone

import (
	"strings"
	"unicode"
)

// CountryCode is the only country prefix the gateway accepts.
const CountryCode = "55"

const (
	minDigits = 10
	maxDigits = 13
	// numbers at or above this length must carry the country prefix
	prefixedDigits = 12
)

type Parts struct {
	CountryCode string `json:"country_code"`
	AreaCode    string `json:"area_code"`
	LocalNumber string `json:"local_number"`
	Storage     string `json:"storage"`
	Gateway     string `json:"gateway"`
	Display     string `json:"display"`
}

// Digits drops every non-digit rune.
func Digits(raw string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return -1
		}
		return r
	}, raw)
}

// ToStorage returns the canonical form used as the contact lookup key.
func ToStorage(raw string) string {
	digits := Digits(raw)
	if strings.HasPrefix(digits, CountryCode) && len(digits) > len(CountryCode) {
		return digits[len(CountryCode):]
	}
	return digits
}

// ToGateway returns the prefixed form required by the gateway.
func ToGateway(raw string) string {
	digits := Digits(raw)
	if !strings.HasPrefix(digits, CountryCode) {
		return CountryCode + digits
	}
	return digits
}

// IsValid is a structural check only: 10 to 13 digits, and the longer
// forms must start with the country prefix.
func IsValid(raw string) bool {
	digits := Digits(raw)
	if len(digits) < minDigits || len(digits) > maxDigits {
		return false
	}

	if len(digits) >= prefixedDigits && !strings.HasPrefix(digits, CountryCode) {
		return false
	}

	return true
}

func ExtractParts(raw string) (Parts, bool) {
	if !IsValid(raw) {
		return Parts{}, false
	}

	digits := strings.TrimPrefix(Digits(raw), CountryCode)
	area, local := digits[:2], digits[2:]

	return Parts{
		CountryCode: CountryCode,
		AreaCode:    area,
		LocalNumber: local,
		Storage:     area + local,
		Gateway:     CountryCode + area + local,
		Display:     display(area, local),
	}, true
}

func display(area, local string) string {
	head, tail := local, ""
	if len(local) > 5 {
		head, tail = local[:5], local[5:]
	}
	return "+" + CountryCode + " (" + area + ") " + head + "-" + tail
}
