package recipient

import (
	"errors"
	"strings"
)

// SignificantDigits is the number of trailing digits kept from a raw number.
const SignificantDigits = 10

// ErrInvalidNumber marks a raw number that has fewer than SignificantDigits digits.
var ErrInvalidNumber = errors.New("invalid phone number")

// Address is a canonical dispatch address: country prefix + 10 digits.
type Address string

// Digits returns the address without a leading '+', as used in deep links.
func (a Address) Digits() string {
	return strings.TrimPrefix(string(a), "+")
}

func (a Address) String() string { return string(a) }

// Normalize strips every non-digit from raw and returns prefix followed by the
// last ten digits. Leading digits beyond the last ten (extra country codes,
// trunk prefixes) are dropped. Only ASCII digits count.
func Normalize(raw, prefix string) (Address, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	digits := b.String()
	if len(digits) < SignificantDigits {
		return "", false
	}
	return Address(prefix + digits[len(digits)-SignificantDigits:]), true
}

// Normalizer binds a configured country prefix.
type Normalizer struct {
	Prefix string
}

// Normalize returns the dispatch address for raw, or ErrInvalidNumber.
func (n Normalizer) Normalize(raw string) (Address, error) {
	addr, ok := Normalize(raw, n.Prefix)
	if !ok {
		return "", ErrInvalidNumber
	}
	return addr, nil
}
