package recipient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Address
		ok   bool
	}{
		{name: "plain ten digits", raw: "9876543210", want: "+919876543210", ok: true},
		{name: "spaced", raw: "98765 43210", want: "+919876543210", ok: true},
		{name: "punctuation and extension", raw: "+1 (234) 567-8901 ext2", want: "+913456789012", ok: true},
		{name: "twelve digits keep the last ten", raw: "00 11 2233445566", want: "+912233445566", ok: true},
		{name: "fifteen digits keep the last ten", raw: "99999-01234-56789", want: "+910123456789", ok: true},
		{name: "leading country code dropped", raw: "+91 98765-43210", want: "+919876543210", ok: true},
		{name: "trunk zero dropped", raw: "09876543210", want: "+919876543210", ok: true},
		{name: "nine digits", raw: "987654321", ok: false},
		{name: "letters only", raw: "call me", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "non-ascii digits ignored", raw: "૯૮૭૬૫૪૩૨૧૦", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw, "+91")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_ShortNumbersAlwaysRejected(t *testing.T) {
	raw := ""
	for i := 0; i < SignificantDigits; i++ {
		_, ok := Normalize(raw+" - ", "+1")
		assert.False(t, ok, "raw %q has %d digits", raw, i)
		raw += "7"
	}
	_, ok := Normalize(raw, "+1")
	assert.True(t, ok)
}

func TestNormalizer(t *testing.T) {
	n := Normalizer{Prefix: "+44"}

	addr, err := n.Normalize("(020) 7946 0958")
	require.NoError(t, err)
	assert.Equal(t, Address("+442079460958"), addr)
	assert.Equal(t, "442079460958", addr.Digits())

	_, err = n.Normalize("12-34")
	assert.ErrorIs(t, err, ErrInvalidNumber)
}
