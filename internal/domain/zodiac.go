package domain

import "fmt"

// ZodiacSigns is the fixed set of accepted zodiac labels.
var ZodiacSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer",
	"Leo", "Virgo", "Libra", "Scorpio",
	"Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var zodiacSet = func() map[string]bool {
	m := make(map[string]bool, len(ZodiacSigns))
	for _, s := range ZodiacSigns {
		m[s] = true
	}
	return m
}()

// IsZodiacSign reports whether s is one of the 12 zodiac labels.
// Matching is case-sensitive; the UI sends canonical labels.
func IsZodiacSign(s string) bool {
	return zodiacSet[s]
}

// ValidateSigns checks that every sign field on the star is a known
// zodiac label. Used as the service's validation hook in strict mode.
func ValidateSigns(s Star) error {
	for _, pair := range []struct {
		field string
		value string
	}{
		{"sunSign", s.SunSign},
		{"moonSign", s.MoonSign},
		{"risingSign", s.RisingSign},
	} {
		if !IsZodiacSign(pair.value) {
			return fmt.Errorf("%s: %q is not a zodiac sign", pair.field, pair.value)
		}
	}
	return nil
}
