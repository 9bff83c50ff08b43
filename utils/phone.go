package utils

import "strings"

// NormalizePhone converts a free-form Kenyan phone number to MSISDN
// form (254XXXXXXXXX). Spaces, dashes and parentheses are stripped, a
// single leading "+" is removed and a trunk-prefix zero is replaced
// with the 254 country code. Anything that does not end up as exactly
// 12 ASCII digits is rejected.
func NormalizePhone(phone string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, phone)

	cleaned = strings.TrimPrefix(cleaned, "+")

	if strings.HasPrefix(cleaned, "0") {
		cleaned = "254" + cleaned[1:]
	}

	if len(cleaned) != 12 {
		return "", false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	return cleaned, true
}
