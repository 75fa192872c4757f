package label

import "strings"

// FormatPhone formats a phone-number-shaped address for display. An 11
// digit number with a leading 1 and a bare 10 digit number both render as
// "+1 XXX XXX XXXX"; anything else keeps its digits, with a leading +
// only when the input had one.
func FormatPhone(phone string) string {
	if phone == "" {
		return phone
	}

	hasPlus := strings.HasPrefix(phone, "+")
	var digits strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 11 && d[0] == '1':
		return "+1 " + d[1:4] + " " + d[4:7] + " " + d[7:]
	case len(d) == 10:
		return "+1 " + d[:3] + " " + d[3:6] + " " + d[6:]
	case hasPlus:
		return "+" + d
	default:
		return phone
	}
}
