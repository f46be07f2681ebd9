package einvoice

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value rendered with two fraction digits.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) *Amount {
	return &Amount{Decimal: d.Round(2)}
}

// MustAmount parses s with ParseAmount and panics if it is not a number.
func MustAmount(s string) *Amount {
	a := ParseAmount(s)
	if a == nil {
		panic(fmt.Sprintf("einvoice: invalid amount %q", s))
	}
	return a
}

func (a Amount) String() string {
	return a.StringFixed(2)
}

// MarshalJSON writes the amount as a JSON number, e.g. 105.91 or 89.00.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

// UnmarshalJSON accepts a number or a string in any format ParseAmount understands.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	parsed := ParseAmount(s)
	if parsed == nil {
		return fmt.Errorf("invalid amount %s", data)
	}
	*a = *parsed
	return nil
}

// ParseAmount reads an amount written with either ',' or '.' as the decimal
// separator. When both occur the later one separates the fraction and the other
// is a thousands separator. A lone '.' is always the decimal separator, so
// "1.234" is 1.23. A leading or trailing three-letter currency code and '€' are
// allowed; any other letter makes the text not a number and it returns nil.
func ParseAmount(raw string) *Amount {
	var b strings.Builder
	for _, r := range trimCurrencyCode(strings.ReplaceAll(raw, "€", " ")) {
		switch {
		case (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-':
			b.WriteRune(r)
		case r == '+' || r == '\'' || unicode.IsSpace(r):
		default:
			return nil
		}
	}
	s := b.String()
	if s == "" {
		return nil
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return NewAmount(d)
}

func trimCurrencyCode(s string) string {
	s = strings.TrimSpace(s)
	notLetter := func(r rune) bool { return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') }
	if strings.IndexFunc(s, notLetter) == 3 {
		s = s[3:]
	}
	if i := strings.LastIndexFunc(s, notLetter); i >= 0 {
		_, w := utf8.DecodeRuneInString(s[i:])
		if len(s)-i-w == 3 {
			s = s[:i+w]
		}
	}
	return s
}

func addAmounts(a, b *Amount) *Amount {
	return NewAmount(a.Add(b.Decimal))
}

func subAmounts(a, b *Amount) *Amount {
	return NewAmount(a.Sub(b.Decimal))
}
