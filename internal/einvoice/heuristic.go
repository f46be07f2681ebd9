package einvoice

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	isoDate   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dottedDay = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
	slashDay  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	legalEntity = regexp.MustCompile(`(?i)(\b(GmbH|AG|UG|KG|OHG|GbR|Ltd|Inc)\b|\be\.\s?K\.|Rechnung\s+von)`)
	euroMarker  = regexp.MustCompile(`(?i)€|\bEUR\b`)

	netLabel   = regexp.MustCompile(`(?i)\b(netto|zwischensumme|net amount|subtotal)`)
	vatLabel   = regexp.MustCompile(`(?i)\b(ust|mwst|vat|tax)\b`)
	vatIDLine  = regexp.MustCompile(`(?i)\b(ust|vat)[-.\s]*(id|idnr|identnr)\b|steuer-?nr|tax\s*id`)
	grossLabel = regexp.MustCompile(`(?i)\b(brutto|gesamt|total|amount due|zu zahlen|payable)`)

	trailingAmount = regexp.MustCompile(`([-+]?[0-9][0-9.,]*)\s*(?:€|EUR)?\s*$`)
	euroAmount     = regexp.MustCompile(`€\s*([-+]?[0-9][0-9.,]*)`)
)

// ParseText guesses invoice fields from recognised plain text. It is the
// lowest-confidence path and never fails; unrecognised fields stay nil.
func ParseText(text string) *Invoice {
	text = norm.NFKC.String(text)
	inv := &Invoice{Format: FormatOCR}

	inv.Date = textDate(text)

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	for _, l := range lines {
		if legalEntity.MatchString(l) {
			s := l
			inv.Supplier = &s
			break
		}
	}
	if inv.Supplier == nil && len(lines) > 0 {
		s := lines[0]
		inv.Supplier = &s
	}

	if euroMarker.MatchString(text) {
		eur := "EUR"
		inv.Currency = &eur
	}

	inv.Net = labelledAmount(lines, netLabel)
	// "Gesamt inkl. MwSt" names the gross, not the tax.
	inv.VAT = labelledAmount(lines, vatLabel, vatIDLine, grossLabel)
	inv.Gross = labelledAmount(lines, grossLabel, netLabel)

	inv.Derive()
	return inv
}

func textDate(text string) *string {
	if m := isoDate.FindStringSubmatch(text); m != nil {
		d := m[1] + "-" + m[2] + "-" + m[3]
		return &d
	}
	for _, re := range []*regexp.Regexp{dottedDay, slashDay} {
		if m := re.FindStringSubmatch(text); m != nil {
			d := m[3] + "-" + twoDigits(m[2]) + "-" + twoDigits(m[1])
			return &d
		}
	}
	return nil
}

func twoDigits(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// labelledAmount returns the amount on the first line that matches label,
// matches none of exclude, and carries a number.
func labelledAmount(lines []string, label *regexp.Regexp, exclude ...*regexp.Regexp) *Amount {
next:
	for _, l := range lines {
		if !label.MatchString(l) {
			continue
		}
		for _, ex := range exclude {
			if ex.MatchString(l) {
				continue next
			}
		}
		if a := lineAmount(l); a != nil {
			return a
		}
	}
	return nil
}

func lineAmount(line string) *Amount {
	if m := trailingAmount.FindStringSubmatch(line); m != nil {
		if a := ParseAmount(m[1]); a != nil {
			return a
		}
	}
	if m := euroAmount.FindStringSubmatch(line); m != nil {
		return ParseAmount(m[1])
	}
	return nil
}
