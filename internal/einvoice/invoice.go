// Package einvoice turns UBL, UN/CEFACT CII and OCR text into one canonical
// invoice record.
package einvoice

type Format string

const (
	FormatUBL Format = "ubl"
	FormatCII Format = "cii"
	FormatOCR Format = "ocr"
)

// Invoice is the normalized record. Every field is optional: an invoice with
// nothing recognised is a valid, low-confidence result.
type Invoice struct {
	Format   Format  `json:"format,omitempty"`
	Date     *string `json:"date"`
	Supplier *string `json:"supplier"`
	Currency *string `json:"currency"`
	Net      *Amount `json:"net" swaggertype:"number"`
	VAT      *Amount `json:"vat" swaggertype:"number"`
	Gross    *Amount `json:"gross" swaggertype:"number"`
}

// Derive fills in net or gross when the other one and vat are known.
func (inv *Invoice) Derive() {
	if inv.VAT == nil {
		return
	}
	switch {
	case inv.Net == nil && inv.Gross != nil:
		inv.Net = subAmounts(inv.Gross, inv.VAT)
	case inv.Gross == nil && inv.Net != nil:
		inv.Gross = addAmounts(inv.Net, inv.VAT)
	}
}

// Empty reports whether no field was recognised.
func (inv *Invoice) Empty() bool {
	return inv == nil || (inv.Date == nil && inv.Supplier == nil && inv.Currency == nil &&
		inv.Net == nil && inv.VAT == nil && inv.Gross == nil)
}
