package einvoice

import (
	"errors"
	"regexp"
)

var ErrCIIRootNotFound = errors.New("CII root element not found")

var (
	ciiRootPattern = regexp.MustCompile(`<\s*([A-Za-z0-9_.-]+:)?CrossIndustryInvoice\b`)
	ciiDate102     = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
)

// LooksLikeCII is a prefix-agnostic check for a CrossIndustryInvoice element,
// cheap enough to run before parsing.
func LooksLikeCII(xmlText string) bool {
	return ciiRootPattern.MatchString(xmlText)
}

// NormalizeCII maps a CrossIndustryInvoice tree onto an Invoice.
func NormalizeCII(root *Node) (*Invoice, error) {
	if root == nil || root.Name != "CrossIndustryInvoice" {
		return nil, ErrCIIRootNotFound
	}

	inv := &Invoice{Format: FormatCII}
	inv.Date = ciiIssueDate(root.Path("ExchangedDocument", "IssueDateTime", "DateTimeString"))

	trade := root.Child("SupplyChainTradeTransaction")
	inv.Supplier = stringPtr(TextOf(trade.Path("ApplicableHeaderTradeAgreement", "SellerTradeParty", "Name")))

	settlement := trade.Child("ApplicableHeaderTradeSettlement")
	sums := settlement.First(
		"SpecifiedTradeSettlementHeaderMonetarySummation",
		"SpecifiedTradeSettlementMonetarySummation",
	)

	netNode := sums.First("TaxBasisTotalAmount", "LineTotalAmount")
	// TaxTotalAmount may repeat once per currency; the first one counts.
	vatNode := sums.Child("TaxTotalAmount")
	grossNode := sums.First("GrandTotalAmount", "TaxInclusiveAmount", "DuePayableAmount")

	inv.Net = NumberOf(netNode)
	inv.VAT = NumberOf(vatNode)
	inv.Gross = NumberOf(grossNode)

	if cur, ok := firstAttribute("currencyID", netNode, grossNode, vatNode); ok {
		inv.Currency = &cur
	} else {
		inv.Currency = stringPtr(TextOf(settlement.Child("InvoiceCurrencyCode")))
	}

	inv.Derive()
	return inv, nil
}

// ciiIssueDate rewrites format 102 (YYYYMMDD) to YYYY-MM-DD and passes other values through.
func ciiIssueDate(n *Node) *string {
	raw, ok := TextOf(n)
	if !ok {
		return nil
	}
	if f, ok := AttributeOf(n, "format"); ok && f == "102" {
		if m := ciiDate102.FindStringSubmatch(raw); m != nil {
			d := m[1] + "-" + m[2] + "-" + m[3]
			return &d
		}
	}
	return &raw
}
