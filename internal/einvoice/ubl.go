package einvoice

// IsUBLRoot reports whether root is, or directly wraps, a UBL invoice document.
func IsUBLRoot(root *Node) bool {
	if root == nil {
		return false
	}
	switch root.Name {
	case "Invoice", "CreditNote":
		return true
	}
	return root.Child("Invoice") != nil
}

// NormalizeUBL maps a UBL Invoice (or CreditNote) tree onto an Invoice.
// Missing fields stay nil; there is no failure mode.
func NormalizeUBL(root *Node) *Invoice {
	doc := root
	if root != nil && root.Name != "Invoice" && root.Name != "CreditNote" {
		if wrapped := root.Child("Invoice"); wrapped != nil {
			doc = wrapped
		}
	}

	inv := &Invoice{Format: FormatUBL}

	monetary := doc.Child("LegalMonetaryTotal")
	payable := monetary.First("PayableAmount", "TaxInclusiveAmount")
	lineExt := monetary.Child("LineExtensionAmount")
	taxTotal := doc.Path("TaxTotal", "TaxAmount")

	inv.Gross = NumberOf(payable)
	inv.VAT = NumberOf(taxTotal)
	inv.Net = NumberOf(lineExt)

	if cur, ok := firstAttribute("currencyID", payable, lineExt, taxTotal); ok {
		inv.Currency = &cur
	} else {
		inv.Currency = stringPtr(TextOf(doc.Child("DocumentCurrencyCode")))
	}

	party := doc.Path("AccountingSupplierParty", "Party")
	if name, ok := TextOf(party.Path("PartyName", "Name")); ok {
		inv.Supplier = &name
	} else if name, ok := TextOf(party.Child("Name")); ok {
		inv.Supplier = &name
	} else {
		inv.Supplier = stringPtr(TextOf(party.Path("PartyLegalEntity", "RegistrationName")))
	}

	inv.Date = stringPtr(TextOf(doc.First("IssueDate", "InvoiceDate")))

	inv.Derive()
	return inv
}
