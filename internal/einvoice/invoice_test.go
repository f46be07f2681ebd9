package einvoice

import (
	"encoding/json"
	"testing"
)

func TestDeriveOnlyFillsMissingSide(t *testing.T) {
	inv := &Invoice{Net: MustAmount("10"), VAT: MustAmount("1.9"), Gross: MustAmount("12")}
	inv.Derive()
	if inv.Gross.String() != "12.00" {
		t.Fatalf("derive must not overwrite an extracted gross, got %s", inv.Gross)
	}

	noVAT := &Invoice{Gross: MustAmount("12")}
	noVAT.Derive()
	if noVAT.Net != nil {
		t.Fatalf("net must stay unknown without vat, got %s", noVAT.Net)
	}
}

func TestInvoiceJSONShape(t *testing.T) {
	date := "2025-09-15"
	b, err := json.Marshal(&Invoice{Format: FormatCII, Date: &date, Net: MustAmount("89"), VAT: MustAmount("16.91")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"format":"cii","date":"2025-09-15","supplier":null,"currency":null,"net":89.00,"vat":16.91,"gross":null}`
	if string(b) != want {
		t.Fatalf("expected %s got %s", want, b)
	}
}
