package einvoice

import (
	"encoding/json"
	"testing"
)

func TestParseAmountSeparators(t *testing.T) {
	cases := map[string]string{
		"89,00":        "89.00",
		"1.234,56":     "1234.56",
		"1,234.56":     "1234.56",
		"105.91":       "105.91",
		"  16.91 EUR ": "16.91",
		"-3,50":        "-3.50",
		"1.234.567":    "1234567.00",
		"1,234,567":    "1234567.00",
		"7":            "7.00",
		"EUR 1.234,56": "1234.56",
		"€ 12,50":      "12.50",
		"16.91EUR":     "16.91",
		"1 234,56":     "1234.56",
		"+5":           "5.00",
		"1.234":        "1.23",
	}
	for in, want := range cases {
		got := ParseAmount(in)
		if got == nil {
			t.Fatalf("expected %s for %q got nil", want, in)
		}
		if got.String() != want {
			t.Fatalf("expected %s for %q got %s", want, in, got)
		}
	}
}

func TestParseAmountRejectsNonNumbers(t *testing.T) {
	for _, in := range []string{"", "abc", "--", ",", "1-2", "1e3", "12abc", "EUR", "12 Stück", "n/a"} {
		if got := ParseAmount(in); got != nil {
			t.Fatalf("expected nil for %q got %s", in, got)
		}
	}
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Net   *Amount `json:"net"`
		Gross *Amount `json:"gross"`
	}{Net: MustAmount("89")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"net":89.00,"gross":null}` {
		t.Fatalf("unexpected json %s", b)
	}

	var out struct {
		A *Amount `json:"a"`
		B *Amount `json:"b"`
		C *Amount `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":16.91,"b":"1.234,50","c":null}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.A.String() != "16.91" || out.B.String() != "1234.50" || out.C != nil {
		t.Fatalf("unexpected amounts a=%v b=%v c=%v", out.A, out.B, out.C)
	}
	if err := json.Unmarshal([]byte(`{"a":"n/a"}`), &out); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}
