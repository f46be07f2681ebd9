package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// invoiceSchema describes a normalized invoice as clients echo it back in
// feedback. Amounts may arrive as numbers or as edited strings.
const invoiceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "format":   {"type": ["string", "null"]},
    "date":     {"type": ["string", "null"]},
    "supplier": {"type": ["string", "null"]},
    "currency": {"type": ["string", "null"], "maxLength": 8},
    "net":      {"type": ["number", "string", "null"]},
    "vat":      {"type": ["number", "string", "null"]},
    "gross":    {"type": ["number", "string", "null"]}
  }
}`

// InvoiceSchema validates JSON documents against the normalized invoice shape.
type InvoiceSchema struct {
	schema *jsonschema.Schema
}

func NewInvoiceSchema() (*InvoiceSchema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("invoice.json", strings.NewReader(invoiceSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("invoice.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &InvoiceSchema{schema: schema}, nil
}

// MustInvoiceSchema is NewInvoiceSchema for the embedded schema, which is
// known to compile.
func MustInvoiceSchema() *InvoiceSchema {
	s, err := NewInvoiceSchema()
	if err != nil {
		panic(err)
	}
	return s
}

func (s *InvoiceSchema) Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
