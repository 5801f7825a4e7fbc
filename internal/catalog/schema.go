package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/diegomarmat/chela-suppliers/constants"
)

// importSchema describes the supplier/product catalog document accepted by
// the import endpoint.
var importSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"suppliers": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"short_name", "company_name", "payment_terms"},
				"additionalProperties": false,
				"properties": map[string]any{
					"short_name":          map[string]any{"type": "string", "minLength": 1},
					"company_name":        map[string]any{"type": "string", "minLength": 1},
					"category":            map[string]any{"type": "string"},
					"contact_person":      map[string]any{"type": "string"},
					"order_phone":         map[string]any{"type": "string"},
					"admin_phone":         map[string]any{"type": "string"},
					"email":               map[string]any{"type": "string"},
					"payment_terms":       map[string]any{"type": "string", "enum": toAny(constants.PaymentTermsStrings())},
					"ppn_handling":        map[string]any{"type": "string", "enum": []any{"included", "added"}},
					"bank_name":           map[string]any{"type": "string"},
					"bank_account_number": map[string]any{"type": "string"},
					"bank_account_name":   map[string]any{"type": "string"},
					"delivery_days":       map[string]any{"type": "string"},
					"notes":               map[string]any{"type": "string"},
				},
			},
		},
		"products": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"short_name", "unit"},
				"additionalProperties": false,
				"properties": map[string]any{
					"short_name":            map[string]any{"type": "string", "minLength": 1},
					"brand":                 map[string]any{"type": "string"},
					"invoice_name":          map[string]any{"type": "string"},
					"category":              map[string]any{"type": "string"},
					"unit":                  map[string]any{"type": "string", "minLength": 1},
					"supplier_short_name":   map[string]any{"type": "string"},
					"is_backup":             map[string]any{"type": "boolean"},
					"unit_size":             map[string]any{"type": "number", "exclusiveMinimum": 0},
					"unit_size_measurement": map[string]any{"type": "string"},
					"current_price":         map[string]any{"type": "number", "exclusiveMinimum": 0},
					"notes":                 map[string]any{"type": "string"},
				},
			},
		},
	},
}

func toAny(ss []string) []any {
	result := make([]any, len(ss))
	for i, s := range ss {
		result[i] = s
	}
	return result
}

// validateDocument validates raw JSON against the import schema.
func validateDocument(data []byte) error {
	b, err := json.Marshal(importSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("catalog.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
