// Package validation checks dataset records and configuration before any
// query runs.
//
// Struct tag validation uses go-playground/validator with json tag names in
// messages. decimal.Decimal fields are compared as numbers, so monetary
// amounts accept the usual numeric tags:
//
//	type Order struct {
//	    Total decimal.Decimal `json:"total" validate:"gte=0"`
//	}
//	err := validation.Validate(order)
//
// Programmatic validation collects field errors:
//
//	v := validation.New()
//	v.OneOf("output.format", cfg.Format, []string{"text", "json"})
//	err := v.Validate()
package validation
