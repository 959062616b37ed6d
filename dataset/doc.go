// Package dataset holds the record types the query samples run over and the
// Source that exposes them as pipelines.
//
// A Source is built once, validated, and never mutated afterwards; every
// pipeline it hands out iterates the same resident slices. Default returns the
// embedded sample data set, Load and LoadFile read the same JSON layout from
// elsewhere:
//
//	{
//	  "customers": [{"id": "ALFKI", "company_name": "...", "orders": [...]}],
//	  "products":  [{"id": 1, "name": "...", "unit_price": "18.00"}],
//	  "suppliers": [{"id": 1, "company_name": "...", "city": "London"}]
//	}
package dataset
