// Package expr compiles CEL boolean expressions into pipeline predicates.
//
// A Schema names the variables an expression may use and how to read them
// from a record. Compiled programs are cached per schema, so compiling the
// same expression twice is cheap:
//
//	products, _ := expr.NewSchema("products", []expr.Field{
//	    {Name: "category", Type: cel.StringType},
//	    {Name: "units_in_stock", Type: cel.IntType},
//	}, func(p *dataset.Product) map[string]any { ... })
//
//	pred, err := products.Compile(`category == "Beverages" && units_in_stock > 0`)
//	inStock := pipeline.FilterErr(src.Products(), pred.Match)
package expr
