// Package pipeline provides composable, pull-based query operators over
// in-memory collections.
//
// Pipelines are lazy: no work happens until values are pulled via Collect,
// ForEach, Drain or one of the aggregates. Each terminal call creates a fresh
// iterator chain, so a pipeline can be iterated any number of times and every
// pass re-runs its stages against the source.
//
// # Operators
//
// Streaming (one element at a time):
//
//   - Filter, FilterErr: keep values matching a predicate (where)
//   - Map, MapErr: transform each value (select)
//   - FlatMap, FlatMapSlice: flatten one level of nested sequences (selectMany)
//   - Tap: side-effect without altering the value
//   - Concat: join pipelines sequentially
//   - Correlate, CorrelateByKey: pair each outer value with a filtered inner pipeline
//
// Blocking on first pull (must see all of upstream):
//
//   - GroupBy: partition by a comparable key, groups in first-seen key order
//   - OrderBy / ThenBy: stable multi-key sort, nil keys first
//   - Reduce: accumulate all values into one result
//
// Terminal aggregates: Count, Sum, SumDecimal, Average, AverageDecimal, Any,
// First, FirstWhere.
//
// Operators never start goroutines and never swallow errors: an error from
// upstream, a predicate or a selector stops iteration and is returned as is.
//
// # Usage
//
//	low := pipeline.Filter(pipeline.FromSlice(numbers), func(n int) bool { return n < 5 })
//	got, err := pipeline.Collect(ctx, low)
//
//	byCity := pipeline.GroupBy(src.Customers(), func(c *dataset.Customer) dataset.Location {
//	    return c.Location()
//	})
//	sorted := pipeline.OrderBy(src.Products(), pipeline.Asc(func(p *dataset.Product) string {
//	    return p.Category
//	})).ThenBy(pipeline.DescFunc(func(p *dataset.Product) decimal.Decimal {
//	    return p.UnitPrice
//	}, decimal.Decimal.Cmp))
package pipeline
