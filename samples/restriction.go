package samples

import (
	"context"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/pipeline"
)

// LowNumbers keeps the elements of numbers below limit in their original
// order.
func LowNumbers(numbers []int, limit int) *pipeline.Pipeline[int] {
	return pipeline.Filter(pipeline.FromSlice(numbers), func(n int) bool { return n < limit })
}

// InStock keeps products with at least one unit in stock.
func InStock(src *dataset.Source) *pipeline.Pipeline[*dataset.Product] {
	return pipeline.Filter(src.Products(), func(p *dataset.Product) bool { return p.UnitsInStock > 0 })
}

// OrderTotal sums a customer's order totals. No orders sums to zero.
func OrderTotal(ctx context.Context, c *dataset.Customer) (decimal.Decimal, error) {
	return pipeline.SumDecimal(ctx, c.OrderPipeline(), orderTotal)
}

func orderTotal(o *dataset.Order) decimal.Decimal { return o.Total }

// TotalAbove keeps customers whose orders sum to strictly more than threshold.
func TotalAbove(customers *pipeline.Pipeline[*dataset.Customer], threshold decimal.Decimal) *pipeline.Pipeline[*dataset.Customer] {
	return pipeline.FilterErr(customers, func(ctx context.Context, c *dataset.Customer) (bool, error) {
		total, err := OrderTotal(ctx, c)
		if err != nil {
			return false, err
		}
		return total.GreaterThan(threshold), nil
	})
}

// AnyOrderAbove keeps customers with at least one order strictly above
// threshold.
func AnyOrderAbove(customers *pipeline.Pipeline[*dataset.Customer], threshold decimal.Decimal) *pipeline.Pipeline[*dataset.Customer] {
	return pipeline.FilterErr(customers, func(ctx context.Context, c *dataset.Customer) (bool, error) {
		return pipeline.Any(ctx, c.OrderPipeline(), func(o *dataset.Order) bool {
			return o.Total.GreaterThan(threshold)
		})
	})
}

// HasAreaCode reports whether t is present and contains a parenthesis.
func HasAreaCode(t dataset.Text) bool {
	return t.Valid && strings.ContainsAny(t.Value, "()")
}

// InvalidCodes keeps customers whose postal code, phone or region lacks an
// area code.
func InvalidCodes(src *dataset.Source) *pipeline.Pipeline[*dataset.Customer] {
	return pipeline.Filter(src.Customers(), func(c *dataset.Customer) bool {
		return !HasAreaCode(c.PostalCode) || !HasAreaCode(c.Phone) || !HasAreaCode(c.Region)
	})
}

// IrregularCodes keeps customers with a non-numeric postal code, an absent or
// empty phone, or a region without an area code.
func IrregularCodes(src *dataset.Source) *pipeline.Pipeline[*dataset.Customer] {
	return pipeline.Filter(src.Customers(), func(c *dataset.Customer) bool {
		return (c.PostalCode.Valid && !allDigits(c.PostalCode.Value)) ||
			c.Phone.IsEmpty() ||
			!HasAreaCode(c.Region)
	})
}

func allDigits(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}

func runLowNumbers(ctx context.Context, env *Env) error {
	if err := env.Out.Heading("Numbers < 5:"); err != nil {
		return err
	}
	return dump.Sequence(ctx, env.Out, LowNumbers([]int{5, 4, 1, 3, 9, 8, 6, 7, 2, 0}, 5))
}

func runInStock(ctx context.Context, env *Env) error {
	return dump.Sequence(ctx, env.Out, InStock(env.Source))
}

func runTotalAbove(ctx context.Context, env *Env) error {
	for _, threshold := range env.SumThresholds {
		if err := env.Out.Heading("Customers with order total above %s", threshold); err != nil {
			return err
		}
		if err := dump.Sequence(ctx, env.Out, TotalAbove(env.Source.Customers(), threshold)); err != nil {
			return err
		}
	}
	return nil
}

func runAnyOrderAbove(ctx context.Context, env *Env) error {
	for _, threshold := range env.AnyThresholds {
		if err := env.Out.Heading("Customers with any order above %s", threshold); err != nil {
			return err
		}
		if err := dump.Sequence(ctx, env.Out, AnyOrderAbove(env.Source.Customers(), threshold)); err != nil {
			return err
		}
	}
	return nil
}

func runInvalidCodes(ctx context.Context, env *Env) error {
	return dump.Sequence(ctx, env.Out, InvalidCodes(env.Source))
}

func runInvalidCodesAlt(ctx context.Context, env *Env) error {
	return dump.Sequence(ctx, env.Out, IrregularCodes(env.Source))
}
