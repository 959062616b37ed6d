package samples

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/pipeline"
)

// CustomerStart is a customer with the date of their first order. Start is
// nil for customers without orders.
type CustomerStart struct {
	CustomerID  string          `json:"customer_id"`
	CompanyName string          `json:"company_name"`
	Start       *time.Time      `json:"start"`
	Total       decimal.Decimal `json:"total"`
}

// FirstOrderDate returns the earliest order date of c, or nil when c has no
// orders.
func FirstOrderDate(ctx context.Context, c *dataset.Customer) (*time.Time, error) {
	byDate := pipeline.OrderBy(c.OrderPipeline(), pipeline.AscFunc(orderDate, time.Time.Compare))
	first, found, err := pipeline.First(ctx, byDate.Pipeline)
	if err != nil || !found {
		return nil, err
	}
	start := first.OrderDate
	return &start, nil
}

func orderDate(o *dataset.Order) time.Time { return o.OrderDate }

// CustomerStarts maps every customer to its CustomerStart in source order.
func CustomerStarts(src *dataset.Source) *pipeline.Pipeline[CustomerStart] {
	return pipeline.MapErr(src.Customers(), func(ctx context.Context, c *dataset.Customer) (CustomerStart, error) {
		start, err := FirstOrderDate(ctx, c)
		if err != nil {
			return CustomerStart{}, err
		}
		total, err := OrderTotal(ctx, c)
		if err != nil {
			return CustomerStart{}, err
		}
		return CustomerStart{
			CustomerID:  c.ID,
			CompanyName: c.CompanyName,
			Start:       start,
			Total:       total,
		}, nil
	})
}

// Sort keys over CustomerStart. Customers without orders come first by date.
var (
	ByStart = pipeline.NullableBy(func(s CustomerStart) *time.Time { return s.Start }, time.Time.Compare, pipeline.Ascending)
	ByTotal = pipeline.AscFunc(func(s CustomerStart) decimal.Decimal { return s.Total }, decimal.Decimal.Cmp)
	ByName  = pipeline.Asc(func(s CustomerStart) string { return s.CompanyName })
)

// WithOrders keeps customers that have placed at least one order.
func WithOrders(p *pipeline.Pipeline[CustomerStart]) *pipeline.Pipeline[CustomerStart] {
	return pipeline.Filter(p, func(s CustomerStart) bool { return s.Start != nil })
}

func runFirstOrder(ctx context.Context, env *Env) error {
	return dump.Sequence(ctx, env.Out, WithOrders(CustomerStarts(env.Source)))
}

func runFirstOrderSorted(ctx context.Context, env *Env) error {
	starts := CustomerStarts(env.Source)
	for _, o := range []struct {
		caption string
		key     pipeline.SortKey[CustomerStart]
	}{
		{"Ordered by date:", ByStart},
		{"Ordered by total:", ByTotal},
		{"Ordered by name:", ByName},
	} {
		if err := env.Out.Heading("%s", o.caption); err != nil {
			return err
		}
		if err := dump.Sequence(ctx, env.Out, pipeline.OrderBy(starts, o.key).Pipeline); err != nil {
			return err
		}
	}
	return nil
}

func runFirstOrderThenBy(ctx context.Context, env *Env) error {
	sorted := pipeline.OrderBy(CustomerStarts(env.Source), ByStart).ThenBy(ByTotal).ThenBy(ByName)
	return dump.Sequence(ctx, env.Out, sorted.Pipeline)
}
