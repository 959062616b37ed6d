package samples

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/pipeline"
)

// CityStat summarises the customers of one location. AverageTotal is nil
// when nobody there has ordered.
type CityStat struct {
	City              string           `json:"city"`
	Country           string           `json:"country"`
	Customers         int              `json:"customers"`
	Orders            int              `json:"orders"`
	AverageTotal      *decimal.Decimal `json:"average_total"`
	OrdersPerCustomer int              `json:"orders_per_customer"`
}

// CityStatistics computes a CityStat per customer location. Orders per
// customer uses integer division.
func CityStatistics(src *dataset.Source) *pipeline.Pipeline[CityStat] {
	return pipeline.MapErr(CustomersByLocation(src), func(ctx context.Context, g pipeline.Group[dataset.Location, *dataset.Customer]) (CityStat, error) {
		orders := pipeline.FlatMap(g.Members(), (*dataset.Customer).OrderPipeline)
		n, err := pipeline.Count(ctx, orders)
		if err != nil {
			return CityStat{}, err
		}
		stat := CityStat{
			City:              g.Key.City,
			Country:           g.Key.Country,
			Customers:         g.Len(),
			Orders:            n,
			OrdersPerCustomer: n / g.Len(),
		}
		avg, err := pipeline.AverageDecimal(ctx, orders, orderTotal)
		switch {
		case err == nil:
			stat.AverageTotal = &avg
		case !errors.IsCode(err, errors.ErrCodeEmptySequence):
			return CityStat{}, err
		}
		return stat, nil
	})
}

// Period is a calendar bucket of order activity. Zero fields are unused by
// the bucketing.
type Period struct {
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
}

// String renders the period as "1997", "March" or "1997-03".
func (p Period) String() string {
	switch {
	case p.Year != 0 && p.Month != 0:
		return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	case p.Month != 0:
		return p.Month.String()
	}
	return time.Date(p.Year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}

// Activity is the number of orders placed in a period.
type Activity struct {
	Period Period `json:"period"`
	Orders int    `json:"orders"`
}

// ByMonth buckets orders by calendar month across years.
func ByMonth(o *dataset.Order) Period { return Period{Month: o.OrderDate.Month()} }

// ByYear buckets orders by year.
func ByYear(o *dataset.Order) Period { return Period{Year: o.OrderDate.Year()} }

// ByYearMonth buckets orders by year and month.
func ByYearMonth(o *dataset.Order) Period {
	return Period{Year: o.OrderDate.Year(), Month: o.OrderDate.Month()}
}

var (
	periodYear  = pipeline.Asc(func(a Activity) int { return a.Period.Year })
	periodMonth = pipeline.Asc(func(a Activity) time.Month { return a.Period.Month })
)

// OrderActivity counts orders per period, sorted by year and then month.
func OrderActivity(src *dataset.Source, period func(*dataset.Order) Period) *pipeline.Pipeline[Activity] {
	counts := pipeline.Map(pipeline.GroupBy(src.Orders(), period), func(g pipeline.Group[Period, *dataset.Order]) Activity {
		return Activity{Period: g.Key, Orders: g.Len()}
	})
	return pipeline.OrderBy(counts, periodYear).ThenBy(periodMonth).Pipeline
}

func runCityStatistics(ctx context.Context, env *Env) error {
	return pipeline.ForEach(ctx, CityStatistics(env.Source), func(_ context.Context, s CityStat) error {
		return env.Out.Write(s)
	})
}

func runOrderActivity(ctx context.Context, env *Env) error {
	for _, bucket := range []struct {
		caption string
		period  func(*dataset.Order) Period
	}{
		{"By month", ByMonth},
		{"By year", ByYear},
		{"By year and month", ByYearMonth},
	} {
		if err := env.Out.Heading("%s", bucket.caption); err != nil {
			return err
		}
		if err := dump.Sequence(ctx, env.Out, OrderActivity(env.Source, bucket.period)); err != nil {
			return err
		}
	}
	return nil
}
