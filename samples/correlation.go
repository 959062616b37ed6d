package samples

import (
	"context"

	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/pipeline"
)

const noSuppliers = "no suppliers in the same city"

// SuppliersByCustomer pairs every customer with the suppliers at the same
// location by testing each pair.
func SuppliersByCustomer(src *dataset.Source) *pipeline.Pipeline[pipeline.Correlated[*dataset.Customer, *dataset.Supplier]] {
	return pipeline.Correlate(src.Customers(), src.Suppliers(), func(c *dataset.Customer, s *dataset.Supplier) bool {
		return c.Country == s.Country && c.City == s.City
	})
}

// SuppliersByCustomerKeyed is SuppliersByCustomer over a location index.
func SuppliersByCustomerKeyed(src *dataset.Source) *pipeline.Pipeline[pipeline.Correlated[*dataset.Customer, *dataset.Supplier]] {
	return pipeline.CorrelateByKey(src.Customers(), src.Suppliers(),
		(*dataset.Customer).Location,
		(*dataset.Supplier).Location,
	)
}

// CustomersByLocation groups customers by (city, country) in first-seen
// order.
func CustomersByLocation(src *dataset.Source) *pipeline.Pipeline[pipeline.Group[dataset.Location, *dataset.Customer]] {
	return pipeline.GroupBy(src.Customers(), (*dataset.Customer).Location)
}

// SuppliersByLocation pairs each customer location with its suppliers.
func SuppliersByLocation(src *dataset.Source) *pipeline.Pipeline[pipeline.Correlated[pipeline.Group[dataset.Location, *dataset.Customer], *dataset.Supplier]] {
	return pipeline.CorrelateByKey(CustomersByLocation(src), src.Suppliers(),
		func(g pipeline.Group[dataset.Location, *dataset.Customer]) dataset.Location { return g.Key },
		(*dataset.Supplier).Location,
	)
}

func runSuppliersSameCity(ctx context.Context, env *Env) error {
	return writeCustomerSuppliers(ctx, env, SuppliersByCustomer(env.Source))
}

func runSuppliersSameCityKeyed(ctx context.Context, env *Env) error {
	return writeCustomerSuppliers(ctx, env, SuppliersByCustomerKeyed(env.Source))
}

func writeCustomerSuppliers(ctx context.Context, env *Env, p *pipeline.Pipeline[pipeline.Correlated[*dataset.Customer, *dataset.Supplier]]) error {
	return pipeline.ForEach(ctx, p, func(ctx context.Context, row pipeline.Correlated[*dataset.Customer, *dataset.Supplier]) error {
		if err := env.Out.Heading("For customer %s", row.Outer.CompanyName); err != nil {
			return err
		}
		return writeSuppliers(ctx, env.Out, row.Inner)
	})
}

func runSuppliersSameCityGrouped(ctx context.Context, env *Env) error {
	return pipeline.ForEach(ctx, SuppliersByLocation(env.Source),
		func(ctx context.Context, row pipeline.Correlated[pipeline.Group[dataset.Location, *dataset.Customer], *dataset.Supplier]) error {
			loc := row.Outer.Key
			if err := env.Out.Heading("For %d customer(s) in %s, %s", row.Outer.Len(), loc.City, loc.Country); err != nil {
				return err
			}
			return writeSuppliers(ctx, env.Out, row.Inner)
		})
}

func writeSuppliers(ctx context.Context, out *dump.Dumper, suppliers *pipeline.Pipeline[*dataset.Supplier]) error {
	found, err := pipeline.Any(ctx, suppliers, nil)
	if err != nil {
		return err
	}
	if !found {
		return out.Write(noSuppliers)
	}
	return dump.Sequence(ctx, out, suppliers)
}
