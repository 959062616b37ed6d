package samples

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/pipeline"
)

// Tier classifies a product by unit price.
type Tier string

// Cost tiers.
const (
	Cheap     Tier = "Cheap"
	Medium    Tier = "Medium"
	Expensive Tier = "Expensive"
)

// CostTier is Cheap below low, Expensive above high and Medium otherwise.
// Both bounds are inclusive for Medium.
func CostTier(p *dataset.Product, low, high decimal.Decimal) (Tier, error) {
	if p == nil {
		return "", errors.InvalidArgument("product")
	}
	switch {
	case p.UnitPrice.LessThan(low):
		return Cheap, nil
	case p.UnitPrice.GreaterThan(high):
		return Expensive, nil
	}
	return Medium, nil
}

// TieredProduct is a product with its cost tier.
type TieredProduct struct {
	Tier    Tier
	Product *dataset.Product
}

// ProductsByCostTier groups products by tier in first-seen tier order.
func ProductsByCostTier(src *dataset.Source, low, high decimal.Decimal) *pipeline.Pipeline[pipeline.Group[Tier, TieredProduct]] {
	tiered := pipeline.MapErr(src.Products(), func(_ context.Context, p *dataset.Product) (TieredProduct, error) {
		tier, err := CostTier(p, low, high)
		return TieredProduct{Tier: tier, Product: p}, err
	})
	return pipeline.GroupBy(tiered, func(t TieredProduct) Tier { return t.Tier })
}

func category(p *dataset.Product) string  { return p.Category }
func unitsInStock(p *dataset.Product) int { return p.UnitsInStock }

var byUnitPrice = pipeline.AscFunc(func(p *dataset.Product) decimal.Decimal { return p.UnitPrice }, decimal.Decimal.Cmp)

// ProductsByCategory groups products by category.
func ProductsByCategory(src *dataset.Source) *pipeline.Pipeline[pipeline.Group[string, *dataset.Product]] {
	return pipeline.GroupBy(src.Products(), category)
}

// ByStock groups products by units in stock.
func ByStock(products *pipeline.Pipeline[*dataset.Product]) *pipeline.Pipeline[pipeline.Group[int, *dataset.Product]] {
	return pipeline.GroupBy(products, unitsInStock)
}

// ByUnitPrice orders products from cheapest to most expensive.
func ByUnitPrice(products *pipeline.Pipeline[*dataset.Product]) *pipeline.Pipeline[*dataset.Product] {
	return pipeline.OrderBy(products, byUnitPrice).Pipeline
}

// CategoryStockOrder flattens category, stock and price grouping into one
// sequence of products.
func CategoryStockOrder(src *dataset.Source) *pipeline.Pipeline[*dataset.Product] {
	return pipeline.FlatMap(ProductsByCategory(src), func(c pipeline.Group[string, *dataset.Product]) *pipeline.Pipeline[*dataset.Product] {
		return pipeline.FlatMap(ByStock(c.Members()), func(s pipeline.Group[int, *dataset.Product]) *pipeline.Pipeline[*dataset.Product] {
			return ByUnitPrice(s.Members())
		})
	})
}

func productName(p *dataset.Product) string { return p.Name }

func runCategoryStock(ctx context.Context, env *Env) error {
	return pipeline.ForEach(ctx, ProductsByCategory(env.Source), func(ctx context.Context, c pipeline.Group[string, *dataset.Product]) error {
		if err := env.Out.Heading("%s", c.Key); err != nil {
			return err
		}
		return pipeline.ForEach(ctx, ByStock(c.Members()), func(ctx context.Context, s pipeline.Group[int, *dataset.Product]) error {
			if err := env.Out.Heading("---%d", s.Key); err != nil {
				return err
			}
			names := pipeline.Map(ByUnitPrice(s.Members()), func(p *dataset.Product) string { return "--------" + p.Name })
			return dump.Sequence(ctx, env.Out, names)
		})
	})
}

func runCategoryStockFlat(ctx context.Context, env *Env) error {
	return dump.Sequence(ctx, env.Out, pipeline.Map(CategoryStockOrder(env.Source), productName))
}

func runCostTier(ctx context.Context, env *Env) error {
	groups := ProductsByCostTier(env.Source, env.CostLow, env.CostHigh)
	return pipeline.ForEach(ctx, groups, func(ctx context.Context, g pipeline.Group[Tier, TieredProduct]) error {
		if err := env.Out.Heading("%s", g.Key); err != nil {
			return err
		}
		names := pipeline.Map(g.Members(), func(t TieredProduct) string { return "---" + t.Product.Name })
		return dump.Sequence(ctx, env.Out, names)
	})
}
