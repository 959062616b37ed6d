package samples

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/config"
	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/logger"
)

// Categories.
const (
	CategoryRestriction = "Restriction"
	CategoryCorrelation = "Correlation"
	CategoryOrdering    = "Ordering"
	CategoryGrouping    = "Grouping"
	CategoryAggregation = "Aggregation"
)

// Sample is one catalog entry.
type Sample struct {
	Name        string
	Title       string
	Category    string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// Env is what every sample runs against.
type Env struct {
	Source *dataset.Source
	Out    *dump.Dumper
	Logger *logger.Logger

	SumThresholds []decimal.Decimal
	AnyThresholds []decimal.Decimal
	CostLow       decimal.Decimal
	CostHigh      decimal.Decimal
}

// NewEnv builds an Env from the samples section of the configuration.
func NewEnv(src *dataset.Source, out *dump.Dumper, cfg config.SamplesConfig) *Env {
	return &Env{
		Source:        src,
		Out:           out,
		Logger:        logger.WithComponent("samples"),
		SumThresholds: cfg.SumThresholds,
		AnyThresholds: cfg.AnyThresholds,
		CostLow:       cfg.CostLow,
		CostHigh:      cfg.CostHigh,
	}
}

func (e *Env) check() error {
	if e == nil {
		return errors.InvalidArgument("env")
	}
	if e.Source == nil {
		return errors.InvalidArgument("env.Source")
	}
	if e.Out == nil {
		return errors.InvalidArgument("env.Out")
	}
	return nil
}

// Catalog is every sample in presentation order.
var Catalog = []Sample{
	{
		Name:        "where-low-numbers",
		Title:       "Where - low numbers",
		Category:    CategoryRestriction,
		Description: "Finds all elements of an array with a value less than 5.",
		Run:         runLowNumbers,
	},
	{
		Name:        "where-in-stock",
		Title:       "Where - products in stock",
		Category:    CategoryRestriction,
		Description: "Lists every product with units in stock.",
		Run:         runInStock,
	},
	{
		Name:        "customers-total-above",
		Title:       "Where - order total above threshold",
		Category:    CategoryRestriction,
		Description: "For each configured threshold, lists customers whose orders sum to more than it.",
		Run:         runTotalAbove,
	},
	{
		Name:        "suppliers-same-city",
		Title:       "Correlation - suppliers in the customer's city",
		Category:    CategoryCorrelation,
		Description: "For each customer, lists suppliers located in the same country and city.",
		Run:         runSuppliersSameCity,
	},
	{
		Name:        "suppliers-same-city-grouped",
		Title:       "Correlation - suppliers per customer location",
		Category:    CategoryCorrelation,
		Description: "Groups customers by city and country, then lists the suppliers at each location.",
		Run:         runSuppliersSameCityGrouped,
	},
	{
		Name:        "suppliers-same-city-keyed",
		Title:       "Correlation - suppliers in the customer's city (keyed)",
		Category:    CategoryCorrelation,
		Description: "Same as suppliers-same-city, matching on a location key index.",
		Run:         runSuppliersSameCityKeyed,
	},
	{
		Name:        "customers-any-order-above",
		Title:       "Where - any order above threshold",
		Category:    CategoryRestriction,
		Description: "For each configured threshold, lists customers with at least one order above it.",
		Run:         runAnyOrderAbove,
	},
	{
		Name:        "customers-first-order",
		Title:       "Ordering - first order date",
		Category:    CategoryOrdering,
		Description: "Lists each customer with orders and the date of their first order.",
		Run:         runFirstOrder,
	},
	{
		Name:        "customers-first-order-sorted",
		Title:       "Ordering - first order date, three orderings",
		Category:    CategoryOrdering,
		Description: "Lists customers by first order date, then by order total, then by name.",
		Run:         runFirstOrderSorted,
	},
	{
		Name:        "customers-first-order-thenby",
		Title:       "Ordering - first order date, then total, then name",
		Category:    CategoryOrdering,
		Description: "Lists customers in a single ordering by first order date, order total and name.",
		Run:         runFirstOrderThenBy,
	},
	{
		Name:        "customers-invalid-codes",
		Title:       "Where - customers without area codes",
		Category:    CategoryRestriction,
		Description: "Lists customers whose postal code, phone or region lacks a parenthesised code.",
		Run:         runInvalidCodes,
	},
	{
		Name:        "customers-invalid-codes-alt",
		Title:       "Where - customers with irregular codes",
		Category:    CategoryRestriction,
		Description: "Lists customers with a non-numeric postal code, no phone, or a region without a code.",
		Run:         runInvalidCodesAlt,
	},
	{
		Name:        "products-by-category-stock",
		Title:       "Grouping - category, stock and price",
		Category:    CategoryGrouping,
		Description: "Groups products by category and units in stock, ordering each group by unit price.",
		Run:         runCategoryStock,
	},
	{
		Name:        "products-by-category-stock-flat",
		Title:       "Grouping - category, stock and price (flattened)",
		Category:    CategoryGrouping,
		Description: "Same ordering as products-by-category-stock as a single list of names.",
		Run:         runCategoryStockFlat,
	},
	{
		Name:        "products-by-cost-tier",
		Title:       "Grouping - cost tiers",
		Category:    CategoryGrouping,
		Description: "Groups products into Cheap, Medium and Expensive by unit price.",
		Run:         runCostTier,
	},
	{
		Name:        "city-statistics",
		Title:       "Aggregation - city statistics",
		Category:    CategoryAggregation,
		Description: "Per city, the average order total and the number of orders per customer.",
		Run:         runCityStatistics,
	},
	{
		Name:        "order-activity",
		Title:       "Aggregation - order activity",
		Category:    CategoryAggregation,
		Description: "Order counts by month, by year and by year and month.",
		Run:         runOrderActivity,
	},
}

// Lookup finds a sample by name.
func Lookup(name string) (Sample, error) {
	i := slices.IndexFunc(Catalog, func(s Sample) bool { return s.Name == name })
	if i < 0 {
		return Sample{}, errors.NotFound("sample", name)
	}
	return Catalog[i], nil
}

// Select resolves names in the order given. No names means the whole
// catalog.
func Select(names ...string) ([]Sample, error) {
	if len(names) == 0 {
		return slices.Clone(Catalog), nil
	}
	out := make([]Sample, 0, len(names))
	for _, name := range names {
		s, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// InCategory returns the samples of one category, matched case-insensitively.
func InCategory(category string) ([]Sample, error) {
	var out []Sample
	for _, s := range Catalog {
		if strings.EqualFold(s.Category, category) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, errors.NotFound("category", category)
	}
	return out, nil
}

// Categories lists the distinct categories in catalog order.
func Categories() []string {
	var out []string
	for _, s := range Catalog {
		if !slices.Contains(out, s.Category) {
			out = append(out, s.Category)
		}
	}
	return out
}
