package query

import (
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/expr"
)

// Entity names accepted by Run.
const (
	EntityCustomers = "customers"
	EntityOrders    = "orders"
	EntityProducts  = "products"
	EntitySuppliers = "suppliers"
)

// Entities lists the queryable entities in display order.
func Entities() []string {
	return []string{EntityCustomers, EntityOrders, EntityProducts, EntitySuppliers}
}

type schemas struct {
	customers *expr.Schema[*dataset.Customer]
	orders    *expr.Schema[*dataset.Order]
	products  *expr.Schema[*dataset.Product]
	suppliers *expr.Schema[*dataset.Supplier]
}

var loadSchemas = sync.OnceValues(func() (*schemas, error) {
	var (
		s   schemas
		err error
	)
	if s.customers, err = expr.NewSchema(EntityCustomers, customerFields, customerValues); err != nil {
		return nil, err
	}
	if s.orders, err = expr.NewSchema(EntityOrders, orderFields, orderValues); err != nil {
		return nil, err
	}
	if s.products, err = expr.NewSchema(EntityProducts, productFields, productValues); err != nil {
		return nil, err
	}
	if s.suppliers, err = expr.NewSchema(EntitySuppliers, supplierFields, supplierValues); err != nil {
		return nil, err
	}
	return &s, nil
})

// Optional text fields are dynamic so they can hold null.
var customerFields = []expr.Field{
	{Name: "id", Type: cel.StringType},
	{Name: "company_name", Type: cel.StringType},
	{Name: "city", Type: cel.StringType},
	{Name: "country", Type: cel.StringType},
	{Name: "postal_code", Type: cel.DynType},
	{Name: "phone", Type: cel.DynType},
	{Name: "region", Type: cel.DynType},
	{Name: "order_count", Type: cel.IntType},
	{Name: "total", Type: cel.DoubleType},
}

func customerValues(c *dataset.Customer) map[string]any {
	var total float64
	for _, o := range c.Orders {
		total += o.Total.InexactFloat64()
	}
	return map[string]any{
		"id":           c.ID,
		"company_name": c.CompanyName,
		"city":         c.City,
		"country":      c.Country,
		"postal_code":  text(c.PostalCode),
		"phone":        text(c.Phone),
		"region":       text(c.Region),
		"order_count":  int64(len(c.Orders)),
		"total":        total,
	}
}

var orderFields = []expr.Field{
	{Name: "id", Type: cel.IntType},
	{Name: "order_date", Type: cel.TimestampType},
	{Name: "total", Type: cel.DoubleType},
	{Name: "customer_id", Type: cel.StringType},
	{Name: "city", Type: cel.StringType},
	{Name: "country", Type: cel.StringType},
}

func orderValues(o *dataset.Order) map[string]any {
	v := map[string]any{
		"id":          int64(o.ID),
		"order_date":  o.OrderDate,
		"total":       o.Total.InexactFloat64(),
		"customer_id": "",
		"city":        "",
		"country":     "",
	}
	if c := o.Customer; c != nil {
		v["customer_id"] = c.ID
		v["city"] = c.City
		v["country"] = c.Country
	}
	return v
}

var productFields = []expr.Field{
	{Name: "id", Type: cel.IntType},
	{Name: "name", Type: cel.StringType},
	{Name: "category", Type: cel.StringType},
	{Name: "unit_price", Type: cel.DoubleType},
	{Name: "units_in_stock", Type: cel.IntType},
}

func productValues(p *dataset.Product) map[string]any {
	return map[string]any{
		"id":             int64(p.ID),
		"name":           p.Name,
		"category":       p.Category,
		"unit_price":     p.UnitPrice.InexactFloat64(),
		"units_in_stock": int64(p.UnitsInStock),
	}
}

var supplierFields = []expr.Field{
	{Name: "id", Type: cel.IntType},
	{Name: "company_name", Type: cel.StringType},
	{Name: "city", Type: cel.StringType},
	{Name: "country", Type: cel.StringType},
}

func supplierValues(s *dataset.Supplier) map[string]any {
	return map[string]any{
		"id":           int64(s.ID),
		"company_name": s.CompanyName,
		"city":         s.City,
		"country":      s.Country,
	}
}

func text(t dataset.Text) any {
	if !t.Valid {
		return nil
	}
	return t.Value
}
