package dataset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/pipeline"
)

// Location is the (city, country) pair customers and suppliers are matched
// and grouped on. Fields compare exactly and case-sensitively.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Customer owns its orders in the order they were recorded.
type Customer struct {
	ID          string   `json:"id" validate:"required"`
	CompanyName string   `json:"company_name" validate:"required"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	PostalCode  Text     `json:"postal_code"`
	Phone       Text     `json:"phone"`
	Region      Text     `json:"region"`
	Orders      []*Order `json:"orders" validate:"dive,required"`
}

// Location returns the customer's (city, country) key.
func (c *Customer) Location() Location {
	return Location{City: c.City, Country: c.Country}
}

// OrderPipeline returns the customer's orders in recorded order.
func (c *Customer) OrderPipeline() *pipeline.Pipeline[*Order] {
	return pipeline.FromSlice(c.Orders)
}

// Order is a single customer order. Customer is set when the Source is built.
type Order struct {
	ID        int             `json:"id" validate:"required"`
	OrderDate time.Time       `json:"order_date" validate:"required"`
	Total     decimal.Decimal `json:"total" validate:"gte=0"`
	Customer  *Customer       `json:"-"`
}

// Product is a catalog item.
type Product struct {
	ID           int             `json:"id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category" validate:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	UnitsInStock int             `json:"units_in_stock" validate:"gte=0"`
}

// Supplier is a vendor located in a single city.
type Supplier struct {
	ID          int    `json:"id" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	Country     string `json:"country"`
	City        string `json:"city"`
}

// Location returns the supplier's (city, country) key.
func (s *Supplier) Location() Location {
	return Location{City: s.City, Country: s.Country}
}
