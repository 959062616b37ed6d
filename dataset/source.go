package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/pipeline"
	"github.com/kbukum/linqkit/validation"
)

//go:embed northwind.json
var northwind []byte

// Source exposes the resident collections as pipelines. Slices are never
// modified after New returns, so every pipeline can be iterated any number of
// times with the same result.
type Source struct {
	customers []*Customer
	products  []*Product
	suppliers []*Supplier
}

type document struct {
	Customers []*Customer `json:"customers" validate:"dive,required"`
	Products  []*Product  `json:"products" validate:"dive,required"`
	Suppliers []*Supplier `json:"suppliers" validate:"dive,required"`
}

// New validates the records, links every order back to its customer and
// returns the Source.
func New(customers []*Customer, products []*Product, suppliers []*Supplier) (*Source, error) {
	doc := document{Customers: customers, Products: products, Suppliers: suppliers}
	if err := validation.Validate(&doc); err != nil {
		return nil, err
	}
	if err := checkUnique(&doc); err != nil {
		return nil, err
	}
	for _, c := range customers {
		for _, o := range c.Orders {
			o.Customer = c
		}
	}
	return &Source{customers: customers, products: products, suppliers: suppliers}, nil
}

// Load decodes a JSON data set from r.
func Load(r io.Reader) (*Source, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.InvalidInput("", "malformed data set").WithCause(err)
	}
	return New(doc.Customers, doc.Products, doc.Suppliers)
}

// LoadFile reads a JSON data set from path.
func LoadFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NotFound("data set", path).WithCause(err)
	}
	defer f.Close()
	return Load(f)
}

var loadDefault = sync.OnceValues(func() (*Source, error) {
	return Load(bytes.NewReader(northwind))
})

// Default returns the embedded sample data set. It is decoded once.
func Default() (*Source, error) {
	return loadDefault()
}

// Customers returns every customer in recorded order.
func (s *Source) Customers() *pipeline.Pipeline[*Customer] {
	return pipeline.FromSlice(s.customers)
}

// Orders returns every order, customer by customer.
func (s *Source) Orders() *pipeline.Pipeline[*Order] {
	return pipeline.FlatMap(s.Customers(), (*Customer).OrderPipeline)
}

// Products returns every product in recorded order.
func (s *Source) Products() *pipeline.Pipeline[*Product] {
	return pipeline.FromSlice(s.products)
}

// Suppliers returns every supplier in recorded order.
func (s *Source) Suppliers() *pipeline.Pipeline[*Supplier] {
	return pipeline.FromSlice(s.suppliers)
}

// Customer looks a customer up by ID.
func (s *Source) Customer(id string) (*Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.NotFound("customer", id)
}

func checkUnique(doc *document) error {
	customers := make(map[string]bool, len(doc.Customers))
	orders := make(map[int]bool)
	for i, c := range doc.Customers {
		if customers[c.ID] {
			return duplicate(fmt.Sprintf("customers[%d].id", i), c.ID)
		}
		customers[c.ID] = true
		for j, o := range c.Orders {
			if orders[o.ID] {
				return duplicate(fmt.Sprintf("customers[%d].orders[%d].id", i, j), o.ID)
			}
			orders[o.ID] = true
		}
	}
	products := make(map[int]bool, len(doc.Products))
	for i, p := range doc.Products {
		if products[p.ID] {
			return duplicate(fmt.Sprintf("products[%d].id", i), p.ID)
		}
		products[p.ID] = true
	}
	suppliers := make(map[int]bool, len(doc.Suppliers))
	for i, s := range doc.Suppliers {
		if suppliers[s.ID] {
			return duplicate(fmt.Sprintf("suppliers[%d].id", i), s.ID)
		}
		suppliers[s.ID] = true
	}
	return nil
}

func duplicate(field string, id any) error {
	return errors.InvalidInput(field, fmt.Sprintf("duplicate id %v", id))
}
