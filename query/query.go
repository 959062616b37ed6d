package query

import (
	"context"
	"time"

	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/expr"
	"github.com/kbukum/linqkit/logger"
	"github.com/kbukum/linqkit/observability"
	"github.com/kbukum/linqkit/pipeline"
)

// Request describes one ad-hoc query.
type Request struct {
	Entity     string
	Where      string
	OrderBy    string
	Descending bool
}

// Fields returns the expression variables available for entity.
func Fields(entity string) ([]string, error) {
	s, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	switch entity {
	case EntityCustomers:
		return s.customers.FieldNames(), nil
	case EntityOrders:
		return s.orders.FieldNames(), nil
	case EntityProducts:
		return s.products.FieldNames(), nil
	case EntitySuppliers:
		return s.suppliers.FieldNames(), nil
	}
	return nil, unknownEntity(entity)
}

// Run filters and orders the requested entity and writes every match to d.
// It returns the number of records written.
func Run(ctx context.Context, src *dataset.Source, d *dump.Dumper, req Request) (int, error) {
	if src == nil {
		return 0, errors.InvalidArgument("source")
	}
	if d == nil {
		return 0, errors.InvalidArgument("dumper")
	}
	s, err := loadSchemas()
	if err != nil {
		return 0, err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanQuery)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrEntity, req.Entity)
	if req.Where != "" {
		observability.SetSpanAttribute(ctx, observability.AttrWhere, req.Where)
	}

	log := logger.WithContext(ctx).WithComponent("query")
	start := time.Now()
	before := d.Written()

	switch req.Entity {
	case EntityCustomers:
		err = run(ctx, s.customers, src.Customers(), d, req)
	case EntityOrders:
		err = run(ctx, s.orders, src.Orders(), d, req)
	case EntityProducts:
		err = run(ctx, s.products, src.Products(), d, req)
	case EntitySuppliers:
		err = run(ctx, s.suppliers, src.Suppliers(), d, req)
	default:
		err = unknownEntity(req.Entity)
	}

	n := d.Written() - before
	observability.SetSpanAttribute(ctx, observability.AttrElements, n)
	if err != nil {
		observability.SetSpanError(ctx, err)
		log.WithError(err).Error("query failed")
		return n, err
	}
	log.WithFields(logger.MergeWithDuration(map[string]any{
		logger.FieldOperation: req.Entity,
		logger.FieldElements:  n,
	}, time.Since(start))).Debug("query complete")
	return n, nil
}

func run[T any](ctx context.Context, schema *expr.Schema[T], p *pipeline.Pipeline[T], d *dump.Dumper, req Request) error {
	if req.Where != "" {
		pred, err := schema.Compile(req.Where)
		if err != nil {
			return err
		}
		p = pipeline.FilterErr(p, pred.Match)
	}
	if req.OrderBy != "" {
		dir := pipeline.Ascending
		if req.Descending {
			dir = pipeline.Descending
		}
		key, err := schema.OrderKey(req.OrderBy, dir)
		if err != nil {
			return err
		}
		p = pipeline.OrderBy(p, key).Pipeline
	}
	return dump.Sequence(ctx, d, p)
}

func unknownEntity(entity string) error {
	return errors.InvalidInput("entity", "unknown entity "+entity).
		WithDetail("entities", Entities())
}
