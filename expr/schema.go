package expr

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/pipeline"
)

// Field is a variable visible to expressions.
type Field struct {
	Name string
	Type *cel.Type
}

// Schema binds a record type to a CEL environment.
type Schema[T any] struct {
	name   string
	fields []Field
	values func(T) map[string]any
	env    *cel.Env
	cache  sync.Map // expression -> *Predicate[T]
}

// NewSchema declares one CEL variable per field. values must return a map
// with an entry for every field; absent optional values map to nil.
func NewSchema[T any](name string, fields []Field, values func(T) map[string]any) (*Schema[T], error) {
	if values == nil {
		return nil, errors.InvalidArgument("values")
	}
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	for _, f := range fields {
		opts = append(opts, cel.Variable(f.Name, f.Type))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, errors.Internal(err).WithDetail("schema", name)
	}
	return &Schema[T]{name: name, fields: fields, values: values, env: env}, nil
}

// Name returns the schema's entity name.
func (s *Schema[T]) Name() string { return s.name }

// FieldNames lists the declared variables in declaration order.
func (s *Schema[T]) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Compile parses and type-checks expression. It must evaluate to a bool.
func (s *Schema[T]) Compile(expression string) (*Predicate[T], error) {
	if cached, ok := s.cache.Load(expression); ok {
		return cached.(*Predicate[T]), nil
	}

	ast, issues := s.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.InvalidInput("where", issues.Err().Error()).
			WithDetail("expression", expression)
	}
	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, errors.InvalidInput("where", "expression must evaluate to a bool, not "+out.String()).
			WithDetail("expression", expression)
	}
	prg, err := s.env.Program(ast)
	if err != nil {
		return nil, errors.InvalidInput("where", err.Error()).WithDetail("expression", expression)
	}

	p := &Predicate[T]{expression: expression, program: prg, values: s.values}
	actual, _ := s.cache.LoadOrStore(expression, p)
	return actual.(*Predicate[T]), nil
}

// OrderKey returns a sort key on field. Absent values sort first.
func (s *Schema[T]) OrderKey(field string, dir pipeline.Direction) (pipeline.SortKey[T], error) {
	if !slices.ContainsFunc(s.fields, func(f Field) bool { return f.Name == field }) {
		return pipeline.SortKey[T]{}, errors.InvalidInput("order_by",
			"unknown field "+field+" for "+s.name)
	}
	key := func(v T) *any {
		val := s.values(v)[field]
		if val == nil {
			return nil
		}
		return &val
	}
	return pipeline.NullableBy(key, compareValues, dir), nil
}

// Predicate is a compiled expression. Match has the signature FilterErr
// expects.
type Predicate[T any] struct {
	expression string
	program    cel.Program
	values     func(T) map[string]any
}

// String returns the source expression.
func (p *Predicate[T]) String() string { return p.expression }

// Match evaluates the expression against v.
func (p *Predicate[T]) Match(ctx context.Context, v T) (bool, error) {
	out, _, err := p.program.ContextEval(ctx, p.values(v))
	if err != nil {
		return false, errors.InvalidInput("where", err.Error()).
			WithDetail("expression", p.expression).WithCause(err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, errors.InvalidInput("where", "expression did not evaluate to a bool").
			WithDetail("expression", p.expression)
	}
	return b, nil
}

// compareValues orders the scalar kinds records expose. Numbers compare
// across int64 and float64; other mixed kinds order by kind name.
func compareValues(a, b any) int {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y)
		case float64:
			return cmp.Compare(float64(x), y)
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmp.Compare(x, y)
		case int64:
			return cmp.Compare(x, float64(y))
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return cmp.Compare(kindOf(a), kindOf(b))
}

func kindOf(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case int64, float64:
		return "number"
	case string:
		return "string"
	case time.Time:
		return "time"
	}
	return "other"
}
