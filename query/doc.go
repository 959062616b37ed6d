// Package query runs ad-hoc filters over the data set.
//
// Each entity has an expr.Schema describing the fields a CEL expression
// can reference. Run compiles the where clause into a FilterErr stage,
// applies an optional ordering and writes the result through a dumper.
package query
