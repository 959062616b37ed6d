// Package errors provides the structured error type shared by the query
// pipeline, the dataset loader and the sample runner.
//
// Operators in package pipeline never wrap upstream failures; the only errors
// they create themselves are INVALID_ARGUMENT (a required selector, predicate
// or source is missing) and EMPTY_SEQUENCE (an average or ratio over zero
// elements). Use IsCode to test for either.
package errors
