// Package samples is the catalog of runnable query demonstrations over the
// data set.
//
// Each Sample is parameterless apart from the shared Env, which carries the
// data source, the output dumper and the configured thresholds. The query
// behind each sample is exported as a function returning a pipeline so it
// can be tested and reused without going through the dumper.
//
// Runner executes a selection of samples, tagging every execution with a run
// id, tracing and measuring it, and continuing past failures.
package samples
