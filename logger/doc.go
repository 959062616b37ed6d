// Package logger provides structured logging for linqkit tools using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and a run id carried on the context so every line a sample run
// writes can be correlated.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.WithComponent("runner").WithContext(ctx)
//	log.Info("sample finished", logger.SampleFields("where-in-stock", "Restriction"))
package logger
