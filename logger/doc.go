// Package logger provides structured logging for lipsync using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("timeline")
//	log.Warn("segment dropped", logger.Fields("index", 3, "reason", "empty_text"))
package logger
