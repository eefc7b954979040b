// Package logger provides a structured logging facility based on Zap.
//
// The debug level selects Zap's development configuration; every other level
// uses the production configuration. Encoding is json unless the format is
// console.
//
// # Request correlation
//
// WithRayID attaches the request's ray id (set by the rayid middleware) to a
// logger so that every line written while serving one request can be joined.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Commit skipped", zap.String("layer", id))
package logger
