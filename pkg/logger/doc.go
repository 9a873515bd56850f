// Package logger builds the slog loggers used across Sitegear.
//
// Records go to a JSON (or text) handler, optionally fanned out to Sentry,
// and every record is enriched by context extractors such as the request ID
// set by the requestid middleware:
//
//	log := logger.New(logger.Config{Level: "debug"}, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "form submitted", slog.String("form_key", key))
//
// NewNope returns a logger that drops everything, for tests and defaults.
package logger
