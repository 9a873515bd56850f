// Package middlewares provides request ID, panic recovery and access log
// middleware for Sitegear apps.
//
// Recommended order:
//
//	sitegear.New(
//	    sitegear.WithLogger(logger.New(cfg, middlewares.RequestIDExtractor())),
//	    sitegear.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.AccessLog(),
//	        middlewares.Recover(),
//	    ),
//	)
//
// RequestID runs first so every later log line carries request_id. Recover
// runs innermost so AccessLog sees the 500 a panic turns into.
package middlewares
