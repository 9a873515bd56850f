// Package health serves liveness and readiness probes for a Sitegear site.
//
// Readiness runs a set of named [Checks] concurrently under a shared timeout.
// The serve command registers one check per configured backend (Redis,
// Postgres, the job queue):
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}))
//
// Both answer JSON. A failed readiness run returns 503 with an error message
// and the per-check breakdown:
//
//	{"error":"health: check failed: redis: dial tcp: connection refused","code":503,
//	 "status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"dial tcp: connection refused"}}}
package health
