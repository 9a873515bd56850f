package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/sitegear/sitegear"
	"github.com/sitegear/sitegear/middlewares"
	"github.com/sitegear/sitegear/modules/submissions"
	"github.com/sitegear/sitegear/pkg/cache"
	"github.com/sitegear/sitegear/pkg/db"
	"github.com/sitegear/sitegear/pkg/job"
	"github.com/sitegear/sitegear/pkg/redis"
	"github.com/sitegear/sitegear/pkg/session"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				e.cfg.Set("server.address", addr)
			}
			return serve(cmd.Context(), e)
		},
	}
	cmd.Flags().StringVarP(&addr, "address", "a", "", "listen address, overriding server.address")
	return cmd
}

func serve(ctx context.Context, e *env) (err error) {
	cfg, log := e.cfg, e.log

	store, closers, health, err := sessionStore(ctx, e)
	if err != nil {
		return err
	}
	// Until the server owns them, connections are closed here on failure.
	defer func() {
		if err != nil {
			for _, fn := range closers {
				_ = fn(context.Background())
			}
		}
	}()

	var pool *pgxpool.Pool
	if cfg.GetString("database.url") != "" {
		var dbCfg db.Config
		if err := cfg.UnmarshalKey("database", &dbCfg); err != nil {
			return err
		}
		pool, err = db.Connect(ctx, dbCfg)
		if err != nil {
			return err
		}
		closers = append(closers, db.Shutdown(pool))
		if err := db.Migrate(ctx, pool, submissions.Migrations(), dbCfg.MigrationsTable, log); err != nil {
			return err
		}
		health = append(health, sitegear.WithReadinessCheck("postgres", db.Healthcheck(pool)))
	}

	s, err := newSite(cfg, log, pool)
	if err != nil {
		return err
	}
	if err := s.start(ctx); err != nil {
		return err
	}

	runOpts := []sitegear.RunOption{
		sitegear.Logger(log),
		sitegear.WithContext(ctx),
		sitegear.ShutdownTimeout(cfg.GetDuration("server.shutdown-timeout")),
		sitegear.ShutdownHook(s.engine.Stop),
	}
	if s.jobs != nil {
		health = append(health, sitegear.WithReadinessCheck("jobs", job.Healthcheck(s.jobs)))
		runOpts = append(runOpts, sitegear.StartupHook(s.jobs.Start), sitegear.ShutdownHook(s.jobs.Stop))
	}
	for _, fn := range closers {
		runOpts = append(runOpts, sitegear.ShutdownHook(fn))
	}
	closers = nil

	app := sitegear.New(
		sitegear.WithLogger(log),
		sitegear.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.AccessLog(),
		),
		sitegear.WithSession(store,
			sitegear.WithSessionCookieName(cfg.GetString("session.cookie-name")),
			sitegear.WithSessionMaxAge(cfg.GetDuration("session.max-age")),
			sitegear.WithSessionSecure(cfg.GetBool("session.secure")),
			sitegear.WithSessionSameSite(http.SameSiteLaxMode),
		),
		sitegear.WithHealthChecks(health...),
		sitegear.WithHandlers(s.forms),
	)
	return app.Run(cfg.GetString("server.address"), runOpts...)
}

// sessionStore returns a Redis-backed store when redis.url is set, otherwise
// an in-memory one.
func sessionStore(ctx context.Context, e *env) (session.Store, []func(context.Context) error, []sitegear.HealthOption, error) {
	cfg := e.cfg
	maxAge := cfg.GetDuration("session.max-age")

	if cfg.GetString("redis.url") == "" {
		mem := cache.NewMemory[[]byte](
			cache.WithCapacity(cfg.GetInt("session.capacity")),
			cache.WithDefaultTTL(maxAge),
			cache.WithSweepInterval(time.Minute),
		)
		closeMem := func(context.Context) error { return mem.Close() }
		return session.NewCacheStore(mem), []func(context.Context) error{closeMem}, nil, nil
	}

	var redisCfg redis.Config
	if err := cfg.UnmarshalKey("redis", &redisCfg); err != nil {
		return nil, nil, nil, err
	}
	client, err := redis.Open(ctx, redisCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	c := cache.NewRedis[[]byte](client, cache.RawCodec{},
		cache.WithPrefix(cfg.GetString("redis.prefix")),
		cache.WithRedisTTL(maxAge),
	)
	checks := []sitegear.HealthOption{sitegear.WithReadinessCheck("redis", redis.Healthcheck(client))}
	return session.NewCacheStore(c), []func(context.Context) error{redis.Shutdown(client)}, checks, nil
}
