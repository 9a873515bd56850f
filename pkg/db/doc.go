// Package db opens the PostgreSQL pool used by the submissions module and the
// job queue, and applies embedded goose migrations.
//
//	var cfg db.Config
//	_ = v.UnmarshalKey("database", &cfg)
//	pool, err := db.Connect(ctx, cfg)
//	...
//	err = db.Migrate(ctx, pool, submissions.Migrations, cfg.MigrationsTable, log)
package db
