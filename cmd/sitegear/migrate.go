package main

import (
	"github.com/spf13/cobra"

	"github.com/sitegear/sitegear/modules/submissions"
	"github.com/sitegear/sitegear/pkg/db"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the submissions database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg db.Config
			if err := e.cfg.UnmarshalKey("database", &cfg); err != nil {
				return err
			}
			pool, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(cmd.Context(), pool, submissions.Migrations(), cfg.MigrationsTable, e.log); err != nil {
				return err
			}
			e.log.InfoContext(cmd.Context(), "migrations applied")
			return nil
		},
	}
}
