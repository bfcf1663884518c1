package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-intervention-api/internal/repository"
	"github.com/noah-isme/sma-intervention-api/internal/service"
	"github.com/noah-isme/sma-intervention-api/pkg/cache"
	"github.com/noah-isme/sma-intervention-api/pkg/config"
	"github.com/noah-isme/sma-intervention-api/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.NewPostgres(cfg.Database)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer db.Close()

			applied, err := database.Migrate(cmd.Context(), db, database.Migrations)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) > 0 && cfg.DomainCache.Enabled {
				if err := flushDomainCache(cmd.Context(), cfg); err != nil {
					fmt.Fprintln(out, color.YellowString("domain cache not flushed: %v", err))
				}
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, color.New(color.Faint).Sprint("schema up to date"))
				return nil
			}
			green := color.New(color.FgGreen).SprintFunc()
			for _, version := range applied {
				fmt.Fprintf(out, "%s migration %d\n", green("applied"), version)
			}
			return nil
		},
	}
}

// flushDomainCache drops cached catalog entries so reseeded domains are served fresh.
func flushDomainCache(ctx context.Context, cfg *config.Config) error {
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	repo := repository.NewCacheRepository(client, nil)
	defer repo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(repo, nil, cfg.DomainCache.TTL, nil, true)
	return service.NewDomainService(nil, cacheSvc, nil).InvalidateCache(ctx)
}
