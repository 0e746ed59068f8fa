package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/gasflow/internal/config"
	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/repository"
	"github.com/mmeshcher/gasflow/internal/service"
)

// operations описывает операции сервиса, доступные из командной строки.
type operations interface {
	CreateUser(ctx context.Context, username, password string, role model.Role) (*model.User, error)
	StockSummary(ctx context.Context, cutoff *time.Time) (model.StockSummary, error)
	DailyReport(ctx context.Context, day *time.Time) (model.DailyReport, error)
	Close() error
}

// backend открывает хранилище. Миграции применяются при каждом открытии.
type backend struct {
	open    func(cfg *config.Config) (operations, error)
	migrate func(ctx context.Context, cfg *config.Config) (int64, error)
}

func defaultBackend() backend {
	return backend{
		open: func(cfg *config.Config) (operations, error) {
			repo, err := repository.NewPostgresRepository(cfg.DatabaseURI, int32(cfg.DatabaseMaxConns))
			if err != nil {
				return nil, err
			}
			return service.NewService(repo, repo), nil
		},
		migrate: func(ctx context.Context, cfg *config.Config) (int64, error) {
			repo, err := repository.NewPostgresRepository(cfg.DatabaseURI, int32(cfg.DatabaseMaxConns))
			if err != nil {
				return 0, err
			}
			defer repo.Close()
			return repo.SchemaVersion(ctx)
		},
	}
}

func newRootCmd(out io.Writer, b backend) *cobra.Command {
	var databaseURI string

	rootCmd := &cobra.Command{
		Use:           "gasflowctl",
		Short:         "Operator tool for the gas cylinder delivery service",
		Long:          `Applies database migrations, creates users and prints stock and daily reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&databaseURI, "database-uri", "", "database URI (default is $DATABASE_URI)")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.FromEnv()
		if err != nil {
			return nil, err
		}
		if databaseURI != "" {
			cfg.DatabaseURI = databaseURI
		}
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI is required: set DATABASE_URI or --database-uri")
		}
		return cfg, nil
	}

	withOps := func(fn func(cmd *cobra.Command, ops operations) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ops, err := b.open(cfg)
			if err != nil {
				return err
			}
			defer ops.Close()
			return fn(cmd, ops)
		}
	}

	rootCmd.AddCommand(
		newMigrateCmd(out, b, loadConfig),
		newUserCmd(out, withOps),
		newReportCmd(out, withOps),
	)
	return rootCmd
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
