// Command importer loads a CSV or TSV order export into the database.
//
//	importer [-d postgres://...] <path-to-data-file>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/polkiloo/bloomorders/internal/config"
	"github.com/polkiloo/bloomorders/internal/logger"
	"github.com/polkiloo/bloomorders/internal/storage/postgres"
	"github.com/polkiloo/bloomorders/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(ctx, cfg, os.Stdout, os.Stderr, openImporter))
}

// openImporter builds the import use case on top of PostgreSQL storage.
func openImporter(ctx context.Context, cfg *config.Config) (rowImporter, func() error, error) {
	var uc *usecase.ImportUseCase
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return ctx }),
		fx.Supply(cfg),
		logger.Module,
		postgres.Module,
		fx.Provide(usecase.NewImportUseCase),
		fx.Populate(&uc),
	)
	if err := app.Err(); err != nil {
		return nil, nil, err
	}
	if err := app.Start(ctx); err != nil {
		return nil, nil, err
	}
	return uc, func() error { return app.Stop(context.Background()) }, nil
}
