package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cheertaboi/voucher-selection-service/internal/cleaning"
	"github.com/Cheertaboi/voucher-selection-service/internal/config"
	"github.com/Cheertaboi/voucher-selection-service/internal/dataset"
	"github.com/Cheertaboi/voucher-selection-service/internal/loader"
	"github.com/Cheertaboi/voucher-selection-service/internal/repository"
	"github.com/Cheertaboi/voucher-selection-service/internal/storage/postgres"
	"github.com/Cheertaboi/voucher-selection-service/pkg/db"
)

func (a *app) dataClean(ctx context.Context, args []string) error {
	var input, output string
	err := subcommand("data clean", args, func(fs *flag.FlagSet) {
		fs.StringVar(&input, "input", "", "raw dataset")
		fs.StringVar(&input, "input-parquet", "", "alias of --input")
		fs.StringVar(&output, "output-csv", "", "cleaned CSV to create")
	}, "input", "output-csv")
	if err != nil {
		return err
	}

	if err := dataset.RequireExists(input); err != nil {
		return err
	}
	if err := dataset.RequireAbsent(output); err != nil {
		return err
	}

	log, err := a.logger("info")
	if err != nil {
		return err
	}
	defer log.Sync()

	t, err := dataset.Read(input)
	if err != nil {
		return err
	}
	if err := cleaning.CheckColumns(t.Header); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	orders, err := cleaning.CleanOrdersContext(ctx, t.Rows)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if err := dataset.WriteCSV(output, orders); err != nil {
		return err
	}

	log.Info("dataset cleaned",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("rows", len(orders)),
	)
	fmt.Fprintf(a.stdout, "wrote %d orders to %s\n", len(orders), output)
	return nil
}

func (a *app) dbCreateTable(ctx context.Context, args []string) error {
	if err := subcommand("db create-table", args, func(*flag.FlagSet) {}); err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	log, err := a.logger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	gdb, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	repo := repository.NewOrderRepo(gdb, cfg.DB.Table, nil)
	if err := repo.CreateTable(ctx); err != nil {
		return err
	}
	log.Info("table ready", zap.String("table", repo.Table()), zap.String("driver", cfg.DB.Driver))
	fmt.Fprintf(a.stdout, "table %s ready\n", repo.Table())
	return nil
}

func (a *app) dbSeed(ctx context.Context, args []string) error {
	var input string
	err := subcommand("db seed", args, func(fs *flag.FlagSet) {
		fs.StringVar(&input, "input-csv", "", "dataset to load")
	}, "input-csv")
	if err != nil {
		return err
	}

	// checked before the configuration so a bad path is reported first
	if err := dataset.RequireExists(input); err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	log, err := a.logger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, closeStore, err := openLoadStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := loader.New(store, log).LoadDataset(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "loaded %d orders into %s\n", n, cfg.DB.Table)
	return nil
}

// openLoadStore picks the bulk path: COPY through pgx for postgres, batched
// inserts through gorm otherwise.
func openLoadStore(ctx context.Context, cfg config.Config, log *zap.Logger) (loader.Store, func(), error) {
	if cfg.DB.Driver == db.DriverPostgres {
		return postgres.NewCopier(ctx, cfg.DB.URL(), cfg.DB.Table, log)
	}
	gdb, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewOrderRepo(gdb, cfg.DB.Table, nil), func() { _ = db.Close(gdb) }, nil
}
