package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Cheertaboi/voucher-selection-service/internal/api"
	"github.com/Cheertaboi/voucher-selection-service/internal/cache"
	"github.com/Cheertaboi/voucher-selection-service/internal/config"
	"github.com/Cheertaboi/voucher-selection-service/internal/metrics"
	"github.com/Cheertaboi/voucher-selection-service/internal/repository"
	"github.com/Cheertaboi/voucher-selection-service/internal/service"
	"github.com/Cheertaboi/voucher-selection-service/pkg/db"
)

func (a *app) serve(ctx context.Context, args []string) error {
	if err := subcommand("serve", args, func(*flag.FlagSet) {}); err != nil {
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

	handler, closeDeps, err := newHandler(cfg, gdb, log)
	if err != nil {
		return err
	}
	defer closeDeps()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting voucher-selection", zap.String("addr", srv.Addr), zap.String("driver", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("server stopped")
	return err
}

// newHandler wires repository, optional Redis cache, metrics and router.
func newHandler(cfg config.Config, gdb *gorm.DB, log *zap.Logger) (http.Handler, func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	opts := []service.Option{
		service.WithTimeout(cfg.RequestTimeout),
		service.WithMetrics(m),
	}

	closeDeps := func() {}
	if cfg.Cache.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		closeDeps = func() { _ = client.Close() }
		opts = append(opts, service.WithCache(cache.NewVoucherCache(cache.NewRedisStore(client), cfg.DB.Table, cfg.Cache.TTL)))
		log.Info("voucher cache enabled", zap.String("addr", redisOpts.Addr), zap.Duration("ttl", cfg.Cache.TTL))
	}

	repo := repository.NewOrderRepo(gdb, cfg.DB.Table, nil)
	svc := service.NewVoucherService(repo, log, opts...)
	return api.NewRouter(svc, m, reg, log), closeDeps, nil
}
