package main

import (
	"context"
	"fmt"
	"time"

	"food-pick/catalog"
	"food-pick/config"
	"food-pick/db"
	"food-pick/logger"
	"food-pick/store"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// app holds what every subcommand needs: configuration, the logger and the
// menu store selected by store.driver.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   store.MenuStore
	exec    execFunc // nil when the backend has no SQL migrations
	closers []func()
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a := &app{cfg: cfg, log: log}
	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store.Driver {
	case config.DriverPostgres:
		if err := db.Init(ctx, a.cfg.DB); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.exec = func(ctx context.Context, sql string) error {
			_, err := db.Pool.Exec(ctx, sql)
			return err
		}
		a.store = store.NewPostgresStore(db.Pool, a.log)

	case config.DriverGormPostgres, config.DriverSQLite:
		gdb, err := db.OpenGorm(a.cfg)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		a.closers = append(a.closers, closeGorm(gdb))
		gs := store.NewGormStore(gdb, a.log)
		if a.cfg.Store.Driver == config.DriverSQLite {
			if err := gs.AutoMigrate(ctx); err != nil {
				return fmt.Errorf("sqlite schema: %w", err)
			}
		} else {
			a.exec = func(ctx context.Context, sql string) error {
				return gdb.WithContext(ctx).Exec(sql).Error
			}
		}
		a.store = gs

	case config.DriverMemory:
		items := catalog.Default()
		a.store = store.NewMemoryStore(items...)
		a.log.Info("using in-memory catalog", "menus", len(items))
	}

	if a.exec != nil && a.cfg.AutoMigrate {
		if err := applyMigrations(ctx, a.exec, a.log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	if a.cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        a.cfg.Redis.Addr,
			DialTimeout: 5 * time.Second,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		a.store = store.NewCachedStore(a.store, rdb, a.cfg.Redis.TTL, a.log)
	}
	return nil
}

func closeGorm(gdb *gorm.DB) func() {
	return func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	if a.log != nil {
		a.log.Sync()
	}
}
