// Package main - CLI для выгрузки прогресса Gyaan Arena Hub в CSV.
//
// Утилита читает журнал сессий из сконфигурированного
// документ-хранилища и пишет CSV на stdout или в файл.
// Полезна для отчётов без запущенного API-сервера.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gyaan-arena/arena-hub/config"
	"github.com/gyaan-arena/arena-hub/internal/application/query"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/postgres"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/redis"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	outDir := flag.String("out", "", "directory to write the CSV file into (default: stdout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: os.Stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer func() { _ = store.Close() }()

	progressRepo := kv.NewProgressRepository(store, log)
	handler := query.NewExportProgressHandler(progressRepo)

	result, err := handler.Handle(ctx, query.ExportProgressQuery{})
	if err != nil {
		return err
	}

	if *outDir == "" {
		_, err = os.Stdout.WriteString(result.CSV)
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(*outDir, result.Filename)
	if err := os.WriteFile(path, []byte(result.CSV), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info("progress exported", logger.String("file", path))
	return nil
}

// openStore открывает документ-хранилище согласно конфигурации.
// Backend memory для экспорта бессмыслен: в нём нечего читать.
func openStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreFile:
		return kv.NewFile(cfg.Store.FileDir)

	case config.StoreRedis:
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.KeyPrefix = cfg.Redis.KeyPrefix
		return redis.NewStore(redisCfg)

	case config.StorePostgres:
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(conn), nil

	default:
		return nil, fmt.Errorf("store backend %q cannot be exported from", cfg.Store.Backend)
	}
}
