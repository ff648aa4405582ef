// Package main - точка входа Gyaan Arena Hub.
//
// Hub обслуживает REST API для браузерных обучающих игр:
// - Журнал игровых сессий и сводка прогресса
// - Профиль игрока: очки, уровни, ежедневные серии
// - Таблицы лидеров по предметам (общая и недельная)
// - Достижения и экспорт прогресса в CSV
//
// Документ-хранилище выбирается конфигурацией: file, memory,
// redis или postgres.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaan-arena/arena-hub/config"
	"github.com/gyaan-arena/arena-hub/internal/application/command"
	"github.com/gyaan-arena/arena-hub/internal/application/eventhandler"
	"github.com/gyaan-arena/arena-hub/internal/application/query"
	"github.com/gyaan-arena/arena-hub/internal/application/saga"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/messaging"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/postgres"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/redis"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/scheduler"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/scheduler/jobs"
	httpapi "github.com/gyaan-arena/arena-hub/internal/interface/http"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

// eventBus объединяет публикацию и подписку для обеих реализаций шины.
type eventBus interface {
	shared.EventPublisher
	Subscribe(eventType shared.EventType, handler shared.EventHandler) error
	Close() error
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting Gyaan Arena Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("store", string(cfg.Store.Backend)),
		logger.String("timezone", cfg.App.Timezone),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ДОКУМЕНТ-ХРАНИЛИЩЕ
	// ─────────────────────────────────────────────────────────────────────────
	store, redisStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer func() {
		log.Info("closing document store...")
		if cerr := store.Close(); cerr != nil {
			log.Warn("store close failed", logger.Err(cerr))
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. РЕПОЗИТОРИИ
	// ─────────────────────────────────────────────────────────────────────────
	progressRepo := kv.NewProgressRepository(store, log)
	profileRepo := kv.NewProfileRepository(store, log)
	leaderboardRepo := kv.NewLeaderboardRepository(store, log)
	achievementRepo := kv.NewAchievementRepository(store, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ШИНА СОБЫТИЙ И ПОДПИСКИ
	// ─────────────────────────────────────────────────────────────────────────
	bus, err := openEventBus(cfg, redisStore, log)
	if err != nil {
		return fmt.Errorf("failed to open event bus: %w", err)
	}
	defer func() {
		log.Info("closing event bus...")
		_ = bus.Close()
	}()

	feed := eventhandler.NewNotificationFeed(eventhandler.DefaultFeedCapacity)
	if err := subscribeToasts(cfg, bus, feed, log); err != nil {
		return fmt.Errorf("failed to subscribe event handlers: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. КОМАНДЫ, ЗАПРОСЫ, САГА
	// ─────────────────────────────────────────────────────────────────────────
	recordSession := command.NewRecordSessionHandler(progressRepo, bus)
	trackProgress := command.NewTrackProgressHandler(profileRepo, bus)
	submitScore := command.NewSubmitScoreHandler(leaderboardRepo, profileRepo, bus)
	checkAchievements := command.NewCheckAchievementsHandler(achievementRepo, profileRepo, bus)

	deps := httpapi.Dependencies{
		RecordSession:     recordSession,
		TrackProgress:     trackProgress,
		SubmitScore:       submitScore,
		CheckAchievements: checkAchievements,
		UnlockAchievement: command.NewUnlockAchievementHandler(achievementRepo, profileRepo, bus),
		RecordLanguage:    command.NewRecordLanguageHandler(achievementRepo, bus),
		ResetProgress:     command.NewResetProgressHandler(progressRepo, bus),
		RenamePlayer:      command.NewRenamePlayerHandler(profileRepo),
		GameResultFlow: saga.NewGameResultFlow(
			recordSession, trackProgress, submitScore, checkAchievements, log,
		),
		GetLeaderboard:  query.NewGetLeaderboardHandler(leaderboardRepo, profileRepo),
		GetDashboard:    query.NewGetDashboardHandler(progressRepo, profileRepo, leaderboardRepo),
		GetAchievements: query.NewGetAchievementsHandler(achievementRepo),
		GetShareText:    query.NewGetShareTextHandler(profileRepo),
		ExportProgress:  query.NewExportProgressHandler(progressRepo),
		Notifications:   feed,
		Logger:          log,
		HealthChecker:   newHealthChecker(store),
	}

	if cfg.Auth.Enabled {
		deps.AuthGate = httpapi.NewAuthGate(store, cfg.Auth.SessionTTL, log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ПЛАНИРОВЩИК ФОНОВЫХ ЗАДАЧ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(scheduler.Config{
			Logger:       log,
			Timezone:     cfg.App.Location,
			TickInterval: cfg.Scheduler.TickInterval,
		})

		if err := registerJobs(cfg, sched, leaderboardRepo, progressRepo, log); err != nil {
			return fmt.Errorf("failed to register jobs: %w", err)
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler...")
			_ = sched.Stop()
		}()
	} else {
		log.Info("scheduler disabled by config")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpapi.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpCfg.EnableAuth = cfg.Auth.Enabled
	httpCfg.EnableWeeklyBoard = cfg.Features.IsEnabled(config.FeatureLeaderboardWeekly)
	httpCfg.EnableSharing = cfg.Features.IsEnabled(config.FeatureExperimentalSharing)

	server := httpapi.NewServer(httpCfg, deps)
	errCh := server.StartAsync()
	log.Info("Gyaan Arena Hub is running", logger.String("addr", server.Address()))

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("root context cancelled")
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", logger.Err(err))
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRING HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// openStore открывает документ-хранилище согласно конфигурации.
// Для backend'а redis вторым значением возвращается *redis.Store,
// его клиент переиспользуется шиной событий.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (kv.Store, *redis.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return kv.NewMemory(), nil, nil

	case config.StoreFile:
		store, err := kv.NewFile(cfg.Store.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case config.StoreRedis:
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.KeyPrefix = cfg.Redis.KeyPrefix
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		store, err := redis.NewStore(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info("redis connection established", logger.String("addr", redisCfg.Addr()))
		return kv.NewResilient(store, log), store, nil

	case config.StorePostgres:
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}

		migrator := postgres.NewMigrator(conn)
		if err := migrator.Migrate(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("migrations failed: %w", err)
		}
		log.Info("database schema is up to date")

		return kv.NewResilient(postgres.NewStore(conn), log), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// openEventBus выбирает шину событий: Redis pub/sub при включённом
// REDIS_EVENT_BUS и redis-хранилище, иначе - внутрипроцессная.
func openEventBus(cfg *config.Config, redisStore *redis.Store, log *logger.Logger) (eventBus, error) {
	localCfg := messaging.DefaultInMemoryEventBusConfig()
	localCfg.Logger = log

	if cfg.Redis.EventBus && redisStore != nil {
		return messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         redisStore.Client(),
			LocalBusConfig: localCfg,
			Logger:         log,
		})
	}

	return messaging.NewInMemoryEventBus(localCfg), nil
}

// subscribeToasts подписывает обработчики уведомлений на шину.
// Каждый toast управляется своим feature-флагом.
func subscribeToasts(cfg *config.Config, bus eventBus, feed *eventhandler.NotificationFeed, log *logger.Logger) error {
	if cfg.Features.IsEnabled(config.FeatureNotifyAchievements) {
		h := eventhandler.NewOnAchievementUnlockedHandler(feed, log)
		if err := bus.Subscribe(h.EventType(), h.Handle); err != nil {
			return err
		}
	}

	if cfg.Features.IsEnabled(config.FeatureNotifyLevelUp) {
		h := eventhandler.NewOnLevelUpHandler(feed, log)
		if err := bus.Subscribe(h.EventType(), h.Handle); err != nil {
			return err
		}
	}

	if cfg.Features.IsEnabled(config.FeatureNotifyStreakBroken) {
		h := eventhandler.NewOnStreakBrokenHandler(feed, log)
		if err := bus.Subscribe(h.EventType(), h.Handle); err != nil {
			return err
		}
	}

	return nil
}

// registerJobs регистрирует фоновые задачи согласно конфигурации.
func registerJobs(
	cfg *config.Config,
	sched *scheduler.Scheduler,
	leaderboardRepo *kv.LeaderboardRepository,
	progressRepo *kv.ProgressRepository,
	log *logger.Logger,
) error {
	if cfg.Features.IsEnabled(config.FeatureJobWeeklyRefresh) {
		job := jobs.NewRefreshWeeklyBoardJob(leaderboardRepo, log)
		schedule := scheduler.NewWeeklySchedule(
			time.Weekday(cfg.Scheduler.WeeklyRefreshWeekday),
			cfg.Scheduler.WeeklyRefreshHour,
			cfg.Scheduler.WeeklyRefreshMinute,
		)
		if err := sched.Register(job, schedule); err != nil {
			return err
		}
	}

	if cfg.Scheduler.SnapshotEnabled && cfg.Features.IsEnabled(config.FeatureJobCSVSnapshot) {
		job := jobs.NewReportSnapshotJob(progressRepo, cfg.Scheduler.SnapshotDir, log)
		if err := sched.Register(job, scheduler.NewIntervalSchedule(cfg.Scheduler.SnapshotInterval)); err != nil {
			return err
		}
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

// storeHealthChecker проверяет доступность документ-хранилища
// чтением служебного ключа.
type storeHealthChecker struct {
	store kv.Store
}

func newHealthChecker(store kv.Store) httpapi.HealthChecker {
	return &storeHealthChecker{store: store}
}

func (c *storeHealthChecker) Check(ctx context.Context) httpapi.HealthStatus {
	_, err := c.store.Get(ctx, kv.KeyProgress)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return httpapi.HealthStatus{
			Healthy: false,
			Message: "document store unavailable",
			Details: map[string]any{"error": err.Error()},
		}
	}

	return httpapi.HealthStatus{Healthy: true, Message: "ok"}
}
