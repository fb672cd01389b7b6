package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rollcall/internal/common/clock"
	"github.com/KirkDiggler/rollcall/internal/common/logger"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	"github.com/KirkDiggler/rollcall/internal/config"
	"github.com/KirkDiggler/rollcall/internal/dice"
	"github.com/KirkDiggler/rollcall/internal/handlers/discord"
	"github.com/KirkDiggler/rollcall/internal/metrics"
	"github.com/KirkDiggler/rollcall/internal/notify"
	campaignRepo "github.com/KirkDiggler/rollcall/internal/repositories/campaign"
	diceRollRepo "github.com/KirkDiggler/rollcall/internal/repositories/dice_roll"
	profileRepo "github.com/KirkDiggler/rollcall/internal/repositories/profile"
	campaignService "github.com/KirkDiggler/rollcall/internal/services/campaign"
	"github.com/KirkDiggler/rollcall/internal/services/messaging"
	rollService "github.com/KirkDiggler/rollcall/internal/services/roll"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("rollcall: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "rollcall")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis holds campaigns and profiles whatever the roll store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = redisClient.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rollMetrics := metrics.New(&metrics.Config{})
	if err := rollMetrics.Register(registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	rollStore, closeStore, err := openRollStore(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeStore()

	broker, closeBroker, err := openBroker(cfg, redisClient, lg)
	if err != nil {
		return err
	}
	defer closeBroker()

	campaigns, err := campaignRepo.NewRedis(&campaignRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return fmt.Errorf("failed to create campaign repository: %w", err)
	}

	profiles, err := profileRepo.NewRedis(&profileRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return fmt.Errorf("failed to create profile repository: %w", err)
	}

	roller, err := dice.New(&dice.Config{})
	if err != nil {
		return fmt.Errorf("failed to create dice roller: %w", err)
	}

	rolls, err := rollService.New(&rollService.Config{
		MaxSides:      cfg.MaxSides,
		MaxDiceCount:  cfg.MaxDiceCount,
		MaxBatchCount: cfg.MaxBatchCount,
		MaxModifier:   cfg.MaxModifier,
		HistoryLimit:  cfg.HistoryLimit,
		DiceRollRepo:  rollStore,
		ProfileRepo:   profiles,
		Broker:        broker,
		DiceRoller:    roller,
		Logger:        lg,
		Metrics:       rollMetrics,
	})
	if err != nil {
		return fmt.Errorf("failed to create roll service: %w", err)
	}

	campaignSvc, err := campaignService.New(&campaignService.Config{
		CampaignRepo:  campaigns,
		ProfileRepo:   profiles,
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
		Logger:        lg,
	})
	if err != nil {
		return fmt.Errorf("failed to create campaign service: %w", err)
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		return fmt.Errorf("failed to create messaging service: %w", err)
	}

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsHandler(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if cfg.DiscordToken == "" {
		lg.Warn("DISCORD_TOKEN is empty, running without the Discord bot")
	} else {
		bot, err := discord.New(&discord.Config{
			Token:            cfg.DiscordToken,
			ApplicationID:    cfg.ApplicationID,
			GuildID:          cfg.GuildID,
			BoardLimit:       cfg.HistoryLimit,
			CampaignService:  campaignSvc,
			RollService:      rolls,
			MessagingService: messagingSvc,
			Broker:           broker,
			Logger:           lg,
			Limits: discord.RollLimits{
				MaxSides:      cfg.MaxSides,
				MaxDiceCount:  cfg.MaxDiceCount,
				MaxBatchCount: cfg.MaxBatchCount,
				MaxModifier:   cfg.MaxModifier,
				HistoryLimit:  cfg.HistoryLimit,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create Discord bot: %w", err)
		}

		g.Go(func() error {
			if err := bot.Start(gctx); err != nil {
				return fmt.Errorf("failed to start Discord bot: %w", err)
			}
			<-gctx.Done()
			return bot.Stop()
		})
	}

	lg.Info("rollcall started",
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("broker_backend", cfg.BrokerBackend),
	)

	err = g.Wait()
	lg.Info("rollcall stopped")
	return err
}

// openRollStore builds the configured dice roll repository
func openRollStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (diceRollRepo.Repository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendSQLite:
		store, err := diceRollRepo.NewSQLite(&diceRollRepo.SQLiteConfig{
			Path: cfg.SQLitePath,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case config.StoreBackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store, err := diceRollRepo.NewPostgres(ctx, &diceRollRepo.PostgresConfig{
			Pool:        pool,
			ApplySchema: true,
		})
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, pool.Close, nil
	}

	store, err := diceRollRepo.NewRedis(&diceRollRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dice roll repository: %w", err)
	}
	return store, func() {}, nil
}

// openBroker builds the configured notification broker
func openBroker(cfg *config.Config, redisClient *redis.Client, lg *zap.Logger) (notify.Broker, func(), error) {
	if cfg.BrokerBackend == config.BrokerBackendMemory {
		broker := notify.NewMemory()
		return broker, func() { _ = broker.Close() }, nil
	}

	broker, err := notify.NewRedis(&notify.RedisConfig{
		RedisClient: redisClient,
		Logger:      lg,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis broker: %w", err)
	}
	return broker, func() {}, nil
}

func metricsHandler(registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
