package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"playlist_syncer/internal/cache"
	"playlist_syncer/internal/config"
	"playlist_syncer/internal/domain"
	"playlist_syncer/internal/publisher"
	"playlist_syncer/internal/scheduler"
	"playlist_syncer/internal/service"
	"playlist_syncer/internal/source/m3u"
	"playlist_syncer/internal/storage/cached"
	"playlist_syncer/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if err := postgres.RunMigrations(cfg.Database.URL(), cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	settingsStore := postgres.NewSettingsStore(db)
	if err := settingsStore.EnsureDefaults(ctx, &domain.Settings{
		URL:              cfg.Defaults.PlaylistURL,
		ChannelsSavePath: cfg.Defaults.ChannelsSavePath,
		MoviesSavePath:   cfg.Defaults.MoviesSavePath,
		SeriesSavePath:   cfg.Defaults.SeriesSavePath,
	}); err != nil {
		logger.Error("failed to seed settings", "error", err)
		os.Exit(1)
	}

	var (
		channelStore service.ChannelStore = postgres.NewChannelStore(db)
		movieStore   service.MovieStore   = postgres.NewMovieStore(db)
		episodeStore service.EpisodeStore = postgres.NewEpisodeStore(db)
		filterStore  service.FilterStore  = postgres.NewFilterStore(db)
	)

	if cfg.Redis.URL != "" {
		redisClient, err := cache.New(cfg.Redis.URL)
		if err != nil {
			logger.Error("failed to configure redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		if err := redisClient.Ping(ctx); err != nil {
			logger.Error("failed to ping redis", "error", err)
			os.Exit(1)
		}

		c := cached.NewCache(redisClient, cfg.Redis.TTL, logger)
		channelStore = cached.NewChannelStore(channelStore, c)
		movieStore = cached.NewMovieStore(movieStore, c)
		episodeStore = cached.NewEpisodeStore(episodeStore, c)
		filterStore = cached.NewFilterStore(filterStore, c)
		logger.Info("redis cache enabled", "ttl", cfg.Redis.TTL)
	}

	source := m3u.New(m3u.Config{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
	}, logger)

	ingestService := service.NewIngestService(source, channelStore, movieStore, episodeStore, settingsStore, logger)
	materializeService := service.NewMaterializeService(movieStore, episodeStore, channelStore, filterStore, logger)

	var opts []scheduler.Option
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		opts = append(opts, scheduler.WithPublisher(rabbitMQ))
	}

	sched := scheduler.NewScheduler(ingestService, materializeService, settingsStore, scheduler.Config{
		CheckInterval: cfg.Schedule.CheckInterval,
		RunTimeout:    cfg.Schedule.RunTimeout,
		FetchHour:     cfg.Schedule.FetchHour,
		FetchMinute:   cfg.Schedule.FetchMinute,
		FetchOnStart:  cfg.Schedule.FetchOnStart,
	}, logger, opts...)

	catalog := service.NewCatalogService(
		channelStore,
		movieStore,
		episodeStore,
		filterStore,
		settingsStore,
		sched,
		logger,
	)

	settings, err := catalog.GetSettings(ctx)
	if err != nil {
		logger.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	if cfg.Metrics.Addr != "" {
		go serveMetrics(ctx, cfg.Metrics.Addr, logger)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting playlist syncer",
		"next_fetch", sched.NextFetch(),
		"last_fetched", settings.LastFetched,
		"channels_save_path", settings.ChannelsSavePath,
		"movies_save_path", settings.MoviesSavePath,
		"series_save_path", settings.SeriesSavePath,
	)

	err = sched.Start(ctx)

	logger.Info("waiting for active run to finish", "state", sched.State())
	sched.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener failed", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
