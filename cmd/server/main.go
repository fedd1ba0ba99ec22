package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"ulascansenturk/weather-lookup/config"
	"ulascansenturk/weather-lookup/internal/api/v1/handlers"
	"ulascansenturk/weather-lookup/internal/db/lookuplog"
	"ulascansenturk/weather-lookup/internal/inmemorycache"
	"ulascansenturk/weather-lookup/internal/metrics"
	"ulascansenturk/weather-lookup/internal/providers"
	"ulascansenturk/weather-lookup/internal/rediscache"
	"ulascansenturk/weather-lookup/internal/service"
)

func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		if errors.Is(err, providers.ErrConfiguration) {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logLevel, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil || conf.LogLevel == "" {
		logLevel = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).
		Level(logLevel).
		With().
		Str("service_name", conf.ServiceName).
		Timestamp().
		Logger()
	log.Logger = logger

	ctx, mainCtxStop := context.WithCancel(context.Background())

	m := metrics.NewMetrics("weather_lookup")

	var history lookuplog.Repository
	if conf.HistoryEnabled() {
		db, dbErr := initializeDatabase(conf)
		if dbErr != nil {
			logger.Fatal().Err(dbErr).Msg("failed to initialize database")
		}

		if sqlDB, err := db.DB(); err == nil {
			if err := m.RegisterDBStats(sqlDB, conf.DBName); err != nil {
				logger.Warn().Err(err).Msg("failed to register database metrics")
			}
		}

		history = lookuplog.NewRepository(db)
		logger.Info().Str("host", conf.DBHost).Msg("lookup history enabled")
	}

	opts := conf.ProviderOptions()

	var geocoder providers.Geocoder
	geocoder, err = providers.NewOpenWeatherGeocoder(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create geocoder")
	}

	if conf.CacheTTL > 0 {
		cache, closeCache := initializeCache(ctx, conf, logger)
		defer closeCache()
		geocoder = providers.NewCachedGeocoder(geocoder, cache, conf.CacheTTL, logger)
	}

	var weatherClient providers.WeatherClient
	weatherClient, err = providers.NewWeatherClient(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create weather client")
	}

	if conf.BreakerEnabled {
		breaker := providers.NewBreakerWeatherClient(providers.BreakerConfig{
			Name:             "openweather",
			FailureThreshold: conf.BreakerFailures,
			OpenTimeout:      conf.BreakerTimeout,
		}, weatherClient)

		if err := m.RegisterGauge(
			"weather_lookup_breaker_open",
			"1 when the weather API circuit breaker is open",
			func() float64 {
				if breaker.State() == gobreaker.StateOpen {
					return 1
				}
				return 0
			},
		); err != nil {
			logger.Warn().Err(err).Msg("failed to register breaker metric")
		}

		weatherClient = breaker
	}

	lookupService := service.NewLookupService(geocoder, weatherClient, history, m, logger)

	handler := handlers.NewWeatherHandler(lookupService, conf.HTTPTimeoutDuration())

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/", handler)

	httpServer := &http.Server{
		Addr:              conf.ServerAddress,
		Handler:           m.InstrumentHandler(mux),
		ReadHeaderTimeout: conf.HTTPTimeoutDuration(),
	}

	handleSignals(ctx, mainCtxStop, func(shutdownCtx context.Context) {
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
		lookupService.Wait()
	})

	logger.Info().
		Str("units", string(opts.Units)).
		Dur("cache_ttl", conf.CacheTTL).
		Bool("breaker", conf.BreakerEnabled).
		Msgf("started server on %s", conf.ServerAddress)

	serverErr := httpServer.ListenAndServe()
	if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
		logger.Fatal().Err(serverErr).Msg("server stopped")
	}
	<-ctx.Done()
}

func initializeDatabase(config *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&lookuplog.LookupRecord{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(3 * time.Minute)

	return db, nil
}

// initializeCache prefers redis when an address is configured and falls back
// to the in-process cache when it is missing or unreachable.
func initializeCache(ctx context.Context, conf *config.Config, logger zerolog.Logger) (providers.CoordinateCache, func()) {
	if conf.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{Addr: conf.RedisAddress})
		cache := rediscache.New(client, logger)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		err := cache.Ping(pingCtx)
		if err == nil {
			logger.Info().Str("address", conf.RedisAddress).Msg("using redis coordinate cache")
			return cache, func() { _ = client.Close() }
		}

		logger.Warn().Err(err).Str("address", conf.RedisAddress).Msg("redis unreachable, using in-memory cache")
		_ = client.Close()
	}

	cache := inmemorycache.NewInMemoryCacheProvider(time.Minute)
	return cache, cache.Close
}

func handleSignals(ctx context.Context, cancelCtx context.CancelFunc, callback func(context.Context)) {
	sig := make(chan os.Signal, 1)

	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	const shutdownDuration = 30 * time.Second

	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownDuration)

		go func() {
			<-shutdownCtx.Done()

			if shutdownCtx.Err() == context.DeadlineExceeded {
				panic("graceful shutdown timed out.. forcing exit.")
			}
		}()

		callback(shutdownCtx)

		cancel()
		cancelCtx()
	}()
}
