// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/clubhouse/internal/api/tournaments"
	"github.com/codr1/clubhouse/internal/config"
	"github.com/codr1/clubhouse/internal/db"
	"github.com/codr1/clubhouse/internal/email"
	"github.com/codr1/clubhouse/internal/ratelimit"
	"github.com/codr1/clubhouse/internal/scheduler"
	domain "github.com/codr1/clubhouse/internal/tournaments"
)

const defaultConfigPath = "config/app.yaml"

type ServerConfig struct {
	Port            string
	Environment     string
	TrustProxy      bool
	ShutdownTimeout time.Duration
}

// loadConfig reads the YAML config named by CONFIG_PATH. When the file does
// not exist the server still starts from environment defaults.
func loadConfig() (*config.Config, error) {
	path := getEnv("CONFIG_PATH", defaultConfigPath)
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg = &config.Config{}
	cfg.App.Name = "clubhouse"
	cfg.App.Environment = getEnv("ENVIRONMENT", "development")
	cfg.App.Port = getEnvAsInt("PORT", 8080)
	cfg.Database = config.DatabaseConfig{
		Driver:   "sqlite",
		Filename: getEnv("DATABASE_PATH", "build/db/clubhouse.db"),
	}
	cfg.LoadEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment, cfg.Features.EnableDebug)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	byePolicy, err := domain.ParseByePolicy(cfg.Tournaments.DefaultByePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid default bye policy")
	}
	tournaments.InitHandlers(database, tournaments.Settings{
		DefaultByePolicy: byePolicy,
		PhoneRegion:      cfg.Tournaments.PhoneRegion,
	})

	if err := startScheduler(cfg, database); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	limiter := ratelimit.New(&ratelimit.Config{
		WritesPerMinute: cfg.API.WritesPerMinute,
		Burst:           cfg.API.WriteBurst,
	})
	defer limiter.Close()

	serverConfig := ServerConfig{
		Port:            strconv.Itoa(cfg.App.Port),
		Environment:     cfg.App.Environment,
		TrustProxy:      cfg.API.TrustProxy,
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
	}
	server := newServer(serverConfig, limiter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil && !errors.Is(err, scheduler.ErrNotInitialized) {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}

// startScheduler runs the match reminder job when reminders are enabled.
func startScheduler(cfg *config.Config, database *db.DB) error {
	if !cfg.Features.EnableReminders {
		log.Info().Msg("Match reminders disabled")
		return nil
	}

	sesClient, err := email.NewSESClient(
		context.Background(),
		cfg.Email.AccessKeyID,
		cfg.Email.SecretAccessKey,
		cfg.Email.Region,
		cfg.Email.FromAddress,
	)
	if err != nil {
		return fmt.Errorf("create ses client: %w", err)
	}

	if err := scheduler.Init(); err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if err := scheduler.RegisterMatchReminderJob(database, sesClient, scheduler.ReminderConfig{
		CronExpr:    cfg.Scheduler.ReminderCron,
		HoursBefore: cfg.Scheduler.LeadHours(),
		FromAddress: cfg.Email.FromAddress,
		Location:    time.Local,
	}); err != nil {
		return err
	}
	return scheduler.Start()
}
