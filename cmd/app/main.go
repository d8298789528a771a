package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/productrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	logger := newLogger(configs)

	gormDB := openDatabase(configs)

	redisClient := goredis.NewClient(&goredis.Options{Addr: configs.RedisAddr})
	defer func() {
		_ = redisClient.Close()
	}()

	notifier := kafka.NewNotifier(configs.KafkaBrokers(), configs.KafkaOrderEventsTopic)
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Error("Failed to close notifier", "error", err)
		}
	}()

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, notifier, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	// .env is optional; the process environment wins when both are set.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func newLogger(configs cmd.Config) *slog.Logger {
	level, _ := configs.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func openDatabase(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.ModificationDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return gormDB
}

func startWebServer(app cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.CreateHTTPServer().Register(ctx, e); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
