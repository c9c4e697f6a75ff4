package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_shop/internal/auth"
	"github.com/fjod/go_shop/internal/cart"
	"github.com/fjod/go_shop/internal/catalog"
	"github.com/fjod/go_shop/internal/checkout"
	"github.com/fjod/go_shop/internal/db"
	h "github.com/fjod/go_shop/internal/http"
	"github.com/fjod/go_shop/internal/order"
	"github.com/fjod/go_shop/internal/outbox"
	"github.com/fjod/go_shop/internal/session"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	KafkaBrokers    []string
	DB              db.Credentials
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		DB: db.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "go_shop"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "./migrations"),
		},
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	conn, err := db.Connect(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer conn.Close()
	log.Println("Connected to postgres!")

	if errMig := db.RunMigrations(conn, &cfg.DB); errMig != nil {
		log.Fatalf("Failed to run migrations: %v", errMig)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	sessions := session.NewManager(session.NewRedisStore(redisClient))

	catalogRepo := catalog.NewRepository(conn)
	catalogSvc := catalog.NewService(catalogRepo, catalog.NewRedisCache(redisClient))

	orderRepo := order.NewRepository(conn)
	authSvc := auth.NewService(auth.NewRepository(conn))
	cartSvc := cart.NewService(sessions, catalogSvc)
	checkoutSvc := checkout.NewService(sessions, orderRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller := outbox.NewPoller(orderRepo, cfg.KafkaBrokers...)
	go poller.Run(ctx)

	router := h.NewRouter(h.RouterConfig{
		Sessions:       sessions,
		Catalog:        catalogSvc,
		Cart:           cartSvc,
		Checkout:       checkoutSvc,
		Orders:         orderRepo,
		Auth:           authSvc,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if errSrv := server.ListenAndServe(); errSrv != nil && !errors.Is(errSrv, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", errSrv)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		log.Printf("HTTP server shutdown error: %v", errShutdown)
	}
}
