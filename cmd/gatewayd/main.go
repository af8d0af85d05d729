package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	gateway "github.com/PluralKit/PluralKit-sub000"
	redisstore "github.com/PluralKit/PluralKit-sub000/store/redis"
)

func main() {
	configPath := flag.String("config", "./gateway.yaml", "path to config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Node.LogLevel),
	}))
	slog.SetDefault(logger)

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()
	st := redisstore.New(client, redisstore.WithLogger(logger))

	c, err := gateway.New(
		gateway.WithConfig(cfg.gatewayConfig()),
		gateway.WithStore(st),
		gateway.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to build coordinator", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := c.Run(ctx); err != nil {
		logger.Error("coordinator exited", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
