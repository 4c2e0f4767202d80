package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"grainbroker-api/config"
	"grainbroker-api/logger"
	"grainbroker-api/repository"
	"grainbroker-api/server"
	"grainbroker-api/service"
)

var (
	configPath   string
	httpPort     string
	postgresHost string
	seed         bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to an optional config file")
	flag.StringVar(&httpPort, "http-port", "", "HTTP web server port")
	flag.StringVar(&postgresHost, "postgres-host", "", "DB host address")
	flag.BoolVar(&seed, "seed", false, "Seed the database with sample data")
}

func main() {
	// Load Config
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Loading config: %v", err)
	}
	if httpPort != "" {
		cfg.HTTPPort = httpPort
	}
	if postgresHost != "" {
		cfg.PostgresHost = postgresHost
	}
	if seed {
		cfg.Seed = true
	}

	logger.Init(cfg.Env)
	defer logger.Sync()

	// Connect Postgresql DB
	repo := repository.NewRepository()
	if err := repo.ConnectDB(cfg.DSN()); err != nil {
		log.Fatalf("Connecting to database: %v", err)
	}
	if err := repo.Migrate(); err != nil {
		log.Fatalf("Migrating database: %v", err)
	}
	if cfg.Seed {
		repo.Seed()
	}

	// Start Web Server
	webserver := server.NewWebServer(cfg.HTTPPort, repo, server.Services{
		Customers: service.NewCustomerService(repo),
		Suppliers: service.NewSupplierService(repo),
		Orders:    service.NewOrderService(repo),
	})
	webserver.Start()

	// Wait for interrupt signal to gracefully shut down the server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	// Create deadline to wait for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := webserver.Shutdown(ctx); err != nil {
		logger.L().Error("Shutting down HTTP web server", zap.Error(err))
	}
	logger.L().Info("HTTP web server gracefully stopped")
}
