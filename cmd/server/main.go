// Command stockroom-server starts the inventory repository HTTP server.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/config"
	"github.com/limweiliang/stockroom/internal/crypto"
	"github.com/limweiliang/stockroom/internal/migrate"
	"github.com/limweiliang/stockroom/internal/repository"
	"github.com/limweiliang/stockroom/internal/repository/postgres"
	httpserver "github.com/limweiliang/stockroom/internal/server/http"
	"github.com/limweiliang/stockroom/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, seeds the bootstrap admin, and
// serves HTTP until interrupted.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	productRepo := postgres.NewProductRepo(db)
	stockRepo := postgres.NewStockRepo(db)
	saleRepo := postgres.NewSaleRepo(db)

	if err := seedAdmin(ctx, userRepo); err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}

	// Services
	auth := service.NewAuth(userRepo, sessionRepo, logger)
	users := service.NewUsers(userRepo, sessionRepo, logger)
	products := service.NewProducts(productRepo, sessionRepo, logger)
	stock := service.NewStock(stockRepo, productRepo, sessionRepo, logger)
	sales := service.NewSales(saleRepo, stockRepo, sessionRepo, logger)

	app := httpserver.New(auth, users, products, stock, sales, logger).Router()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Listen(cfg.Addr) }()

	select {
	case err := <-errCh:
		logger.Fatal("listen", zap.Error(err))
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// seedAdmin creates the bootstrap administrator on an empty user table. The
// default password is meant to be changed on first login.
func seedAdmin(ctx context.Context, users repository.UserRepository) error {
	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	pwHash, err := crypto.EncodePassword("admin")
	if err != nil {
		return err
	}
	return users.SeedAdmin(ctx, pwHash)
}
