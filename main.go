package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"transit-booking/cmd"
	"transit-booking/internal/data/repository"
	"transit-booking/internal/usecase"
	"transit-booking/internal/wire"
	"transit-booking/pkg/clock"
	"transit-booking/pkg/database"
	"transit-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Int("hold_minutes", config.Booking.HoldMinutes),
		zap.Duration("sweep_interval", config.Booking.SweepInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, config, clock.NewSystem(), usecase.NewCronScheduler(logger), logger)

	if err := app.Sweeper.Start(ctx); err != nil {
		logger.Fatal("Failed to start expiry sweeper", zap.Error(err))
	}
	defer app.Sweeper.Stop()

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
	logger.Info("Application stopped")
}
