package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/student_records/internal/app"
	"github.com/Freeeeeet/student_records/internal/config"
	"github.com/Freeeeeet/student_records/internal/controller"
	"github.com/Freeeeeet/student_records/internal/controller/rest"
	"github.com/Freeeeeet/student_records/internal/repository"
	"github.com/Freeeeeet/student_records/internal/repository/base"
	"github.com/Freeeeeet/student_records/internal/service"
	"github.com/Freeeeeet/student_records/migrations"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := app.NewPool(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}
	}

	db := base.NewRepository(pool)
	txManager := base.NewTxManager(pool)

	userRepo := repository.NewUserRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	recordRepo := repository.NewTestRecordRepository(db)

	records := service.NewRecordService(
		service.NewUserService(userRepo, logger),
		service.NewBatchService(txManager, membershipRepo, userRepo, cfg.EnforceSingleMembership, logger),
		service.NewFeeService(txManager, feeRepo, userRepo, logger),
		service.NewTestService(txManager, recordRepo, userRepo, cfg.EnforceUniqueScores, logger),
		cfg.OperationTimeout,
	)

	logger.Info("Starting student records service",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Duration("operation_timeout", cfg.OperationTimeout),
		zap.Bool("enforce_single_membership", cfg.EnforceSingleMembership),
		zap.Bool("enforce_unique_scores", cfg.EnforceUniqueScores),
	)

	var notify app.Notifier
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}

		botController := controller.NewBotController(b, records, cfg.TelegramAdminIDs, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			return err
		}
		go botController.Start(ctx)

		notify = func(ctx context.Context, text string) {
			botController.Notify(ctx, cfg.TelegramAdminIDs, text)
		}
	} else {
		logger.Info("TELEGRAM_TOKEN is empty, staff bot disabled")
	}

	scheduler := app.NewScheduler(records, notify, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := rest.NewServer(records, logger)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
