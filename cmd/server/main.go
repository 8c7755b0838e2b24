package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/selfmastery/backend/api/handler"
	"github.com/selfmastery/backend/internal/config"
	"github.com/selfmastery/backend/internal/infrastructure/journal"
	"github.com/selfmastery/backend/internal/infrastructure/monitor"
	pgInfra "github.com/selfmastery/backend/internal/infrastructure/postgres"
	"github.com/selfmastery/backend/internal/middleware"
	"github.com/selfmastery/backend/internal/router"
	"github.com/selfmastery/backend/internal/services/lifecycle"
	"github.com/selfmastery/backend/internal/services/reminder"
	"github.com/selfmastery/backend/pkg/httpcontext"
	"github.com/selfmastery/backend/pkg/logger"
	"github.com/selfmastery/backend/repository/postgres"
	authUC "github.com/selfmastery/backend/usecase/auth"
	profileUC "github.com/selfmastery/backend/usecase/profile"
	taskUC "github.com/selfmastery/backend/usecase/task"
	tasklistUC "github.com/selfmastery/backend/usecase/tasklist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Notify(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.OnShutdown("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	listRepo := postgres.NewTaskListRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	var reminderJournal *journal.Store
	if cfg.Reminder.Enabled {
		reminderJournal, err = journal.Open(cfg.Reminder.JournalPath, "reminders")
		if err != nil {
			zapLogger.Fatal("failed to open reminder journal", zap.Error(err))
		}
		manager.OnShutdown("reminder_journal", func(ctx context.Context) error {
			return reminderJournal.Close()
		})

		scanner, err := reminder.NewScanner(taskRepo, reminderJournal, zapLogger, reminder.ScannerConfig{
			Interval:  cfg.Reminder.ScanInterval,
			Retention: time.Duration(cfg.Reminder.RetentionHours) * time.Hour,
		})
		if err != nil {
			zapLogger.Fatal("failed to schedule reminder scanner", zap.Error(err))
		}
		scanner.Start()
		manager.OnShutdown("reminder_scanner", func(ctx context.Context) error {
			scanner.Stop(ctx)
			return nil
		})
	}

	mon := monitor.New(pool, reminderJournal, 10*time.Second, zapLogger)
	mon.Start()
	manager.OnShutdown("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	tokenIssuer := authUC.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	authUseCase := authUC.New(userRepo, tokenIssuer, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	tasklistUseCase := tasklistUC.New(listRepo, taskRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, listRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:  apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		TaskList: apiHandler.NewTaskListHandler(tasklistUseCase, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.BearerAuth(tokenIssuer, userRepo, cfg.Context.RequestTimeout, zapLogger)

	staticDir := ""
	if cfg.Web.Enabled {
		staticDir = cfg.Web.Dir
	}
	r := router.New(handlers, authMiddleware, staticDir)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.OnShutdown("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
