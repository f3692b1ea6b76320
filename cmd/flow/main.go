package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/flow/api/handler"
	"github.com/fastygo/flow/internal/clock"
	"github.com/fastygo/flow/internal/config"
	"github.com/fastygo/flow/internal/events"
	"github.com/fastygo/flow/internal/infrastructure/monitor"
	"github.com/fastygo/flow/internal/infrastructure/storage"
	"github.com/fastygo/flow/internal/middleware"
	"github.com/fastygo/flow/internal/persistence"
	"github.com/fastygo/flow/internal/reminder"
	"github.com/fastygo/flow/internal/router"
	"github.com/fastygo/flow/internal/services/lifecycle"
	"github.com/fastygo/flow/internal/store"
	"github.com/fastygo/flow/pkg/httpcontext"
	"github.com/fastygo/flow/pkg/logger"
	"github.com/fastygo/flow/usecase"
	taskUC "github.com/fastygo/flow/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		App:      cfg.AppName,
		Env:      cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		zapLogger.Fatal("time zone error", zap.Error(err))
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	wallClock := clock.NewReal(zapLogger)

	slot, err := storage.Open(appCtx, cfg.Storage)
	if err != nil {
		zapLogger.Fatal("failed to open task storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	manager.Register("storage", func(ctx context.Context) error {
		return slot.Close()
	})

	adapter := persistence.NewAdapter(slot, zapLogger)
	initial, err := adapter.Load(appCtx)
	if err != nil {
		zapLogger.Fatal("failed to load tasks", zap.Error(err))
	}
	zapLogger.Info("tasks loaded", zap.Int("count", len(initial)), zap.String("driver", cfg.Storage.Driver))

	taskStore := store.New(initial,
		store.WithClock(wallClock),
		store.WithLogger(zapLogger.Named("store")),
	)

	// Attached only after the load so the empty boot state is never written.
	writer := persistence.NewWriter(adapter, wallClock, zapLogger.Named("persist"), persistence.WriterConfig{
		Debounce: cfg.Persist.Debounce,
		Timeout:  cfg.Persist.Timeout,
	})
	detachWriter := writer.Attach(taskStore)
	manager.Register("writer", func(ctx context.Context) error {
		detachWriter()
		return writer.Close(ctx)
	})

	broker := events.NewBroker(zapLogger.Named("events"), events.DefaultBuffer)
	detachBroker := broker.AttachStore(taskStore)
	manager.Register("events", func(ctx context.Context) error {
		detachBroker()
		broker.Close()
		return nil
	})

	scheduler := reminder.New(taskStore, wallClock, newNotifier(cfg.Reminder, zapLogger), broker, zapLogger.Named("reminder"), reminder.Config{
		PollInterval:  cfg.Reminder.PollInterval,
		FlashInterval: cfg.Reminder.FlashInterval,
		ToastTimeout:  cfg.Reminder.ToastTimeout,
		NotifyTimeout: cfg.Reminder.NotifyTimeout,
		AlertLabel:    cfg.Reminder.AlertLabel,
		IdleTitle:     cfg.Reminder.IdleTitle,
	})
	scheduler.Start(appCtx)
	manager.Register("reminder", func(ctx context.Context) error {
		scheduler.Stop()
		return nil
	})

	mon := monitor.New(monitor.Sources{
		Driver:    cfg.Storage.Driver,
		Slot:      slot,
		Writer:    writer,
		Broker:    broker,
		Scheduler: scheduler,
		Tasks:     taskStore,
	}, wallClock, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	dispatcher := usecase.NewDispatcher()
	taskUC.Register(dispatcher, taskUC.New(taskStore, loc, zapLogger))

	ctxAdapter := httpcontext.NewAdapter(appCtx, cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:     apiHandler.NewTaskHandler(dispatcher, ctxAdapter, zapLogger),
		Reminder: apiHandler.NewReminderHandler(scheduler, ctxAdapter, zapLogger),
		Events:   apiHandler.NewEventsHandler(broker, taskStore, scheduler, cfg.HTTP.KeepAlive, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	handler := router.New(handlers,
		middleware.AccessLog(zapLogger.Named("http")),
		middleware.LocalOnly(cfg.HTTP.AllowRemote, zapLogger),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	manager.Go("http_server", cancel, func() error {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		return server.ListenAndServe(cfg.Address())
	})

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func newNotifier(cfg config.ReminderConfig, logger *zap.Logger) reminder.Notifier {
	if cfg.NotifyCommand != "" {
		return reminder.NewExecNotifier(cfg.NotifyCommand)
	}
	return reminder.NewLogNotifier(logger.Named("notify"))
}
