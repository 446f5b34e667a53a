package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/cli"
	"github.com/spec-kit/ticket-tracker/internal/config"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/observability"
	"github.com/spec-kit/ticket-tracker/internal/persistence"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	"github.com/spec-kit/ticket-tracker/internal/service"
	"github.com/spec-kit/ticket-tracker/internal/worker"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util/errorutil"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer store.Close()

	metrics := observability.NewPersistentMetrics(repository.NewMetricsRepository(store), logger)
	dispatcher := events.NewInMemoryDispatcher(func(e events.Event, err error) {
		logger.Warn("event handler failed", zap.String("event", string(e.Type)), zap.Error(err))
	})
	worker.StartActivityWorker(service.NewActivityService(dispatcher, logger))

	ticketRepo := repository.NewTicketRepository(store)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: repository.NewAccountRepository(store),
		SessionRepo: repository.NewSessionRepository(store),
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Sessions:   authService,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	if err := authService.InitializeApp(ctx); err != nil {
		logger.Error("failed to initialize store", zap.Error(err))
		fmt.Fprintf(os.Stderr, "failed to initialize store: %v\n", err)
		return 1
	}

	root := cli.NewRootCmd(&cli.App{
		Auth:    authService,
		Tickets: ticketService,
		Stats:   service.NewStatsService(ticketService),
		Metrics: metrics,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		if cli.IsReported(err) {
			return 1
		}
		domainErr := apperrors.ToDomainError(err)
		logger.Debug("command failed", zap.String("code", domainErr.Code), zap.Error(err))
		fmt.Fprintln(os.Stderr, domainErr.Error())
		return 1
	}
	return 0
}
