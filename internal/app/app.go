package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/portal/internal/dal/interfaces/iauditrepo"
	"github.com/corray333/backend-labs/portal/internal/dal/interfaces/ihistorystore"
	"github.com/corray333/backend-labs/portal/internal/dal/postgres"
	"github.com/corray333/backend-labs/portal/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/portal/internal/dal/redis"
	"github.com/corray333/backend-labs/portal/internal/dal/repositories/audit"
	directoryrepo "github.com/corray333/backend-labs/portal/internal/dal/repositories/directory/postgres"
	"github.com/corray333/backend-labs/portal/internal/dal/repositories/history/memory"
	historyredis "github.com/corray333/backend-labs/portal/internal/dal/repositories/history/redis"
	outboxrepo "github.com/corray333/backend-labs/portal/internal/dal/repositories/outbox/postgres"
	"github.com/corray333/backend-labs/portal/internal/dal/sheets"
	"github.com/corray333/backend-labs/portal/internal/otel"
	"github.com/corray333/backend-labs/portal/internal/service/models/catalog"
	"github.com/corray333/backend-labs/portal/internal/service/services/composersvc"
	"github.com/corray333/backend-labs/portal/internal/service/services/desksvc"
	"github.com/corray333/backend-labs/portal/internal/service/services/historysvc"
	httptransport "github.com/corray333/backend-labs/portal/internal/transport/http"
	outboxworker "github.com/corray333/backend-labs/portal/internal/worker/outbox"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	desks          *desksvc.Registry
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	redisClient    *redis.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outboxworker.Worker
	otel           *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	a := &App{}

	if viper.GetBool("tracing.enabled") {
		a.otel = otel.MustInitOtel()
	}

	a.postgresClient = postgres.MustNewClient()
	directory := directoryrepo.NewDirectoryRepository(a.postgresClient.Pool())

	history := historysvc.NewStore(a.mustNewHistoryStore())
	composerCfg := composersvc.LoadConfig()

	submitter := sheets.NewClient(
		viper.GetString("submission.url"),
		sheets.WithHTTPClient(&http.Client{
			Timeout: time.Duration(viper.GetInt("submission.timeout_seconds")) * time.Second,
		}),
		sheets.WithLocation(composerCfg.Location),
	)

	var auditor iauditrepo.IAuditorRepository
	if viper.GetBool("rabbitmq.enabled") {
		a.rabbitClient = rabbitmq.MustNewClient()
		outbox := outboxrepo.NewOutboxRepository(a.postgresClient.Pool())
		auditor = audit.NewAuditRabbitMQRepository(a.rabbitClient, outbox)
		a.outboxWorker = outboxworker.NewWorker(outbox, a.rabbitClient)
	}

	cat := catalog.Default()
	a.desks = desksvc.NewRegistry(
		func() *composersvc.Composer {
			return composersvc.MustNewComposer(
				composersvc.WithCatalog(cat),
				composersvc.WithDirectory(directory),
				composersvc.WithSubmitter(submitter),
				composersvc.WithHistory(history),
				composersvc.WithAuditor(auditor),
				composersvc.WithConfig(composerCfg),
			)
		},
		func() *historysvc.Viewer {
			return historysvc.NewViewer(history, nil)
		},
	)

	a.transport = httptransport.NewHTTPTransport(a.desks, cat)
	a.transport.RegisterRoutes()

	return a
}

func (a *App) mustNewHistoryStore() ihistorystore.IHistoryStore {
	switch storage := viper.GetString("history.storage"); storage {
	case "memory":
		slog.Warn("Order history is kept in memory and lost on restart")

		return memory.NewHistoryRepository()
	case "redis", "":
		a.redisClient = redis.MustNewClient()

		return historyredis.NewHistoryRepository(a.redisClient.Redis())
	default:
		panic("unknown history.storage: " + storage)
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	if a.outboxWorker != nil {
		go a.outboxWorker.Start(workerCtx)
	}

	go func() {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.desks.CloseAll()

	if a.outboxWorker != nil {
		a.outboxWorker.Stop()
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			slog.Error("Redis connection close error", "error", err)
		} else {
			slog.Info("Redis connection closed gracefully")
		}
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			slog.Error("Tracer provider shutdown error", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
}
