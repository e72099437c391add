// Package app assembles stores, services and the HTTP router from a Config.
// The server and the CLI share it so both see the same backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	assignmenthandler "accountdesk/internal/assignment/handler"
	"accountdesk/internal/assignment/lock"
	assignmentmetrics "accountdesk/internal/assignment/metrics"
	assignmentservice "accountdesk/internal/assignment/service"
	clientservice "accountdesk/internal/client/service"
	clientstore "accountdesk/internal/client/store"
	managerhandler "accountdesk/internal/manager/handler"
	managerservice "accountdesk/internal/manager/service"
	managerstore "accountdesk/internal/manager/store"
	"accountdesk/internal/platform/config"
	"accountdesk/internal/platform/kafka"
	"accountdesk/internal/platform/metrics"
	platformmongo "accountdesk/internal/platform/mongo"
	"accountdesk/internal/platform/postgres"
	platformredis "accountdesk/internal/platform/redis"
	"accountdesk/internal/reporting"
	reportinghandler "accountdesk/internal/reporting/handler"
	httptransport "accountdesk/internal/transport/http"
	"accountdesk/pkg/platform/circuit"
)

const (
	topicPartitions = 3
	topicReplicas   = 1

	breakerFailures = 5
	breakerCooldown = 30 * time.Second
)

// App holds the wired services and the handles that must be closed on shutdown.
type App struct {
	Config      config.Config
	Logger      *slog.Logger
	Managers    *managerservice.Directory
	Clients     *clientservice.Registry
	Assignments *assignmentservice.Service
	Reports     *reporting.Service

	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	checks   map[string]httptransport.HealthCheck
	closers  []func(context.Context) error
}

type backend struct {
	managers managerservice.Store
	clients  clientservice.Store
	tx       assignmentservice.StoreTx
}

// New connects every configured dependency. On error, anything already opened is closed.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, reg *prometheus.Registry) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		metrics:  metrics.NewWithRegisterer(reg),
		gatherer: reg,
		checks:   make(map[string]httptransport.HealthCheck),
	}
	if err := a.wire(ctx, reg); err != nil {
		_ = a.Close(context.WithoutCancel(ctx))
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, reg *prometheus.Registry) error {
	cfg := a.Config
	logger := a.Logger

	b, err := a.openBackend(ctx)
	if err != nil {
		return err
	}

	a.Managers, err = managerservice.New(b.managers,
		managerservice.WithLogger(logger),
		managerservice.WithMetrics(a.metrics),
		managerservice.WithNameCache(cfg.Store.NameCacheTTL),
	)
	if err != nil {
		return err
	}
	a.Clients, err = clientservice.New(b.clients,
		clientservice.WithLogger(logger),
		clientservice.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}

	opts := []assignmentservice.Option{
		assignmentservice.WithLogger(logger),
		assignmentservice.WithMetrics(assignmentmetrics.NewWithRegisterer(reg)),
	}
	if cfg.Assignment.Transactional {
		opts = append(opts, assignmentservice.WithTx(b.tx))
	}
	locker, err := a.openLocker(ctx)
	if err != nil {
		return err
	}
	if locker != nil {
		opts = append(opts, assignmentservice.WithLocker(locker))
	}
	publisher, err := a.openPublisher(ctx)
	if err != nil {
		return err
	}
	if publisher != nil {
		opts = append(opts, assignmentservice.WithPublisher(publisher))
	}
	a.Assignments, err = assignmentservice.New(a.Managers, a.Clients, opts...)
	if err != nil {
		return err
	}

	a.Reports, err = reporting.New(a.Managers, a.Clients, reporting.WithLogger(logger))
	if err != nil {
		return err
	}
	return nil
}

func (a *App) openBackend(ctx context.Context) (backend, error) {
	switch a.Config.Store.Backend {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, a.Config.Store.PostgresURL)
		if err != nil {
			return backend{}, err
		}
		a.onClose(func(context.Context) error { return db.Close() })
		if err := postgres.Migrate(ctx, db); err != nil {
			return backend{}, err
		}
		a.checks["postgres"] = db.PingContext
		return backend{
			managers: managerstore.NewPostgres(db),
			clients:  clientstore.NewPostgres(db),
			tx:       postgres.NewTxRunner(db),
		}, nil

	case config.StoreMongo:
		client, err := platformmongo.Connect(ctx, a.Config.Store.MongoURI)
		if err != nil {
			return backend{}, err
		}
		a.onClose(client.Disconnect)
		db := client.Database(a.Config.Store.MongoDatabase)
		managers := managerstore.NewMongo(db)
		if err := managers.EnsureIndexes(ctx); err != nil {
			return backend{}, err
		}
		clients := clientstore.NewMongo(db)
		if err := clients.EnsureIndexes(ctx); err != nil {
			return backend{}, err
		}
		a.checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return backend{managers: managers, clients: clients, tx: platformmongo.NewTxRunner(client)}, nil

	case config.StoreMemory:
		return backend{managers: managerstore.NewInMemory(), clients: clientstore.NewInMemory()}, nil
	}
	return backend{}, fmt.Errorf("unknown store backend %q", a.Config.Store.Backend)
}

// openLocker returns nil when assignment locking is off. With Redis configured the
// lock is shared between instances; otherwise it only covers this process.
func (a *App) openLocker(ctx context.Context) (assignmentservice.Locker, error) {
	if !a.Config.Assignment.Lock {
		return nil, nil
	}
	client, err := platformredis.New(ctx, a.Config.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		a.Logger.Warn("assignment lock is process-local; set ACCOUNTDESK_REDIS_URL to share it")
		return lock.NewLocal(), nil
	}
	a.onClose(func(context.Context) error { return client.Close() })
	a.checks["redis"] = client.Health
	return lock.NewRedis(client.Client, lock.WithWait(a.Config.Assignment.LockWait)), nil
}

func (a *App) openPublisher(ctx context.Context) (assignmentservice.Publisher, error) {
	if len(a.Config.Kafka.Brokers) == 0 {
		return nil, nil
	}
	client, err := kafka.NewClient(a.Config.Kafka)
	if err != nil {
		return nil, err
	}
	a.onClose(func(context.Context) error {
		client.Close()
		return nil
	})
	if err := kafka.EnsureTopic(ctx, client, a.Config.Kafka.Topic, topicPartitions, topicReplicas); err != nil {
		return nil, err
	}
	a.checks["kafka"] = client.Ping
	breaker := circuit.New("kafka",
		circuit.WithFailureThreshold(breakerFailures),
		circuit.WithCooldown(breakerCooldown),
	)
	return kafka.NewPublisher(client, a.Config.Kafka.Topic,
		kafka.WithBreaker(breaker),
		kafka.WithLogger(a.Logger),
	), nil
}

// Router mounts every module on the shared middleware chain.
func (a *App) Router() http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Logger:   a.Logger,
		Metrics:  a.metrics,
		Gatherer: a.gatherer,
		Checks:   a.checks,
	},
		managerhandler.New(a.Managers, a.Logger),
		assignmenthandler.New(a.Assignments, a.Clients, a.Config.Server.AdminToken, a.Logger),
		reportinghandler.New(a.Reports, a.Logger),
	)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases handles in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
