// Package application wires configuration, storage, delivery and the HTTP
// router into a runnable service.
package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/api"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/service"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/config"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/db/memory"
	mongodb "github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/db/mongo"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/db/postgres"
	redisdb "github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/db/redis"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/events"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/mail"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/queue"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

type check = func(ctx context.Context) error

// stores is the backend-specific half of the wiring.
type stores struct {
	tickets  ports.TicketRepository
	users    ports.UserRepository
	creds    ports.CredentialRepository
	sessions ports.SessionStore
	dedup    ports.DedupChecker
	checks   map[string]check
	closers  []func(ctx context.Context) error
}

// API is the assembled service: HTTP server plus background workers.
type API struct {
	cfg        *config.Config
	log        zerolog.Logger
	echo       *echo.Echo
	dispatcher *queue.Dispatcher
	registry   *service.Registry
	producer   *events.Producer
	closers    []func(ctx context.Context) error
}

// NewAPI validates cfg, connects every configured backend and builds the
// router. Connections opened before a failure are closed again.
func NewAPI(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *API, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &API{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	st, err := openStores(ctx, cfg, log)
	if st != nil {
		a.closers = append(a.closers, st.closers...)
	}
	if err != nil {
		return nil, err
	}

	var (
		sink       ports.DeliveryLog
		deliveries ports.DeliveryHistory
	)
	if mcfg := (mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}); mcfg.Enabled() {
		client, db, err := mongodb.Connect(ctx, mcfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		dl := mongodb.NewDeliveryLog(db)
		if err := dl.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		sink, deliveries = dl, dl
		st.checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}

	// The relay endpoint always talks to the provider; background
	// notifications may go through an external relay instead.
	provider := mail.NewResendClient(cfg.Mail.ResendURL, cfg.Mail.ResendAPIKey, cfg.Mail.From)
	var notifyMailer ports.Mailer = provider
	if cfg.Mail.RelayURL != "" {
		notifyMailer = mail.NewRelayClient(cfg.Mail.RelayURL)
	}
	if cfg.Mail.ResendAPIKey == "" {
		log.Warn().Msg("RESEND_API_KEY is empty; provider calls will be rejected")
	}

	a.dispatcher = queue.NewDispatcher(cfg.Mail.Workers, notifyMailer, st.dedup, sink, log.With().Str("component", "dispatcher").Logger())

	a.producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	if a.producer.Enabled() {
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("ticket events enabled")
	}

	auth := service.NewAuthService(st.creds, st.users, st.sessions, notifyMailer, service.AuthConfig{
		JWTSecret:   cfg.Auth.JWTSecret,
		SessionTTL:  cfg.Auth.SessionTTL,
		RecoveryTTL: cfg.Auth.RecoveryTTL,
		AppURL:      cfg.AppURL,
	}, log)

	a.registry = service.NewRegistry(service.ControllerDeps{
		Auth:          auth,
		Tickets:       st.tickets,
		Users:         st.users,
		Notifier:      a.dispatcher,
		Events:        a.producer,
		AppURL:        cfg.AppURL,
		InternalNotes: cfg.Features.InternalNotes,
		Log:           log,
	})

	a.echo = api.NewRouter(api.RouterDeps{
		Sessions:   a.registry,
		Mailer:     provider,
		Deliveries: deliveries,
		Checks:     st.checks,
		JWTSecret:  cfg.Auth.JWTSecret,
		Location:   cfg.Location(),
		Log:        log,
	})
	return a, nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		mem := memory.New()
		if err := mem.Seed(cfg.SeedPassword); err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		log.Warn().Msg("using the in-memory store; data is lost on restart")
		return &stores{
			tickets:  mem.Tickets(),
			users:    mem.Users(),
			creds:    mem.Credentials(),
			sessions: mem.Sessions(),
			checks:   map[string]check{},
		}, nil
	}

	st := &stores{checks: map[string]check{}}

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns}, log)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	st.closers = append(st.closers, func(context.Context) error { return sqlDB.Close() })
	st.checks["postgres"] = sqlDB.PingContext

	if cfg.Postgres.AutoMigrate {
		if err := postgres.MigrateUp(ctx, db); err != nil {
			return st, err
		}
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return st, err
	}
	st.closers = append(st.closers, func(context.Context) error { return rdb.Close() })
	st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	st.tickets = postgres.NewTicketRepository(db)
	st.users = postgres.NewUserRepository(db)
	st.creds = postgres.NewCredentialRepository(db)
	st.sessions = redisdb.NewSessionStore(rdb)
	st.dedup = redisdb.NewDedupChecker(rdb)
	return st, nil
}

// Handler exposes the router, mainly for tests.
func (a *API) Handler() http.Handler { return a.echo }

// Run serves HTTP and runs the background workers until ctx is cancelled,
// then shuts down in order: HTTP, notification queue, event writer, stores.
func (a *API) Run(ctx context.Context) error {
	workCtx, stopWork := context.WithCancel(context.Background())
	defer stopWork()

	a.dispatcher.Start(workCtx)
	go a.registry.RunSweeper(workCtx, sweepInterval, a.cfg.Auth.SessionIdle)

	srvErr := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.Port
		a.log.Info().Str("addr", addr).Str("store", a.cfg.Store).Msg("http server listening")
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-srvErr:
		if ok {
			runErr = fmt.Errorf("http: %w", err)
		}
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("http shutdown")
	}

	stopWork()
	a.dispatcher.Wait()
	a.close(shutdownCtx)
	return runErr
}

func (a *API) close(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close kafka writer")
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("close backend")
		}
	}
}
