package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventdesk/reservations/internal/api"
	"github.com/eventdesk/reservations/internal/api/metrics"
	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
	"github.com/eventdesk/reservations/internal/core/service"
	"github.com/eventdesk/reservations/internal/infrastructure/config"
	"github.com/eventdesk/reservations/internal/infrastructure/db/memory"
	mongostore "github.com/eventdesk/reservations/internal/infrastructure/db/mongo"
	"github.com/eventdesk/reservations/internal/infrastructure/db/postgres"
	redisstore "github.com/eventdesk/reservations/internal/infrastructure/db/redis"
	"github.com/eventdesk/reservations/internal/infrastructure/http/handlers"
	"github.com/eventdesk/reservations/internal/infrastructure/queue"
	"github.com/eventdesk/reservations/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

type stores struct {
	actors       ports.ActorRepository
	events       ports.EventRepository
	reservations ports.ReservationRepository
	ping         handlers.Pinger
	close        func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "reservations",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	checks := map[string]handlers.Check{"store": handlers.StoreCheck(st.ping)}

	// --- Login limiter (optional) ---
	var limiter ports.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		limiter = redisstore.NewLoginLimiter(rdb, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
		checks["redis"] = handlers.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	// --- Audit trail (optional) ---
	var audit ports.AuditRecorder
	if cfg.Mongo.URI != "" {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mongostore.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}
		dispatcher := queue.NewDispatcher(cfg.Mongo.AuditWorkers, repo, log, metrics.AuditDroppedTotal.Inc)
		dispatcher.Start()
		defer func() {
			drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := dispatcher.Close(drainCtx); err != nil {
				log.Warn().Err(err).Msg("audit queue not fully drained")
			}
		}()
		audit = dispatcher
		checks["mongodb"] = handlers.MongoCheck(client)
		log.Info().Str("database", cfg.Mongo.Database).Msg("reservation audit enabled")
	}

	// --- Core services ---
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Log:          log,
		Gate:         service.NewGate(tokens),
		Auth:         service.NewAuthService(st.actors, tokens, limiter, log),
		Catalog:      service.NewCatalogService(st.events, log),
		Reservations: service.NewReservationService(st.reservations, audit, log),
		Health:       handlers.NewHealthHandler(checks),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Store.Driver == config.DriverMemory {
		mem := memory.New()
		seedDemo(mem, log)
		return &stores{actors: mem, events: mem, reservations: mem, ping: mem, close: func() {}}, nil
	}

	if cfg.Store.RunMigrations {
		if err := postgres.RunMigrations(cfg.Store.DatabaseURL, log); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:            cfg.Store.DatabaseURL,
		MaxConns:       cfg.Store.MaxConns,
		ConnectTimeout: cfg.Store.ConnectTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &stores{
		actors:       postgres.NewActorRepository(pool),
		events:       postgres.NewEventRepository(pool),
		reservations: postgres.NewReservationRepository(pool),
		ping:         pool,
		close:        pool.Close,
	}, nil
}

// seedDemo gives the in-memory store one host, one attendee and one event.
func seedDemo(mem *memory.Store, log zerolog.Logger) {
	host := mem.AddActor("Demo Host", "host@example.com", "host", domain.RoleHost)
	mem.AddActor("Demo Attendee", "attendee@example.com", "attendee", domain.RoleAttendee)
	mem.AddEvent(host.ID, "Demo Event", time.Now().Add(7*24*time.Hour).Truncate(time.Hour))
	log.Warn().Msg("using in-memory store with demo accounts host@example.com and attendee@example.com")
}
