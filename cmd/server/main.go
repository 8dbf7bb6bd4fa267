package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ZafarDakhnairi/iGameDB/internal/audit"
	"github.com/ZafarDakhnairi/iGameDB/internal/auth/oauth"
	authservice "github.com/ZafarDakhnairi/iGameDB/internal/auth/service"
	"github.com/ZafarDakhnairi/iGameDB/internal/auth/store/revocation"
	"github.com/ZafarDakhnairi/iGameDB/internal/catalog"
	jwttoken "github.com/ZafarDakhnairi/iGameDB/internal/jwt_token"
	"github.com/ZafarDakhnairi/iGameDB/internal/news"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/config"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/database"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/httpserver"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/logger"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/metrics"
	"github.com/ZafarDakhnairi/iGameDB/internal/platform/redis"
	httptransport "github.com/ZafarDakhnairi/iGameDB/internal/transport/http"
	"github.com/ZafarDakhnairi/iGameDB/internal/users/store"
	"github.com/ZafarDakhnairi/iGameDB/internal/wishlist"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogFile)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New()

	userStore, err := buildUserStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	revocations := buildRevocationList(cfg, log)

	tokens := jwttoken.NewJWTService(cfg.JWT.Secret, "igamedb", cfg.JWT.TTL)
	provider := oauth.NewGoogle(cfg.Google)

	recorder, worker := buildAudit(ctx, cfg, log)

	authSvc := authservice.NewService(userStore, tokens, provider, revocations, recorder, m, log)
	wishlistSvc := wishlist.NewService(userStore, recorder, m, log)
	catalogSvc := catalog.NewClient(cfg.Catalog.RAWGAPIKey)
	newsSvc := news.NewClient(log)

	handler := httptransport.NewHandler(authSvc, wishlistSvc, catalogSvc, newsSvc, httptransport.Config{
		TokenTTL:      cfg.JWT.TTL,
		SecureCookies: cfg.IsProduction(),
		StateSecret:   cfg.SessionSecret,
	}, log)
	router := httptransport.NewRouter(handler, jwttoken.NewJWTServiceAdapter(tokens), revocations, m, log)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting igamedb", "addr", cfg.Addr, "env", cfg.Env, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if worker != nil {
		g.Go(func() error {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// buildUserStore selects the account backend. Memory is the default; file
// survives restarts without external services; postgres is the full setup.
func buildUserStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return store.NewMemory(), nil
	case "file":
		return store.NewFile(afero.NewOsFs(), cfg.Store.DataDir)
	case "postgres":
		db, err := database.Open(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Warn("postgres unavailable, falling back to memory store", "error", err)
			return store.NewMemory(), nil
		}
		return store.NewPostgres(db), nil
	default:
		log.Warn("unknown store backend, using memory", "backend", cfg.Store.Backend)
		return store.NewMemory(), nil
	}
}

// buildRevocationList prefers Redis so logouts survive restarts and are
// shared across replicas. Without Redis the in-memory list serves; an
// unreachable Redis degrades the same way instead of refusing to start.
func buildRevocationList(cfg config.Config, log *slog.Logger) revocation.TokenRevocationList {
	client, err := redis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory token revocation list", "error", err)
		return revocation.NewMemoryTRL()
	}
	if client == nil {
		log.Info("redis not configured, using in-memory token revocation list")
		return revocation.NewMemoryTRL()
	}
	return revocation.NewRedisTRL(client.Client)
}

// buildAudit publishes audit events to Kafka when brokers are configured and
// to the structured log otherwise. Audit failures never block request flows.
func buildAudit(ctx context.Context, cfg config.Config, log *slog.Logger) (audit.Recorder, *audit.Worker) {
	recorder := audit.NewChannelRecorder(0, log)

	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Warn("kafka unavailable, audit events go to the log", "error", err)
		} else {
			sink = kafkaSink
		}
	}
	if sink == nil {
		sink = audit.NewLogSink(log)
	}

	return recorder, audit.NewWorker(sink, recorder.Inbox(), log)
}
