package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/modules/authapi"
	"github.com/strikerhq/striker-auth/modules/wellknown"
	"github.com/strikerhq/striker-auth/pkg/config"
	"github.com/strikerhq/striker-auth/pkg/httpserver"
	"github.com/strikerhq/striker-auth/pkg/keyring"
	"github.com/strikerhq/striker-auth/pkg/logger"
	"github.com/strikerhq/striker-auth/pkg/pg"
	"github.com/strikerhq/striker-auth/pkg/tokens"
	"github.com/strikerhq/striker-auth/sessions"
	"github.com/strikerhq/striker-auth/storage/postgres"
)

type appConfig struct {
	Logger logger.Config
	Server httpserver.Config
	DB     pg.Config
	Keys   keyring.Config
	Tokens tokens.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg.Logger)
	config.MustLoad(&cfg.Server)
	config.MustLoad(&cfg.DB)
	config.MustLoad(&cfg.Keys)
	config.MustLoad(&cfg.Tokens)

	log := logger.NewFromConfig(cfg.Logger, logger.WithAttr(slog.String("app", "striker-auth")))

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("service stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	// Key material first: a service that cannot sign tokens has nothing to
	// offer, so fail before touching the database.
	keys, err := keyring.Load(cfg.Keys)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "signing keys loaded",
		slog.String("kid", keys.KeyID()),
		slog.String("fingerprint", keys.Fingerprint()),
	)

	issuer, err := tokens.New(keys, cfg.Tokens)
	if err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	store := postgres.New(pool)
	resolver := identity.NewResolver(store, identity.WithLogger(log))
	profiles := identity.NewProfiles(store)
	sessionLog := sessions.New(store, sessions.WithLogger(log))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(pg.Healthcheck(pool)))
	r.Mount("/", authapi.Router(authapi.Services{
		Resolver: resolver,
		Profiles: profiles,
		Issuer:   issuer,
		Sessions: sessionLog,
		Logger:   log,
	}))
	r.Mount("/.well-known", wellknown.Router(keys))

	return httpserver.New(cfg.Server, httpserver.WithLogger(log)).Run(ctx, r)
}

func healthHandler(probe func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := probe(r.Context()); err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
