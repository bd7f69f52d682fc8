package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/config"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway/callback"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway/routing"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/storage"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/token"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/usecase"
	"github.com/LepistaBioinformatics/mycelium-sub000/pkg/logger"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	log := logger.Setup(env)
	log.Info("application_startup", "env", env)

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, TracesSampleRate: 1.0, Environment: env}); err != nil {
			log.Error("sentry_init_failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			log.Info("sentry_initialized")
		}
	} else {
		log.Warn("sentry_dsn_missing", "details", "skipping_init")
	}

	cfg := config.Load()

	ctx := context.Background()
	pool, err := storage.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("database_connected")

	tokenStore := storage.NewPostgresTokenStore(pool)
	resolver := token.NewResolver(tokenStore)
	sessions := token.NewSessionProvider(cfg.Core.TokenSecret[:], cfg.Core.TokenExpiration)

	profiles := usecase.NewProfileBuilder(
		storage.NewPostgresUserStore(pool),
		storage.NewPostgresAccountStore(pool),
		storage.NewPostgresGuestUserOnAccountStore(pool),
		storage.NewPostgresGuestRoleStore(pool),
	)

	table := routing.NewTable(cfg.API.Routes)
	gw := gateway.New(table, sessions, resolver, profiles, log)
	gw.Timeout = time.Duration(cfg.API.GatewayTimeoutSeconds) * time.Second
	gw.GatewayIsTLS = cfg.API.TLS != nil
	if len(cfg.API.Callbacks) > 0 {
		gw.Callbacks = callback.NewPipeline(cfg.API.Callbacks, callback.NewHTTPSender(), log)
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Mount("/", gw)

	addr := cfg.API.ServiceIP + ":" + strconv.Itoa(cfg.API.ServicePort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server_listening", "addr", addr)
		var err error
		if cfg.API.TLS != nil {
			err = srv.ListenAndServeTLS(cfg.API.TLS.CertFile, cfg.API.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("server_startup_failed", "error", err)
		os.Exit(1)

	case sig := <-shutdown:
		log.Info("shutdown_signal_received", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful_shutdown_failed", "error", err)
			if err := srv.Close(); err != nil {
				log.Error("server_force_close_failed", "error", err)
			}
		}

		pool.Close()
		log.Info("server_shutdown_complete")
	}
}
