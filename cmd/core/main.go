package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/config"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/core"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/credential"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/storage"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/token"
	"github.com/LepistaBioinformatics/mycelium-sub000/pkg/logger"
	"github.com/getsentry/sentry-go"
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

	users := storage.NewPostgresUserStore(pool)
	accounts := storage.NewPostgresAccountStore(pool)
	tenants := storage.NewPostgresTenantStore(pool)
	guestRoles := storage.NewPostgresGuestRoleStore(pool)
	guests := storage.NewPostgresGuestUserOnAccountStore(pool)
	issuer := token.NewIssuer(storage.NewPostgresTokenStore(pool))

	deps := core.Deps{
		Users:        users,
		Accounts:     accounts,
		Tenants:      tenants,
		GuestRoles:   guestRoles,
		Guests:       guests,
		Audit:        audit.NewLoggerService(audit.NewJSONAuditLogger()),
		MFA:          credential.NewMFAService(cfg.Core.TOTPIssuer),
		Hasher:       credential.NewArgon2Hasher(),
		Issuer:       issuer,
		MasterSecret: cfg.Core.MasterSecret,
		TOTPIssuer:   cfg.Core.TOTPIssuer,
	}

	router := core.NewRouter(deps, core.RouterConfig{
		AllowedOrigins: cfg.Core.AllowedOrigins,
		RateLimitRPS:   cfg.Core.RateLimitRPS,
		RateLimitBurst: cfg.Core.RateLimitBurst,
	})

	addr := cfg.Core.ServiceIP + ":" + strconv.Itoa(cfg.Core.ServicePort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server_listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
