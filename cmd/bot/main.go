package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faktbot/faktbot/internal/bot"
	"github.com/faktbot/faktbot/internal/database"
	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/internal/facts"
	"github.com/faktbot/faktbot/internal/health"
	"github.com/faktbot/faktbot/internal/i18n"
	"github.com/faktbot/faktbot/internal/idempotency"
	"github.com/faktbot/faktbot/internal/lifecycle"
	"github.com/faktbot/faktbot/internal/quiz"
	"github.com/faktbot/faktbot/internal/render"
	"github.com/faktbot/faktbot/internal/repository"
	"github.com/faktbot/faktbot/internal/translate"
	"github.com/faktbot/faktbot/pkg/config"
	"github.com/faktbot/faktbot/pkg/graceful"
	"github.com/faktbot/faktbot/pkg/logger"
	redisclient "github.com/faktbot/faktbot/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, _, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg)
	slog.SetDefault(log)

	shutdown := lifecycle.NewShutdown(log)

	if cfg.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		})
		if err != nil {
			return err
		}
		shutdown.Register("sentry", func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	shutdown.Register("database", func(context.Context) error {
		return db.Close()
	})

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, "migrations"); err != nil {
		return err
	}

	locales, err := i18n.Load("ru")
	if err != nil {
		return err
	}
	if err := locales.Watch(ctx, log); err != nil {
		log.Warn("locale hot reload unavailable", slog.Any("error", err))
	}

	ledger := repository.NewLedger(db, log)

	var translator translate.Translator = translate.Noop{}
	if cfg.Translator.Enabled {
		translator = translate.NewGoogleTranslator(cfg.Translator, log)
	}

	source := facts.NewHTTPSource(cfg.FactSource, log)
	acquirer := facts.NewAcquirer(source, ledger, translator, locales, log)
	catalog := facts.NewFalsehoodCatalog()
	roundFactory := quiz.NewRoundFactory(acquirer, catalog, log)

	renderer := render.NewRenderer(cfg.Render.FontPath, log)

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))

	store := idempotency.NewMemoryStore(log)
	if cfg.Redis.Addr != "" {
		rdb, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		shutdown.Register("redis", func(context.Context) error {
			return rdb.Close()
		})

		store = idempotency.NewRedisStore(rdb, log)
		checker.AddCheck("redis", health.NewRedisChecker(rdb))
	}
	idem := idempotency.NewManager(store, log)

	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	b, err := bot.New(cfg.Bot, bot.Deps{
		Ledger:      ledger,
		Acquirer:    acquirer,
		RoundMaker:  roundFactory,
		Renderer:    renderer,
		Locales:     locales,
		ErrHandler:  errHandler,
		Idempotency: idem,
		Log:         log,
	})
	if err != nil {
		return err
	}

	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))

	shutdown.Register("bot", func(context.Context) error {
		b.Stop()
		return nil
	})

	opsServer := newOpsServer(cfg, checker, log)

	go b.Start()

	serveErr := opsServer.ListenAndServe(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	return serveErr
}

func newOpsServer(cfg *config.Config, checker *health.Checker, log *slog.Logger) *graceful.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		results := checker.Check(ctx)

		status := http.StatusOK
		for _, v := range results {
			if v != "OK" {
				status = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(results); err != nil {
			log.Error("failed to write health response", slog.Any("error", err))
		}
	})

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           logger.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return graceful.NewServer(log, srv, cfg.Server.ShutdownTimeout)
}
