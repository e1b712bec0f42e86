package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/kra"
	"appraisal/internal/domain/notifications"
	"appraisal/internal/domain/org"
	"appraisal/internal/domain/reports"
	"appraisal/internal/domain/review"
	"appraisal/internal/platform/config"
	cryptoutil "appraisal/internal/platform/crypto"
	"appraisal/internal/platform/db"
	"appraisal/internal/platform/email"
	"appraisal/internal/platform/metrics"
	"appraisal/internal/transport/http/api"
	authhandler "appraisal/internal/transport/http/handlers/auth"
	cycleshandler "appraisal/internal/transport/http/handlers/cycles"
	krashandler "appraisal/internal/transport/http/handlers/kras"
	notificationshandler "appraisal/internal/transport/http/handlers/notifications"
	reportshandler "appraisal/internal/transport/http/handlers/reports"
	reviewshandler "appraisal/internal/transport/http/handlers/reviews"
	"appraisal/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption setup failed: %v", err)
	}

	orgStore := org.NewStore(pool)
	kraStore := kra.NewStore(pool)
	authStore := auth.NewStore(pool)
	reviewStore := review.NewStore(pool)
	notifyStore := notifications.NewStore(pool)

	dispatcher := notifications.NewDispatcher(notifyStore, email.New(cfg), cfg.EmailFrom, cfg.NotifyQueueSize)
	dispatcher.Start(ctx)

	calendar := org.NewCalendar(orgStore, cfg.DefaultTimezone)
	reviewSvc := review.NewService(reviewStore, kraStore, calendar, orgStore, dispatcher)
	notifySvc := notifications.NewService(notifyStore)
	reportsSvc := reports.NewService(reports.NewStore(pool), reviewSvc, cryptoSvc)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(1 << 20))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.With(middleware.RequirePermission(auth.PermSystemAdmin)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(300, time.Minute))

		authhandler.NewHandler(authStore, cfg.JWTSecret).RegisterRoutes(r)
		cycleshandler.NewHandler(reviewSvc).RegisterRoutes(r)
		reviewshandler.NewHandler(reviewSvc, orgStore).RegisterRoutes(r)
		krashandler.NewHandler(kraStore).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc).RegisterRoutes(r)
	})

	log.Printf("appraisal server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
