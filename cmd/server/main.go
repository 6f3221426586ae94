package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/featureflags"
	"github.com/yourorg/propmanager/internal/handler"
	"github.com/yourorg/propmanager/internal/infrastructure/logger"
	redisinfra "github.com/yourorg/propmanager/internal/infrastructure/redis"
	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/observability/tracing"
	"github.com/yourorg/propmanager/internal/repository"
	"github.com/yourorg/propmanager/internal/security"
	"github.com/yourorg/propmanager/internal/security/audit"
	"github.com/yourorg/propmanager/internal/security/auth"
	"github.com/yourorg/propmanager/internal/security/middleware"
	"github.com/yourorg/propmanager/internal/security/ratelimit"
	"github.com/yourorg/propmanager/internal/service"
	"github.com/yourorg/propmanager/internal/worker"
	"github.com/yourorg/propmanager/pkg/cache"
	"github.com/yourorg/propmanager/pkg/config"
	"github.com/yourorg/propmanager/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting PropManager server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op without OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdownTracing, err := tracing.Init(ctx, log, "propmanager", cfg.Environment)
	if err != nil {
		log.Warn("tracing disabled", slog.String("error", err.Error()))
	}

	// 4. Initialize stores. Without DATABASE_URL everything runs in memory,
	// which is how the test and demo environments operate.
	var (
		pool          *database.ConnectionPool
		bienRepo      domain.BienRepository
		chambreRepo   domain.ChambreRepository
		locataireRepo domain.LocataireRepository
		contratRepo   domain.ContratRepository
		loyerRepo     domain.LoyerRepository
		userRepo      domain.UserRepository
	)

	if cfg.DatabaseURL != "" {
		pool, err = database.NewFromURL(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to Postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure schema", slog.String("error", err.Error()))
			os.Exit(1)
		}

		db := pool.GetDB()
		bienRepo = repository.NewPostgresBienRepository(db, log)
		chambreRepo = repository.NewPostgresChambreRepository(db, log)
		locataireRepo = repository.NewPostgresLocataireRepository(db, log)
		contratRepo = repository.NewPostgresContratRepository(db, log)
		loyerRepo = repository.NewPostgresLoyerRepository(db, log)
		userRepo = repository.NewPostgresUserRepository(db, log)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		bienRepo = repository.NewMemoryBienRepository()
		chambreRepo = repository.NewMemoryChambreRepository()
		locataireRepo = repository.NewMemoryLocataireRepository()
		contratRepo = repository.NewMemoryContratRepository()
		loyerRepo = repository.NewMemoryLoyerRepository()
		userRepo = repository.NewMemoryUserRepository()
	}

	// 5. Initialize Redis for document storage; optional
	var redisClient *redisinfra.Client
	var documentRepo domain.DocumentRepository
	if cfg.RedisURL != "" {
		redisClient, err = redisinfra.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		documentRepo = repository.NewRedisDocumentRepository(redisClient.Raw())
	} else {
		log.Warn("REDIS_URL not set, storing documents in memory")
		documentRepo = repository.NewMemoryDocumentRepository()
	}

	// 6. Initialize services
	bienService := service.NewBienService(bienRepo, log)
	chambreService := service.NewChambreService(chambreRepo, log)
	locataireService := service.NewLocataireService(locataireRepo, log)
	contratService := service.NewContratService(contratRepo, log)
	loyerService := service.NewLoyerService(loyerRepo, log)
	locationService := service.NewLocationService(chambreService, locataireService, contratService, log)
	documentService := service.NewDocumentService(documentRepo, locataireRepo, log)
	propManagerService := service.NewPropManagerService(
		bienService,
		chambreService,
		locataireService,
		contratService,
		loyerService,
		cache.New(),
		time.Duration(cfg.DashboardCacheTTLSeconds)*time.Second,
		log,
	)
	// 7. Initialize security components. The token manager is shared between
	// the auth service and the JWT middleware.
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "propmanager")
	authService := service.NewAuthService(userRepo, tokenManager, time.Duration(cfg.TokenTTLMinutes)*time.Minute, log)
	authzService := security.NewAuthorizationService(log)
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	auditLogger := audit.NewLogger(log)

	// 8. Initialize handlers
	broadcaster := activity.NewBroadcaster()
	bienHandler := handler.NewBienHandler(bienService, broadcaster, log, cfg.DefaultPageLimit, cfg.MaxPageLimit)
	chambreHandler := handler.NewChambreHandler(chambreService, broadcaster, log, cfg.DefaultPageLimit, cfg.MaxPageLimit)
	locataireHandler := handler.NewLocataireHandler(locataireService, broadcaster, log, cfg.DefaultPageLimit, cfg.MaxPageLimit)
	contratHandler := handler.NewContratHandler(contratService, broadcaster, log, cfg.DefaultPageLimit, cfg.MaxPageLimit)
	loyerHandler := handler.NewLoyerHandler(loyerService, broadcaster, log, cfg.DefaultPageLimit, cfg.MaxPageLimit)
	dashboardHandler := handler.NewDashboardHandler(propManagerService, log)
	locationHandler := handler.NewLocationHandler(locationService, broadcaster, log)
	documentHandler := handler.NewDocumentHandler(documentService, broadcaster, log)
	referentielsHandler := handler.NewReferentielsHandler(log)
	authHandler := handler.NewAuthHandler(authService, rateLimiter, log)
	activiteHandler := handler.NewActiviteHandler(broadcaster, log, cfg.CORSAllowedOrigins)
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)

	// 9. Setup HTTP routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/biens", bienHandler.List)
	mux.HandleFunc("POST /api/biens", bienHandler.Create)
	mux.HandleFunc("GET /api/biens/rechercher", bienHandler.Rechercher)
	mux.HandleFunc("GET /api/biens/statistiques", bienHandler.Statistiques)
	mux.HandleFunc("GET /api/biens/{id}", bienHandler.Get)
	mux.HandleFunc("PUT /api/biens/{id}", bienHandler.Update)
	mux.HandleFunc("DELETE /api/biens/{id}", bienHandler.Delete)
	mux.HandleFunc("GET /api/biens/{id}/chambres", chambreHandler.ParBien)

	mux.HandleFunc("GET /api/chambres", chambreHandler.List)
	mux.HandleFunc("POST /api/chambres", chambreHandler.Create)
	mux.HandleFunc("GET /api/chambres/libres", chambreHandler.Libres)
	mux.HandleFunc("GET /api/chambres/louees", chambreHandler.Louees)
	mux.HandleFunc("GET /api/chambres/statistiques", chambreHandler.Statistiques)
	mux.HandleFunc("GET /api/chambres/{id}", chambreHandler.Get)
	mux.HandleFunc("PUT /api/chambres/{id}", chambreHandler.Update)
	mux.HandleFunc("DELETE /api/chambres/{id}", chambreHandler.Delete)
	mux.HandleFunc("PATCH /api/chambres/{id}/statut", chambreHandler.UpdateStatut)
	mux.HandleFunc("PATCH /api/chambres/{id}/loyer", chambreHandler.UpdateLoyer)
	mux.HandleFunc("GET /api/chambres/{id}/contrats", contratHandler.ParChambre)

	mux.HandleFunc("GET /api/locataires", locataireHandler.List)
	mux.HandleFunc("POST /api/locataires", locataireHandler.Create)
	mux.HandleFunc("GET /api/locataires/actifs", locataireHandler.Actifs)
	mux.HandleFunc("GET /api/locataires/inactifs", locataireHandler.Inactifs)
	mux.HandleFunc("GET /api/locataires/rechercher", locataireHandler.Rechercher)
	mux.HandleFunc("GET /api/locataires/statistiques", locataireHandler.Statistiques)
	mux.HandleFunc("GET /api/locataires/{id}", locataireHandler.Get)
	mux.HandleFunc("PUT /api/locataires/{id}", locataireHandler.Update)
	mux.HandleFunc("DELETE /api/locataires/{id}", locataireHandler.Delete)
	mux.HandleFunc("PATCH /api/locataires/{id}/statut", locataireHandler.UpdateStatut)
	mux.HandleFunc("PATCH /api/locataires/{id}/contact", locataireHandler.UpdateContact)
	mux.HandleFunc("GET /api/locataires/{id}/documents", documentHandler.ListParLocataire)
	mux.HandleFunc("POST /api/locataires/{id}/documents", documentHandler.Upload)

	mux.HandleFunc("GET /api/contrats", contratHandler.List)
	mux.HandleFunc("POST /api/contrats", contratHandler.Create)
	mux.HandleFunc("GET /api/contrats/actifs", contratHandler.Actifs)
	mux.HandleFunc("GET /api/contrats/statistiques", contratHandler.Statistiques)
	mux.HandleFunc("GET /api/contrats/{id}", contratHandler.Get)
	mux.HandleFunc("PUT /api/contrats/{id}", contratHandler.Update)
	mux.HandleFunc("DELETE /api/contrats/{id}", contratHandler.Delete)
	mux.HandleFunc("GET /api/contrats/{id}/loyers", loyerHandler.ParContrat)

	mux.HandleFunc("GET /api/loyers", loyerHandler.List)
	mux.HandleFunc("POST /api/loyers", loyerHandler.Create)
	mux.HandleFunc("GET /api/loyers/en-retard", loyerHandler.EnRetard)
	mux.HandleFunc("GET /api/loyers/en-attente", loyerHandler.EnAttente)
	mux.HandleFunc("GET /api/loyers/statistiques", loyerHandler.Statistiques)
	mux.HandleFunc("GET /api/loyers/{id}", loyerHandler.Get)
	mux.HandleFunc("PUT /api/loyers/{id}", loyerHandler.Update)
	mux.HandleFunc("DELETE /api/loyers/{id}", loyerHandler.Delete)
	mux.HandleFunc("POST /api/loyers/{id}/payer", loyerHandler.MarquerPaye)

	mux.HandleFunc("GET /api/documents/{id}", documentHandler.Download)
	mux.HandleFunc("DELETE /api/documents/{id}", documentHandler.Delete)

	mux.HandleFunc("GET /api/dashboard", dashboardHandler.Dashboard)
	mux.HandleFunc("GET /api/recherche", dashboardHandler.Recherche)
	mux.HandleFunc("POST /api/synchroniser", dashboardHandler.Synchroniser)
	mux.HandleFunc("GET /api/connectivite", dashboardHandler.Connectivite)
	mux.HandleFunc("GET /api/rapport", dashboardHandler.Rapport)
	mux.Handle("GET /api/referentiels", referentielsHandler)

	mux.HandleFunc("POST /api/location/louer", locationHandler.Louer)
	mux.HandleFunc("POST /api/location/{contratID}/liberer", locationHandler.Liberer)

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)

	mux.Handle("GET /ws/activite", activiteHandler)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", healthHandler.Health)
	mux.HandleFunc("/readyz", healthHandler.Ready)

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> audit -> sanitize ->
	// content type -> rate limit -> JWT -> CORS -> routes
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			middleware.AuditMiddleware(auditLogger)(
				middleware.SanitizeInputs(log)(
					middleware.ValidateJSONContentType(log)(
						middleware.RateLimitMiddleware(rateLimiter, log)(
							middleware.JWTMiddleware(tokenManager, authzService, auditLogger, log)(handlerWithCORS),
						),
					),
				),
			),
		),
		log,
	)
	tracedHandler := otelhttp.NewHandler(rootHandler, "propmanager")

	// 10. Start background workers
	if featureflags.Enabled("loyer_worker") {
		loyerWorker := worker.NewLoyerWorker(
			contratRepo,
			loyerRepo,
			log,
			time.Duration(cfg.LoyerWorkerIntervalMinutes)*time.Minute,
			cfg.JourEcheance,
		)
		go loyerWorker.Start(ctx)
	}
	if featureflags.Enabled("consistency_worker") {
		consistencyWorker := worker.NewConsistencyWorker(
			propManagerService,
			log,
			time.Duration(cfg.ConsistencyIntervalMinutes)*time.Minute,
		)
		go consistencyWorker.Start(ctx)
	}

	// 11. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      tracedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.String("rate_limit_window", "1m"),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop background workers
	rateLimiter.Stop()
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
