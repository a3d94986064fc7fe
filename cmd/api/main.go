package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"showcase-backend/config"
	"showcase-backend/internal/delivery/http/middleware"
	v1 "showcase-backend/internal/delivery/http/v1"
	"showcase-backend/internal/infrastructure/cache"
	"showcase-backend/internal/notify"
	"showcase-backend/internal/query"
	"showcase-backend/internal/repository/pgxrepo"
	"showcase-backend/internal/usecase"
	"showcase-backend/pkg/logger"
	"showcase-backend/pkg/storage"
	"showcase-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const serviceName = "showcase-backend"

var version = "dev"

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	utils.SetSecret(cfg.JWTSecret)

	pgxPool, err := pgxrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Repositories
	productRepo := pgxrepo.NewProductRepository(pgxPool)
	categoryRepo := pgxrepo.NewCategoryRepository(pgxPool)
	detailsRepo := pgxrepo.NewDetailsRepository(pgxPool)
	contentRepo := pgxrepo.NewContentRepository(pgxPool)
	txManager := pgxrepo.NewTransactionManager(pgxPool)

	// Notices go to the log, the admin feed and the current request
	feed := notify.NewFeed(100)
	notifier := notify.Fanout(
		notify.NewLogNotifier(logger.Component("notify")),
		feed,
		notify.Request,
	)

	// Query cache: stale times are per resource, the default is never used
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	memCache := cache.NewMemoryCache(cfg.CacheProductsTTL, cfg.CacheCleanupPeriod)
	queries := query.NewClient(memCache,
		query.WithMetrics(query.NewMetrics(registry)),
		query.WithRefetchTimeout(cfg.CacheRefetchTimeout),
		query.WithFailureHook(func(ctx context.Context, key query.Key, err error) {
			notifier.Notify(ctx, notify.Failure("query."+string(key.Resource), "Failed to load "+string(key.Resource), err))
		}),
	)

	// Use cases
	catalogUC := usecase.NewCatalogUsecase(productRepo, categoryRepo, detailsRepo, txManager, queries, notifier, cfg)
	detailsUC := usecase.NewDetailsUsecase(detailsRepo, queries, notifier, cfg)
	contentUC := usecase.NewContentUsecase(contentRepo, queries, cfg)
	sitemapUC := usecase.NewSitemapUsecase(productRepo, categoryRepo, queries, cfg)

	// Well-known categories; never blocks startup
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BootstrapTimeout)
		defer cancel()
		created := catalogUC.EnsureDefaultCategories(ctx)
		log.Info().Strs("created", created).Msg("Default categories checked")
	}()

	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.BootstrapTimeout)
	releaseWarm := catalogUC.Warm(warmCtx)
	warmCancel()

	// Asset storage is optional
	var uploader v1.Uploader
	if cfg.StorageEnabled() {
		objectStore, err := storage.NewObjectStore(context.Background(), storage.Options{
			Endpoint:      cfg.StorageEndpoint,
			Region:        cfg.StorageRegion,
			AccessKeyID:   cfg.StorageAccessKeyID,
			SecretKey:     cfg.StorageAccessKey,
			Bucket:        cfg.StorageBucket,
			PublicURL:     cfg.StoragePublicURL,
			UploadTimeout: cfg.StorageUploadTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		uploader = objectStore
	} else {
		log.Warn().Msg("STORAGE_BUCKET not set, uploads disabled")
	}

	mux := http.NewServeMux()
	v1.RegisterRoutes(mux, v1.Handlers{
		Catalog:       v1.NewCatalogHandler(catalogUC),
		Details:       v1.NewDetailsHandler(detailsUC),
		AdminCatalog:  v1.NewAdminCatalogHandler(catalogUC),
		Content:       v1.NewContentHandler(contentUC),
		Sitemap:       v1.NewSitemapHandler(sitemapUC),
		Upload:        v1.NewUploadHandler(uploader, cfg.MaxUploadSizeMB),
		Notifications: v1.NewNotificationsHandler(feed),
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	healthHandler := newHealthHandler(pgxPool)
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, version, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()
	releaseWarm()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	queries.Wait()
	pgxPool.Close()

	logger.ServiceStop(serviceName)
}

func newHealthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": "unreachable"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": "connected"})
	}
}
