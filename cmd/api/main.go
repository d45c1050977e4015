package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"

	"vylist-shopify-layer/internal/application"
	"vylist-shopify-layer/internal/config"
	"vylist-shopify-layer/internal/domain"
	"vylist-shopify-layer/internal/infrastructure/cache"
	"vylist-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "vylist-shopify-layer/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)

	// Connect to redis for OAuth state nonces
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	// Initialize repositories
	credentialRepo := repository.NewMongoCredentialRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	stateStore := cache.NewRedisStateStore(redisClient, 0)

	// Initialize Shopify clients
	verifier := shopifyinfra.NewRequestVerifier(cfg.APISecret)
	authService := shopifyinfra.NewAuthService(cfg, logger)
	tokenClient := shopifyinfra.NewTokenClient(cfg, logger)
	catalogClient := shopifyinfra.NewCatalogClient(cfg, logger)

	// Initialize application services
	installService := application.NewInstallService(
		verifier,
		authService,
		tokenClient,
		credentialRepo,
		stateStore,
		logger,
	)
	syncService := application.NewSyncService(
		catalogClient,
		productRepo,
		credentialRepo,
		cfg.SyncTimeout,
		cfg.PruneStale,
		logger,
	)
	catalogService := application.NewCatalogService(credentialRepo, productRepo, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// OAuth routes
	r.Get("/auth/shopify", installBeginHandler(installService, logger))
	r.Get("/auth/callback", installCallbackHandler(installService, syncService, cfg.AppURL, logger))

	// Catalog routes, served from local storage only
	r.Post("/api/sync/{shop}", syncTriggerHandler(syncService, logger))
	r.Get("/api/sync/{shop}", syncStatusHandler(syncService))
	r.Get("/api/products/{shop}", productsHandler(catalogService, logger))
	r.Get("/api/products/{shop}/variant/{variantID}", variantHandler(catalogService, logger))
	r.Get("/api/recommendations/{shop}", recommendationsHandler(catalogService, logger))

	logger.Info().Str("port", cfg.Port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// installBeginHandler starts the OAuth flow by redirecting to Shopify
func installBeginHandler(installService *application.InstallService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := r.URL.Query().Get("shop")
		if shop == "" {
			http.Error(w, "shop parameter is required", http.StatusBadRequest)
			return
		}

		authURL, err := installService.Begin(r.Context(), shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to start install flow")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// installCallbackHandler handles the OAuth callback: verify, exchange,
// store, then schedule the catalog sync in the background so the merchant
// redirect does not wait on full-catalog retrieval.
func installCallbackHandler(
	installService *application.InstallService,
	syncService *application.SyncService,
	appURL string,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		shop := q.Get("shop")
		code := q.Get("code")
		state := q.Get("state")

		params := make(map[string]string, len(q))
		for k := range q {
			params[k] = q.Get(k)
		}

		cred, err := installService.Complete(r.Context(), shop, code, state, params)
		if err != nil {
			writeError(w, err, logger)
			return
		}

		pass := syncService.Start(cred.ShopDomain, cred.AccessToken)
		logger.Info().
			Str("shop", cred.ShopDomain).
			Str("pass", pass.Report().ID).
			Msg("Scheduled catalog sync after install")

		http.Redirect(w, r, appURL+"/?installed="+url.QueryEscape(cred.ShopDomain), http.StatusFound)
	}
}

// syncTriggerHandler starts a manual re-sync for an installed shop
func syncTriggerHandler(syncService *application.SyncService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := chi.URLParam(r, "shop")

		pass, err := syncService.StartForShop(r.Context(), shop)
		if err != nil {
			writeError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(pass.Report())
	}
}

// syncStatusHandler reports the latest sync pass for a shop
func syncStatusHandler(syncService *application.SyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := chi.URLParam(r, "shop")

		pass := syncService.Latest(shop)
		if pass == nil {
			http.Error(w, "no sync pass recorded for shop", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(pass.Report())
	}
}

// productsHandler lists the cached catalog for a shop
func productsHandler(catalogService *application.CatalogService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := chi.URLParam(r, "shop")

		products, err := catalogService.ListProducts(r.Context(), shop)
		if err != nil {
			writeError(w, err, logger)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"products": products})
	}
}

// variantHandler looks a variant up in the cached catalog
func variantHandler(catalogService *application.CatalogService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := chi.URLParam(r, "shop")
		variantID := chi.URLParam(r, "variantID")

		product, variant, err := catalogService.FindVariant(r.Context(), shop, variantID)
		if err != nil {
			writeError(w, err, logger)
			return
		}
		if variant == nil {
			http.Error(w, "variant not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"product": product,
			"variant": variant,
		})
	}
}

// recommendationsHandler returns a random sample of cached products
func recommendationsHandler(catalogService *application.CatalogService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := chi.URLParam(r, "shop")

		recs, err := catalogService.Recommendations(r.Context(), shop, application.DefaultRecommendationCount)
		if err != nil {
			writeError(w, err, logger)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"recommendations": recs})
	}
}

// writeError maps the typed error taxonomy onto HTTP responses
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var (
		authErr     *domain.AuthenticityError
		scopeErr    *domain.ScopeError
		exchangeErr *domain.ExchangeError
	)

	switch {
	case errors.Is(err, domain.ErrNotInstalled):
		http.Error(w, "shop is not installed", http.StatusNotFound)
	case errors.As(err, &authErr):
		http.Error(w, authErr.Error(), http.StatusUnauthorized)
	case errors.As(err, &scopeErr):
		http.Error(w, scopeErr.Error(), http.StatusForbidden)
	case errors.As(err, &exchangeErr):
		logger.Error().Err(err).Msg("Token exchange failed")
		http.Error(w, "failed to complete installation", http.StatusBadGateway)
	default:
		logger.Error().Err(err).Msg("Request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
