package server

import (
	"fmt"
	"net/http"
	"time"

	"mercado-libre-api/internal/config"
	"mercado-libre-api/internal/metrics"
	custommiddleware "mercado-libre-api/internal/middleware"
	"mercado-libre-api/internal/repository"
	"mercado-libre-api/internal/service"
	"mercado-libre-api/internal/storage"
	"mercado-libre-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	backend     storage.Backend
	redisClient *redis.Client
}

// NewServer wires the catalog routes onto a chi router. The repository must already
// be loaded. redisClient may be nil, in which case caching and rate limiting are off.
func NewServer(cfg *config.Config, logger *zap.Logger, repo repository.ProductRepository, backend storage.Backend, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack(logger)...)
	router.Use(metrics.Middleware())
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"storage": backend.Name(),
		})
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Initialize services
	productService := service.NewProductService(repo, logger)
	if redisClient != nil {
		productService = service.NewCachedProductService(productService, redisClient, cfg.Cache.TTL, logger)
	}

	productHandler := transport.NewProductHandler(productService, logger)

	router.Group(func(r chi.Router) {
		if redisClient != nil && cfg.RateLimit.Enabled {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "catalog_rate_limit",
			}, logger))
		}
		productHandler.RegisterRoutes(r, cfg.Server.APIPrefix)
	})

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		backend:     backend,
		redisClient: redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("Failed to close storage backend", zap.String("backend", s.backend.Name()), zap.Error(err))
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
