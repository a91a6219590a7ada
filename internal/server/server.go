package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/database"
	"github.com/opennergame/boxgame-server/internal/economy"
	"github.com/opennergame/boxgame-server/internal/handler"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/market"
	"github.com/opennergame/boxgame-server/internal/metrics"
	"github.com/opennergame/boxgame-server/internal/opening"
	"github.com/opennergame/boxgame-server/internal/ranking"
)

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer wires the HTTP routes and middleware around the services.
func NewServer(
	port int,
	apiKey string,
	trustedProxies []string,
	dbPool database.Pool,
	cat *catalog.Catalog,
	openingService opening.Service,
	economyService economy.Service,
	marketService market.Service,
	rankingService ranking.Service,
	statsReader handler.StatsReader,
) *Server {
	r := chi.NewRouter()

	// Middleware stack, outermost first.
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(RateLimitMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(maxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	marketHandler := handler.NewMarketHandler(marketService, economyService, rankingService)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/player", func(r chi.Router) {
			r.Post("/register", handler.HandleRegisterPlayer(economyService, rankingService))
			r.Get("/profile", handler.HandleGetProfile(economyService))
			r.Get("/inventory", handler.HandleGetInventory(economyService))
			r.Get("/collection", handler.HandleGetCollection(economyService, cat))

			r.Route("/item", func(r chi.Router) {
				r.Post("/lock", handler.HandleSetItemLock(economyService))
				r.Post("/sell", handler.HandleSellItem(economyService, rankingService))
				r.Post("/sell-all", handler.HandleSellAll(economyService, rankingService))
			})
		})

		r.Route("/box", func(r chi.Router) {
			r.Get("/", handler.HandleGetBoxes(cat))
			r.Post("/open", handler.HandleOpenBox(openingService, economyService, rankingService))
			r.Get("/probabilities", handler.HandleGetProbabilities(openingService))
		})

		r.Route("/market", func(r chi.Router) {
			r.Get("/listings", marketHandler.HandleGetListings)
			r.Get("/listings/mine", marketHandler.HandleGetPlayerListings)
			r.Post("/listing", marketHandler.HandleCreateListing)
			r.Post("/buy", marketHandler.HandleBuyListing)
			r.Post("/cancel", marketHandler.HandleCancelListing)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/weapons", handler.HandleListWeaponStats(statsReader, cat))
			r.Get("/weapon", handler.HandleGetWeaponStats(statsReader, cat))
		})

		r.Route("/ranking", func(r chi.Router) {
			r.Get("/leaderboard", handler.HandleGetLeaderboard(rankingService))
			r.Get("/rank", handler.HandleGetPlayerRank(rankingService))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics probes are too chatty to log.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
