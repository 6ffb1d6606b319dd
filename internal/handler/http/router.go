package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/service"
	"github.com/sophialaurans/stockly-go/pkg/health"
	"github.com/sophialaurans/stockly-go/pkg/middleware"
)

// RouterConfig bundles the services and settings the router needs.
type RouterConfig struct {
	DraftService   *service.DraftService
	OrderService   *service.OrderService
	ProductService *service.ProductService
	ClientService  *service.ClientService
	UserService    *service.UserService
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("stockly"))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	draftHandler := NewDraftHandler(cfg.DraftService, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.OrderService, cfg.Logger)
	productHandler := NewProductHandler(cfg.ProductService, cfg.Logger)
	clientHandler := NewClientHandler(cfg.ClientService, cfg.Logger)
	authHandler := NewAuthHandler(cfg.UserService, cfg.Logger)

	validate := func(token string) (*middleware.Claims, error) {
		claims, err := cfg.UserService.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validate))

			r.Get("/profile", authHandler.Profile)

			r.Route("/draft", func(r chi.Router) {
				r.Get("/", draftHandler.GetDraft)
				r.Delete("/", draftHandler.ClearDraft)
				r.Put("/client", draftHandler.SetClient)
				r.Post("/submit", draftHandler.Submit)

				r.Post("/items", draftHandler.AddItem)
				r.Put("/items/{productId}", draftHandler.UpdateItemQuantity)
				r.Delete("/items/{productId}", draftHandler.RemoveItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.ListOrders)
				r.Get("/{orderId}", orderHandler.GetOrder)
				r.Patch("/{orderId}/status", orderHandler.UpdateStatus)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.ListProducts)
				r.Get("/{productId}", productHandler.GetProduct)
				r.Post("/", productHandler.CreateProduct)
				r.Patch("/{productId}", productHandler.UpdateProduct)

				// Catalog removal is admin only.
				r.With(middleware.RequireRole(domain.RoleAdmin)).
					Delete("/{productId}", productHandler.DeleteProduct)
			})

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", clientHandler.ListClients)
				r.Get("/{clientId}", clientHandler.GetClient)
				r.Post("/", clientHandler.CreateClient)
				r.Patch("/{clientId}", clientHandler.UpdateClient)
			})
		})
	})

	return r
}
