package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Dias221467/Language_Exchange/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Friends       *FriendHandler
	Notifications *NotificationHandler

	JWTSecret string
	Lookup    middleware.UserLookup

	// Redis backs the auth rate limiter; nil disables it.
	Redis          *redis.Client
	AuthRateLimit  int
	AuthRateWindow time.Duration
	// TrustProxy keys the limiter on X-Forwarded-For; only set it behind a proxy.
	TrustProxy  bool
	HealthCheck func(ctx context.Context) error
}

// NewRouter builds the /api routes plus /healthz and /metrics.
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/healthz", healthHandler(cfg.HealthCheck)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	protect := middleware.AuthMiddleware(cfg.JWTSecret, cfg.Lookup)

	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.Handle("/signup", rateLimited(cfg, "signup", cfg.Auth.SignupHandler)).Methods(http.MethodPost)
	authRoutes.Handle("/login", rateLimited(cfg, "login", cfg.Auth.LoginHandler)).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", cfg.Auth.LogoutHandler).Methods(http.MethodPost)
	authRoutes.Handle("/onboarding", protect(http.HandlerFunc(cfg.Auth.OnboardingHandler))).Methods(http.MethodPost)
	authRoutes.Handle("/me", protect(http.HandlerFunc(cfg.Auth.MeHandler))).Methods(http.MethodGet)

	userRoutes := api.PathPrefix("/users").Subrouter()
	userRoutes.Use(protect)
	userRoutes.HandleFunc("", cfg.Users.GetRecommendedUsersHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/friends", cfg.Users.GetFriendsHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/friend-request/{id}", cfg.Friends.SendFriendRequestHandler).Methods(http.MethodPost)
	userRoutes.HandleFunc("/friend-request/{id}/accept", cfg.Friends.AcceptFriendRequestHandler).Methods(http.MethodPut)
	userRoutes.HandleFunc("/friend-requests", cfg.Friends.GetFriendRequestsHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/outgoing-friend-requests", cfg.Friends.GetOutgoingRequestsHandler).Methods(http.MethodGet)

	chatRoutes := api.PathPrefix("/chat").Subrouter()
	chatRoutes.Use(protect)
	chatRoutes.HandleFunc("/token", cfg.Auth.ChatTokenHandler).Methods(http.MethodGet)

	notificationRoutes := api.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(protect)
	notificationRoutes.HandleFunc("", cfg.Notifications.GetUserNotificationsHandler).Methods(http.MethodGet)
	notificationRoutes.HandleFunc("/{id}/read", cfg.Notifications.MarkAsReadHandler).Methods(http.MethodPatch)

	return router
}

func rateLimited(cfg RouterConfig, resource string, h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(cfg.Redis, resource, cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.TrustProxy)(h)
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				writeError(w, r, err, "check health")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
