package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"superchat/internal/config"
	"superchat/internal/domain"
	"superchat/internal/metrics"
	"superchat/internal/realtime"
	"superchat/internal/security"
	"superchat/internal/service"
	"superchat/internal/ws"
)

// Repositories groups the storage backends the router wires into services.
type Repositories struct {
	Users     domain.UserRepository
	Rooms     domain.RoomRepository
	Messages  domain.MessageRepository
	Reactions domain.ReactionRepository
}

// NewRouter constructs the main HTTP router and wires routes, services, and
// middleware.
func NewRouter(
	cfg *config.Config,
	repos Repositories,
	broker *realtime.Broker,
	bridge *realtime.Bridge,
	hub *ws.Hub,
	tokens *security.TokenService,
	hasher *security.PasswordHasher,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Services
	authSvc := service.NewAuthService(repos.Users, tokens, hasher)
	roomSvc := service.NewRoomService(repos.Rooms)
	msgSvc := service.NewMessageService(repos.Rooms, repos.Messages, repos.Reactions, repos.Users, broker)
	profileSvc := service.NewProfileService(repos.Users)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"SuperChat API","version":"1.0.0"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Auth routes (no auth required, rate limited)
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(RateLimit(rate.Limit(5), 10))
				r.Post("/signup", handleSignup(authSvc))
				r.Post("/login", handleLogin(authSvc))
			})

			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(tokens))
				r.Get("/me", handleMe(authSvc))
			})
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokens))

			r.Route("/rooms", func(r chi.Router) {
				r.Post("/", handleCreateRoom(roomSvc))
				r.Get("/", handleListRooms(roomSvc))
				r.Get("/{roomID}", handleGetRoom(roomSvc))
				r.Get("/{roomID}/messages", handleListMessages(msgSvc))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", handleSendMessage(msgSvc))
				r.Post("/{messageID}/reactions", handleToggleReaction(msgSvc))
			})

			r.Patch("/profile/nickname", handleUpdateNickname(profileSvc))
		})
	})

	// Realtime subscription endpoint
	r.Get("/ws", ws.MakeHandler(hub, tokens, repos.Rooms, bridge, cfg.CORSOrigins))

	return r
}
