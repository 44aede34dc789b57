package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/parlor/internal/clock"
	"github.com/dukerupert/parlor/internal/content"
	"github.com/dukerupert/parlor/internal/handler"
	"github.com/dukerupert/parlor/internal/metrics"
	"github.com/dukerupert/parlor/internal/middleware"
	"github.com/dukerupert/parlor/internal/room"
	"github.com/dukerupert/parlor/internal/session"
	"github.com/dukerupert/parlor/internal/store"
	ws "github.com/dukerupert/parlor/internal/websocket"
)

// Options are the settings the server takes from config.
type Options struct {
	SessionTimeout time.Duration
	ReclaimPeriod  time.Duration
	CookieSecure   bool
	Metrics        bool
	// Clock defaults to the system clock.
	Clock clock.Clock
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	manager     *session.Manager
	reclaimer   *session.Reclaimer
	roomH       *handler.RoomHandler
	adminH      *handler.AdminHandler
	welcomeH    *handler.WelcomeHandler
	rateLimiter *middleware.RateLimiter
	opts        Options
	logger      *slog.Logger
}

func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	hub := ws.NewHub(logger.With("component", "websocket"))
	renderer := content.NewRenderer()

	sessionStore := store.NewSessionStore(db)
	adminStore := store.NewAdminStore(db)
	roomStore := store.NewRoomStore(db)
	settingsStore := store.NewSettingsStore(db)

	manager := session.NewManager(sessionStore, adminStore, opts.Clock)
	reclaimer := session.NewReclaimer(sessionStore, opts.Clock, opts.SessionTimeout, opts.ReclaimPeriod, logger.With("component", "reclaimer"))

	guard := room.NewGuard(roomStore, store.NewAttemptStore(db))
	sync := room.NewSynchronizer(store.NewMessageStore(db), store.NewCheckpointStore(db), renderer, opts.Clock)

	return &Server{
		db:          db,
		hub:         hub,
		manager:     manager,
		reclaimer:   reclaimer,
		roomH:       handler.NewRoomHandler(guard, sync, hub, logger.With("component", "room")),
		adminH:      handler.NewAdminHandler(manager, roomStore, settingsStore, renderer, hub, opts.Clock, logger.With("component", "admin")),
		welcomeH:    handler.NewWelcomeHandler(settingsStore, logger.With("component", "welcome")),
		rateLimiter: middleware.NewRateLimiter(),
		opts:        opts,
		logger:      logger,
	}
}

// Reclaimer returns the session reclaimer so main can start and stop it.
func (s *Server) Reclaimer() *session.Reclaimer {
	return s.reclaimer
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// No session for health checks and scrapes.
	outerMux.HandleFunc("GET /health", handler.Health)
	if s.opts.Metrics {
		outerMux.Handle("GET /metrics", metrics.Handler())
	}

	sessionMux := http.NewServeMux()
	s.registerRoutes(sessionMux)

	sessionMiddleware := middleware.Session(s.manager, s.opts.CookieSecure, s.logger.With("component", "session"))
	outerMux.Handle("/", sessionMiddleware(sessionMux))

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
	return middleware.RequestID(logged)
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /welcome", s.welcomeH.Get)
	mux.HandleFunc("POST /enter_room", s.rateLimitedHandler(s.roomH.Enter))

	// Room routes, each authorized against the room's current password
	mux.HandleFunc("GET /room/{name}", s.roomH.Get)
	mux.HandleFunc("GET /room/{name}/updates", s.roomH.Updates)
	mux.HandleFunc("POST /room/{name}/post", s.roomH.Post)
	mux.HandleFunc("GET /room/{name}/ws", s.roomH.WebSocket)

	// Admin
	mux.HandleFunc("POST /admin/login", s.rateLimitedHandler(s.adminH.Login))
	mux.Handle("GET /admin/rooms", adminOnly(s.adminH.ListRooms))
	mux.Handle("POST /admin/rooms", adminOnly(s.adminH.CreateRoom))
	mux.Handle("DELETE /admin/rooms/{name}", adminOnly(s.adminH.DeleteRoom))
	mux.Handle("PUT /admin/rooms/{name}/password", adminOnly(s.adminH.ChangePassword))
	mux.Handle("PUT /admin/welcome", adminOnly(s.adminH.PutWelcome))
	mux.Handle("GET /admin/stats", adminOnly(s.adminH.Stats))
}
