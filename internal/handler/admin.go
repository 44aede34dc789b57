package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/parlor/internal/auth"
	"github.com/dukerupert/parlor/internal/clock"
	"github.com/dukerupert/parlor/internal/content"
	"github.com/dukerupert/parlor/internal/model"
	"github.com/dukerupert/parlor/internal/room"
	"github.com/dukerupert/parlor/internal/session"
	"github.com/dukerupert/parlor/internal/store"
	"github.com/dukerupert/parlor/internal/websocket"
)

type AdminHandler struct {
	manager  *session.Manager
	rooms    *store.RoomStore
	settings *store.SettingsStore
	renderer *content.Renderer
	hub      *websocket.Hub
	clock    clock.Clock
	logger   *slog.Logger
}

func NewAdminHandler(
	manager *session.Manager,
	rooms *store.RoomStore,
	settings *store.SettingsStore,
	renderer *content.Renderer,
	hub *websocket.Hub,
	clk clock.Clock,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		manager:  manager,
		rooms:    rooms,
		settings: settings,
		renderer: renderer,
		hub:      hub,
		clock:    clk,
		logger:   logger,
	}
}

// disconnect drops the room's websocket subscribers. Whoever still has
// access reconnects through the room check.
func (h *AdminHandler) disconnect(name string) {
	if h.hub == nil {
		return
	}
	if n := h.hub.CloseRoom(name); n > 0 {
		h.logger.Info("closed room subscriptions", "room", name, "clients", n)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login elevates the caller's session once the admin credentials check out.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if auth.IsAdmin(ctx) {
		writeError(w, http.StatusConflict, "already logged in")
		return
	}

	var req loginRequest
	if err := decodeBody(r, &req, map[string]*string{"username": &req.Username, "password": &req.Password}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := h.manager.VerifyAdmin(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.Error("verify admin", "error", err)
		writeError(w, http.StatusInternalServerError, "could not log you in")
		return
	}
	if !ok {
		h.logger.Warn("admin login failed", "username", req.Username)
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	sess := &model.Session{ID: auth.SessionID(ctx)}
	elevated, err := h.manager.ElevateToAdmin(ctx, sess)
	if err != nil || !elevated {
		h.logger.Error("elevate session", "error", err)
		writeError(w, http.StatusInternalServerError, "could not log you in")
		return
	}

	h.logger.Info("admin logged in", "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged in"})
}

type roomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AdminHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		h.logger.Error("list rooms", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *AdminHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := decodeBody(r, &req, map[string]*string{"name": &req.Name, "password": &req.Password}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, err := room.ParseRoomName(req.Name)
	if err != nil {
		writeValidation(w, err)
		return
	}
	if err := room.ValidatePassword(req.Password); err != nil {
		writeValidation(w, err)
		return
	}

	rm, err := h.rooms.Create(r.Context(), name, room.HashPassword(req.Password), clock.Millis(h.clock))
	if errors.Is(err, store.ErrDuplicateRoom) {
		writeError(w, http.StatusConflict, "a room with that name already exists")
		return
	}
	if err != nil {
		h.logger.Error("create room", "room", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	h.logger.Info("room created", "room", name)
	writeJSON(w, http.StatusCreated, rm)
}

func (h *AdminHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	name, err := room.ParseRoomName(r.PathValue("name"))
	if err != nil {
		writeValidation(w, err)
		return
	}

	deleted, err := h.rooms.Delete(r.Context(), name)
	if err != nil {
		h.logger.Error("delete room", "room", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete room")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	h.disconnect(name)
	h.logger.Info("room deleted", "room", name)
	w.WriteHeader(http.StatusNoContent)
}

type passwordRequest struct {
	Password string `json:"password"`
}

// ChangePassword replaces a room's password. Sessions that entered with the
// old one lose access on their next request, and open websockets on the
// room are closed.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	name, err := room.ParseRoomName(r.PathValue("name"))
	if err != nil {
		writeValidation(w, err)
		return
	}

	var req passwordRequest
	if err := decodeBody(r, &req, map[string]*string{"password": &req.Password}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := room.ValidatePassword(req.Password); err != nil {
		writeValidation(w, err)
		return
	}

	updated, err := h.rooms.UpdatePassword(r.Context(), name, room.HashPassword(req.Password))
	if err != nil {
		h.logger.Error("change room password", "room", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	h.disconnect(name)
	w.WriteHeader(http.StatusNoContent)
}

type welcomeRequest struct {
	Message string `json:"message"`
}

// PutWelcome stores the sanitized welcome message.
func (h *AdminHandler) PutWelcome(w http.ResponseWriter, r *http.Request) {
	var req welcomeRequest
	if err := decodeBody(r, &req, map[string]*string{"message": &req.Message}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := room.ValidateWelcomeMessage(req.Message); err != nil {
		writeValidation(w, err)
		return
	}

	clean := h.renderer.Clean(req.Message)
	if err := h.settings.SetWelcomeMessage(r.Context(), clean); err != nil {
		h.logger.Error("save welcome message", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save welcome message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": clean})
}

type statsResponse struct {
	Sessions         int64 `json:"sessions"`
	Rooms            int64 `json:"rooms"`
	WebSocketClients int   `json:"websocket_clients"`
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessions, err := h.manager.Count(ctx)
	if err != nil {
		h.logger.Error("count sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	rooms, err := h.rooms.Count(ctx)
	if err != nil {
		h.logger.Error("count rooms", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	resp := statsResponse{Sessions: sessions, Rooms: rooms}
	if h.hub != nil {
		resp.WebSocketClients = h.hub.ClientCount()
	}
	writeJSON(w, http.StatusOK, resp)
}
