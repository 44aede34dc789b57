package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/parlor/internal/auth"
	"github.com/dukerupert/parlor/internal/middleware"
	"github.com/dukerupert/parlor/internal/model"
	"github.com/dukerupert/parlor/internal/room"
	"github.com/dukerupert/parlor/internal/websocket"
)

const (
	msgBadCredentials = "credentials are not valid"
	msgDesynchronized = "Your view of this room was out of date when you posted. Refresh to see the current conversation."
)

type RoomHandler struct {
	guard  *room.Guard
	sync   *room.Synchronizer
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewRoomHandler(guard *room.Guard, sync *room.Synchronizer, hub *websocket.Hub, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{guard: guard, sync: sync, hub: hub, logger: logger}
}

func (h *RoomHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.BroadcastRoom(msg)
	}
}

type enterRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Enter records a password attempt for a room and reports whether it opens
// the room. Unknown rooms and wrong passwords get the same answer.
func (h *RoomHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req enterRoomRequest
	if err := decodeBody(r, &req, map[string]*string{"name": &req.Name, "password": &req.Password}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, err := room.ParseRoomName(req.Name)
	if err != nil {
		writeValidation(w, err)
		return
	}

	ctx := r.Context()
	sessionID := auth.SessionID(ctx)
	if err := h.guard.SubmitAttempt(ctx, sessionID, name, req.Password); err != nil {
		h.logger.Error("save room attempt", "room", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not enter the room")
		return
	}

	rm, ok := h.authorizeNamed(w, r, name)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

// Get returns the room's public metadata.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	rm, ok := h.authorize(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

func (h *RoomHandler) Updates(w http.ResponseWriter, r *http.Request) {
	rm, ok := h.authorize(w, r)
	if !ok {
		return
	}

	updates, err := h.sync.Poll(r.Context(), auth.SessionID(r.Context()), rm)
	if err != nil {
		h.logger.Error("get updates", "room", rm.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load updates")
		return
	}
	writeJSON(w, http.StatusOK, updates)
}

type postRequest struct {
	Content string `json:"content"`
	ReplyTo *int64 `json:"replyTo"`
}

type postResponse struct {
	ID             int64  `json:"id"`
	Desynchronized bool   `json:"desynchronized"`
	Warning        string `json:"warning,omitempty"`
}

func (h *RoomHandler) Post(w http.ResponseWriter, r *http.Request) {
	rm, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeBody(r, &req, map[string]*string{"content": &req.Content}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.sync.PostMessage(r.Context(), auth.SessionID(r.Context()), rm, req.Content, req.ReplyTo)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		h.logger.Error("post message", "room", rm.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not post the message")
		return
	}

	h.broadcast(websocket.NewMessage(rm.Name, "message", "created", res.Message.ID))

	resp := postResponse{ID: res.Message.ID, Desynchronized: res.Desynchronized}
	if res.Desynchronized {
		resp.Warning = msgDesynchronized
	}
	writeJSON(w, http.StatusCreated, resp)
}

// WebSocket subscribes an authorized session to the room's notifications.
func (h *RoomHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	rm, ok := h.authorize(w, r)
	if !ok {
		return
	}
	if h.hub == nil {
		writeError(w, http.StatusNotFound, "notifications are disabled")
		return
	}
	websocket.Serve(h.hub, rm.Name, h.logger, w, r)
}

// authorize resolves the {name} path value and checks the session may use
// that room. It writes the error response itself.
func (h *RoomHandler) authorize(w http.ResponseWriter, r *http.Request) (*model.Room, bool) {
	name, err := room.ParseRoomName(r.PathValue("name"))
	if err != nil {
		writeValidation(w, err)
		return nil, false
	}
	return h.authorizeNamed(w, r, name)
}

func (h *RoomHandler) authorizeNamed(w http.ResponseWriter, r *http.Request, name string) (*model.Room, bool) {
	middleware.AddLogAttrs(r.Context(), slog.String("room", name))
	rm, err := h.guard.Authorize(r.Context(), auth.SessionID(r.Context()), name)
	switch {
	case err == nil:
		return rm, true
	case errors.Is(err, room.ErrRoomNotFound), errors.Is(err, room.ErrUnauthorized):
		h.logger.Info("room access denied", "room", name, "reason", err)
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
	default:
		h.logger.Error("authorize room", "room", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not check room access")
	}
	return nil, false
}
