package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/parlor/internal/store"
)

type WelcomeHandler struct {
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewWelcomeHandler(settings *store.SettingsStore, logger *slog.Logger) *WelcomeHandler {
	return &WelcomeHandler{settings: settings, logger: logger}
}

func (h *WelcomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	msg, err := h.settings.WelcomeMessage(r.Context())
	if err != nil {
		h.logger.Error("load welcome message", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load welcome message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
