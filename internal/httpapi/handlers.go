package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"golist/internal/list"
	"golist/internal/theme"
)

// Pinger is satisfied by the storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler handles HTTP requests for the list and the theme preference.
type Handler struct {
	store  *list.Store
	prefs  *theme.Preferences
	health Pinger
	log    *zap.Logger
}

// NewHandler creates a Handler with dependencies.
func NewHandler(store *list.Store, prefs *theme.Preferences, health Pinger, log *zap.Logger) *Handler {
	return &Handler{store: store, prefs: prefs, health: health, log: log}
}

// ThemeRequest is the payload for changing the theme preference.
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

// ThemeResponse reports the stored preference and the theme it resolves to.
type ThemeResponse struct {
	Theme       theme.Theme `json:"theme"`
	ActualTheme theme.Theme `json:"actualTheme"`
}

// handleListItems processes GET /items. ?reload=1 re-reads storage first.
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	var items []list.Item
	if r.URL.Query().Get("reload") == "1" {
		items = h.store.Reload(r.Context())
	} else {
		items = h.store.List()
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCreateItem processes POST /items.
func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req list.CreateInput
	if !validRequest(w, r, &req, nil) {
		return
	}

	item, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/items/%s", item.ID))
	writeJSON(w, http.StatusCreated, item)
}

// handleGetItem processes GET /items/{id}.
func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := h.store.Find(id)
	if !ok {
		writeError(w, h.log, fmt.Errorf("%w: %s", list.ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleUpdateItem processes PUT /items/{id} and returns the collection.
// An unknown id leaves the collection unchanged.
func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req list.UpdateInput
	if !validRequest(w, r, &req, func() { req.ID = chi.URLParam(r, "id") }) {
		return
	}

	items, err := h.store.Update(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleDeleteItem processes DELETE /items/{id} and returns the collection.
func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleClearItems processes DELETE /items.
func (h *Handler) handleClearItems(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAll(r.Context()); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetTheme processes GET /theme. ?prefers=dark reports the client's
// system preference so that "system" can be resolved.
func (h *Handler) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	t := h.prefs.Get(r.Context())
	writeJSON(w, http.StatusOK, ThemeResponse{
		Theme:       t,
		ActualTheme: theme.Resolve(t, r.URL.Query().Get("prefers") == "dark"),
	})
}

// handleSetTheme processes PUT /theme.
func (h *Handler) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if !validRequest(w, r, &req, nil) {
		return
	}
	t := theme.Theme(req.Theme)
	if err := h.prefs.Set(r.Context(), t); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{
		Theme:       t,
		ActualTheme: theme.Resolve(t, r.URL.Query().Get("prefers") == "dark"),
	})
}

// handleHealth processes GET /healthz.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "storage": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "ok"})
}
