package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/samarpan-samaj/community-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// EventHandler handles event CMS HTTP requests
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	events, err := h.eventService.List(r.Context(), limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, map[string]any{"events": events}, http.StatusOK)
}

// Get handles GET /api/v1/events/{event_id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.Get(r.Context(), chi.URLParam(r, "event_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, event, http.StatusOK)
}

// Create handles POST /api/v1/admin/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := h.eventService.Create(r.Context(), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, event, http.StatusCreated)
}

// Update handles PUT /api/v1/admin/events/{event_id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := h.eventService.Update(r.Context(), chi.URLParam(r, "event_id"), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, event, http.StatusOK)
}

// Delete handles DELETE /api/v1/admin/events/{event_id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), chi.URLParam(r, "event_id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
