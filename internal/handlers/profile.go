package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/samarpan-samaj/community-backend/internal/middleware"
	"github.com/samarpan-samaj/community-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles matrimony profile HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
	userService    *services.UserService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService, userService *services.UserService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		userService:    userService,
	}
}

// Create handles POST /api/v1/profiles
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := h.userService.GetByID(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var input services.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.Create(ctx, owner, input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, profile, http.StatusCreated)
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, err := h.userService.GetByID(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	profiles, total, err := h.profileService.List(ctx, viewer, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, map[string]any{"profiles": profiles, "total": total}, http.StatusOK)
}

// ListOwn handles GET /api/v1/profiles/mine
func (h *ProfileHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profiles, err := h.profileService.ListOwn(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, map[string]any{"profiles": profiles}, http.StatusOK)
}

// Get handles GET /api/v1/profiles/{profile_id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.Get(r.Context(), chi.URLParam(r, "profile_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, profile, http.StatusOK)
}

// Update handles PATCH /api/v1/profiles/{profile_id}
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.Update(r.Context(), chi.URLParam(r, "profile_id"), middleware.GetUserID(r.Context()), upd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, profile, http.StatusOK)
}

// Hide handles POST /api/v1/profiles/{profile_id}/hide
func (h *ProfileHandler) Hide(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.Hide(r.Context(), chi.URLParam(r, "profile_id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, profile, http.StatusOK)
}

// Unhide handles POST /api/v1/profiles/{profile_id}/unhide
func (h *ProfileHandler) Unhide(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.Unhide(r.Context(), chi.URLParam(r, "profile_id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, profile, http.StatusOK)
}

// Delete handles DELETE /api/v1/profiles/{profile_id}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.profileService.Delete(ctx, chi.URLParam(r, "profile_id"), middleware.GetUserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PaymentCallbackRequest carries the gateway callback for a profile
// payment
type PaymentCallbackRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	Amount    int64  `json:"amount"`
}

// PaymentCallback handles POST /api/v1/profiles/{profile_id}/payment
func (h *ProfileHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req PaymentCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profileID := chi.URLParam(r, "profile_id")
	profile, err := h.profileService.RecordPayment(r.Context(), profileID, req.OrderID, req.PaymentID, req.Signature, req.Amount)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Str("order_id", req.OrderID).Msg("Profile payment rejected")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, profile, http.StatusOK)
}

// AddPhotoRequest carries a photo upload request
type AddPhotoRequest struct {
	ContentType    string `json:"content_type"`
	IsProfilePhoto bool   `json:"is_profile_photo"`
}

// AddPhoto handles POST /api/v1/profiles/{profile_id}/photos
func (h *ProfileHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	var req AddPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	upload, err := h.profileService.AddPhoto(r.Context(), chi.URLParam(r, "profile_id"), middleware.GetUserID(r.Context()), req.ContentType, req.IsProfilePhoto)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, upload, http.StatusOK)
}
