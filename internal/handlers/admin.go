package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/samarpan-samaj/community-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles moderation HTTP requests
type AdminHandler struct {
	profileService *services.ProfileService
	userService    *services.UserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(profileService *services.ProfileService, userService *services.UserService) *AdminHandler {
	return &AdminHandler{
		profileService: profileService,
		userService:    userService,
	}
}

// ListPendingProfiles handles GET /api/v1/admin/profiles/pending
func (h *AdminHandler) ListPendingProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.ListPendingReview(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, map[string]any{"profiles": profiles}, http.StatusOK)
}

// ApproveProfile handles POST /api/v1/admin/profiles/{profile_id}/approve
func (h *AdminHandler) ApproveProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.profileService.Approve(r.Context(), chi.URLParam(r, "profile_id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RejectProfile handles POST /api/v1/admin/profiles/{profile_id}/reject
func (h *AdminHandler) RejectProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")
	if err := h.profileService.Reject(r.Context(), profileID); err != nil {
		respondDomainError(w, err)
		return
	}
	log.Info().Str("profile_id", profileID).Msg("Profile rejected by admin")
	w.WriteHeader(http.StatusNoContent)
}

// CompleteProfileRequest optionally overrides the grace period
type CompleteProfileRequest struct {
	GracePeriodDays int `json:"grace_period_days"`
}

// CompleteProfile handles POST /api/v1/admin/profiles/{profile_id}/complete
func (h *AdminHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	var req CompleteProfileRequest
	if r.Body != nil {
		// Body is optional; a missing body means the configured default.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	profile, err := h.profileService.Complete(r.Context(), chi.URLParam(r, "profile_id"), req.GracePeriodDays)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, profile, http.StatusOK)
}

// ListPendingUsers handles GET /api/v1/admin/users/pending
func (h *AdminHandler) ListPendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListPending(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, map[string]any{"users": users}, http.StatusOK)
}

// ApproveUser handles POST /api/v1/admin/users/{user_id}/approve
func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Approve(r.Context(), chi.URLParam(r, "user_id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SuspendUserRequest toggles suspension
type SuspendUserRequest struct {
	Suspended bool `json:"suspended"`
}

// SuspendUser handles POST /api/v1/admin/users/{user_id}/suspend
func (h *AdminHandler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	var req SuspendUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.userService.Suspend(r.Context(), chi.URLParam(r, "user_id"), req.Suspended); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
