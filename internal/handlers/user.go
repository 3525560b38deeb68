package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/samarpan-samaj/community-backend/internal/middleware"
	"github.com/samarpan-samaj/community-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register user")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, user, http.StatusCreated)
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, map[string]any{"user": user, "token": token}, http.StatusOK)
}

// Me handles GET /api/v1/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, user, http.StatusOK)
}

// MembershipCallbackRequest carries the gateway callback for a
// membership purchase
type MembershipCallbackRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// PurchaseMembership handles POST /api/v1/membership/callback
func (h *UserHandler) PurchaseMembership(w http.ResponseWriter, r *http.Request) {
	var req MembershipCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID := middleware.GetUserID(r.Context())
	user, err := h.userService.PurchaseMembership(r.Context(), userID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("order_id", req.OrderID).Msg("Membership payment rejected")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, user, http.StatusOK)
}
