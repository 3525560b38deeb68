package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 30

// UserStore is the persistence surface the user service needs.
// *repository.UserRepository implements it.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	MarkMember(ctx context.Context, id string, since time.Time) (bool, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	SetSuspended(ctx context.Context, id string, suspended bool) error
	ListPending(ctx context.Context) ([]*models.User, error)
}

// UserService handles registration, login and membership
type UserService struct {
	store     UserStore
	verifier  *PaymentVerifier
	jwtSecret string
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(store UserStore, verifier *PaymentVerifier, jwtSecret string) *UserService {
	return &UserService{
		store:     store,
		verifier:  verifier,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// RegisterInput carries the registration fields
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// Register creates a new account awaiting admin approval
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, fmt.Errorf("%w: valid email required", models.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", models.ErrValidation)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name required", models.ErrValidation)
	}

	exists, err := s.store.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	return user, nil
}

// Login checks credentials and issues a JWT
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", models.ErrValidation)
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", models.ErrValidation)
	}
	if user.IsSuspended {
		return nil, "", fmt.Errorf("%w: account suspended", models.ErrValidation)
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetByID retrieves a user
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetByID(ctx, id)
}

// PurchaseMembership applies a verified gateway callback to a user's
// lifetime membership. A replayed callback fails with ErrAlreadyPaid.
func (s *UserService) PurchaseMembership(ctx context.Context, userID, orderID, paymentID, signature string) (*models.User, error) {
	if !s.verifier.Verify(orderID, paymentID, signature) {
		return nil, fmt.Errorf("%w: order %s", models.ErrPaymentInvalid, orderID)
	}

	ok, err := s.store.MarkMember(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		user, err := s.store.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.IsMember {
			return nil, fmt.Errorf("%w: user %s", models.ErrAlreadyPaid, userID)
		}
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
	}

	log.Info().Str("user_id", userID).Str("order_id", orderID).Msg("Membership purchased")
	return s.store.GetByID(ctx, userID)
}

// Approve marks a user account approved (admin action)
func (s *UserService) Approve(ctx context.Context, userID string) error {
	return s.store.SetApproved(ctx, userID, true)
}

// Suspend toggles a user's suspension (admin action)
func (s *UserService) Suspend(ctx context.Context, userID string, suspended bool) error {
	return s.store.SetSuspended(ctx, userID, suspended)
}

// ListPending returns accounts awaiting approval
func (s *UserService) ListPending(ctx context.Context) ([]*models.User, error) {
	return s.store.ListPending(ctx)
}

// GenerateJWT generates a signed token for a user
func (s *UserService) GenerateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
		"exp":      s.now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":      s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a token and returns the user ID and admin flag
func (s *UserService) ValidateJWT(tokenString string) (string, bool, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", false, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false, fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", false, fmt.Errorf("user_id not found in token")
	}
	isAdmin, _ := claims["is_admin"].(bool)

	return userID, isAdmin, nil
}
