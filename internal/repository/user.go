package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, email, password_hash, name, phone, is_member, member_since,
	is_approved, is_suspended, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone,
		&u.IsMember, &u.MemberSince, &u.IsApproved, &u.IsSuspended,
		&u.IsAdmin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, name, phone, is_member, member_since,
			is_approved, is_suspended, is_admin, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.IsMember,
		u.MemberSince, u.IsApproved, u.IsSuspended, u.IsAdmin,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// MarkMember flips a user to lifetime member in one conditional update.
// Returns false when the user is already a member.
func (r *UserRepository) MarkMember(ctx context.Context, id string, since time.Time) (bool, error) {
	query := `
		UPDATE users
		SET is_member = TRUE, member_since = $1, updated_at = $1
		WHERE id = $2 AND is_member = FALSE
	`
	result, err := r.db.Exec(ctx, query, since, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark user member: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// SetApproved updates a user's account approval
func (r *UserRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	query := `UPDATE users SET is_approved = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, approved, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set user approved: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetSuspended updates a user's suspension flag
func (r *UserRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	query := `UPDATE users SET is_suspended = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, suspended, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set user suspended: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// ListPending retrieves users awaiting account approval
func (r *UserRepository) ListPending(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE NOT is_approved
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
