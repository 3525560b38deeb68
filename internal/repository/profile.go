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

// ProfileRepository handles database operations for matrimony profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	id, owner_id, full_name, gender, date_of_birth, contact, education,
	occupation, about, payment_required, is_paid, pay_amount, pay_order_id,
	pay_payment_id, pay_signature, paid_at, is_approved, is_hidden,
	is_completed, completed_at, scheduled_deletion_at, view_count,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	var amount *int64
	var orderID, paymentID, signature *string
	var paidAt *time.Time
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.FullName, &p.Gender, &p.DateOfBirth,
		&p.Contact, &p.Education, &p.Occupation, &p.About,
		&p.PaymentRequired, &p.IsPaid,
		&amount, &orderID, &paymentID, &signature, &paidAt,
		&p.IsApproved, &p.IsHidden, &p.IsCompleted,
		&p.CompletedAt, &p.ScheduledDeletionAt, &p.ViewCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if orderID != nil && paymentID != nil {
		p.Payment = &models.PaymentRecord{
			OrderID:   *orderID,
			PaymentID: *paymentID,
		}
		if amount != nil {
			p.Payment.Amount = *amount
		}
		if signature != nil {
			p.Payment.Signature = *signature
		}
		if paidAt != nil {
			p.Payment.PaidAt = *paidAt
		}
	}
	return &p, nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (
			id, owner_id, full_name, gender, date_of_birth, contact,
			education, occupation, about, payment_required, is_paid,
			is_approved, is_hidden, is_completed, view_count,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.FullName, p.Gender, p.DateOfBirth, p.Contact,
		p.Education, p.Occupation, p.About, p.PaymentRequired, p.IsPaid,
		p.IsApproved, p.IsHidden, p.IsCompleted, p.ViewCount,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by ID, including its photos
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	photos, err := r.photosFor(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Photos = photos
	return p, nil
}

// ListDiscoverable retrieves approved, not completed, not hidden profiles
// with pagination
func (r *ProfileRepository) ListDiscoverable(ctx context.Context, limit, offset int) ([]*models.Profile, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM profiles
		WHERE is_approved AND NOT is_completed AND NOT is_hidden
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE is_approved AND NOT is_completed AND NOT is_hidden
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	profiles, err := r.queryProfiles(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// ListPendingReview retrieves profiles awaiting admin approval
func (r *ProfileRepository) ListPendingReview(ctx context.Context) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE NOT is_approved
		ORDER BY created_at ASC
	`
	return r.queryProfiles(ctx, query)
}

// ListByOwner retrieves all profiles owned by a user
func (r *ProfileRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	return r.queryProfiles(ctx, query, ownerID)
}

// ListExpired retrieves completed profiles whose deletion time has passed,
// photos included so the caller can purge media
func (r *ProfileRepository) ListExpired(ctx context.Context, now time.Time) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE is_completed AND scheduled_deletion_at <= $1
		ORDER BY scheduled_deletion_at ASC
	`
	profiles, err := r.queryProfiles(ctx, query, now)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		photos, err := r.photosFor(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Photos = photos
	}
	return profiles, nil
}

func (r *ProfileRepository) queryProfiles(ctx context.Context, query string, args ...any) ([]*models.Profile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

// UpdateFields updates the owner-mutable personal fields of a profile
func (r *ProfileRepository) UpdateFields(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $1, gender = $2, date_of_birth = $3, contact = $4,
		    education = $5, occupation = $6, about = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.db.Exec(ctx, query,
		p.FullName, p.Gender, p.DateOfBirth, p.Contact,
		p.Education, p.Occupation, p.About, time.Now(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", p.ID, models.ErrNotFound)
	}
	return nil
}

// MarkPaid records a verified payment and approves the profile in one
// conditional update. Returns false when the profile was already paid,
// which is the idempotency guard for replayed gateway callbacks.
func (r *ProfileRepository) MarkPaid(ctx context.Context, id string, rec models.PaymentRecord) (bool, error) {
	query := `
		UPDATE profiles
		SET is_paid = TRUE, is_approved = TRUE,
		    pay_amount = $1, pay_order_id = $2, pay_payment_id = $3,
		    pay_signature = $4, paid_at = $5, updated_at = $5
		WHERE id = $6 AND is_paid = FALSE
	`
	result, err := r.db.Exec(ctx, query,
		rec.Amount, rec.OrderID, rec.PaymentID, rec.Signature, rec.PaidAt, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark profile paid: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// SetApproved marks a profile approved
func (r *ProfileRepository) SetApproved(ctx context.Context, id string) error {
	query := `UPDATE profiles SET is_approved = TRUE, updated_at = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to approve profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetHidden toggles owner-controlled visibility
func (r *ProfileRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	query := `UPDATE profiles SET is_hidden = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, hidden, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set profile hidden: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetCompleted marks a profile completed and arms its deletion clock.
// Calling it again re-arms the clock.
func (r *ProfileRepository) SetCompleted(ctx context.Context, id string, completedAt, deletionAt time.Time) error {
	query := `
		UPDATE profiles
		SET is_completed = TRUE, completed_at = $1, scheduled_deletion_at = $2,
		    updated_at = $1
		WHERE id = $3
	`
	result, err := r.db.Exec(ctx, query, completedAt, deletionAt, id)
	if err != nil {
		return fmt.Errorf("failed to complete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Delete removes a profile and its photo rows
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM profile_photos WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete profile photos: %w", err)
	}
	result, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// IncrementViews bumps the view counter
func (r *ProfileRepository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE profiles SET view_count = view_count + 1 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// OwnerHasPaid checks whether a user owns at least one paid profile
func (r *ProfileRepository) OwnerHasPaid(ctx context.Context, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE owner_id = $1 AND is_paid)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check paid profiles: %w", err)
	}
	return exists, nil
}

// AddPhoto attaches a photo row to a profile
func (r *ProfileRepository) AddPhoto(ctx context.Context, photo *models.ProfilePhoto) error {
	query := `
		INSERT INTO profile_photos (id, profile_id, media_key, url, is_profile_photo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		photo.ID, photo.ProfileID, photo.MediaKey, photo.URL,
		photo.IsProfilePhoto, photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add profile photo: %w", err)
	}
	return nil
}

func (r *ProfileRepository) photosFor(ctx context.Context, profileID string) ([]models.ProfilePhoto, error) {
	query := `
		SELECT id, profile_id, media_key, url, is_profile_photo, created_at
		FROM profile_photos
		WHERE profile_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile photos: %w", err)
	}
	defer rows.Close()

	var photos []models.ProfilePhoto
	for rows.Next() {
		var ph models.ProfilePhoto
		if err := rows.Scan(&ph.ID, &ph.ProfileID, &ph.MediaKey, &ph.URL, &ph.IsProfilePhoto, &ph.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile photo: %w", err)
		}
		photos = append(photos, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile photos: %w", err)
	}
	return photos, nil
}
