package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProfileStore is the persistence surface the lifecycle service needs.
// *repository.ProfileRepository implements it.
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	ListDiscoverable(ctx context.Context, limit, offset int) ([]*models.Profile, int, error)
	ListPendingReview(ctx context.Context) ([]*models.Profile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Profile, error)
	ListExpired(ctx context.Context, now time.Time) ([]*models.Profile, error)
	UpdateFields(ctx context.Context, p *models.Profile) error
	MarkPaid(ctx context.Context, id string, rec models.PaymentRecord) (bool, error)
	SetApproved(ctx context.Context, id string) error
	SetHidden(ctx context.Context, id string, hidden bool) error
	SetCompleted(ctx context.Context, id string, completedAt, deletionAt time.Time) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	OwnerHasPaid(ctx context.Context, ownerID string) (bool, error)
	AddPhoto(ctx context.Context, photo *models.ProfilePhoto) error
}

// ProfileService governs the matrimony profile lifecycle: creation,
// payment, approval, visibility, completion and deletion.
type ProfileService struct {
	store     ProfileStore
	media     MediaStore
	verifier  *PaymentVerifier
	access    AccessPolicy
	graceDays int
	now       func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(store ProfileStore, media MediaStore, verifier *PaymentVerifier, graceDays int) *ProfileService {
	return &ProfileService{
		store:     store,
		media:     media,
		verifier:  verifier,
		graceDays: graceDays,
		now:       time.Now,
	}
}

// ProfileInput carries the personal fields for profile creation
type ProfileInput struct {
	FullName    string    `json:"full_name"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Contact     string    `json:"contact"`
	Education   string    `json:"education"`
	Occupation  string    `json:"occupation"`
	About       string    `json:"about"`
}

// ProfileUpdate carries the owner-mutable fields, all optional
type ProfileUpdate struct {
	FullName   *string `json:"full_name"`
	Contact    *string `json:"contact"`
	Education  *string `json:"education"`
	Occupation *string `json:"occupation"`
	About      *string `json:"about"`
}

func (in *ProfileInput) validate(now time.Time) error {
	missing := []string{}
	if in.FullName == "" {
		missing = append(missing, "full_name")
	}
	if in.Gender == "" {
		missing = append(missing, "gender")
	}
	if in.DateOfBirth.IsZero() {
		missing = append(missing, "date_of_birth")
	}
	if in.Contact == "" {
		missing = append(missing, "contact")
	}
	if in.Education == "" {
		missing = append(missing, "education")
	}
	if in.Occupation == "" {
		missing = append(missing, "occupation")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", models.ErrValidation, strings.Join(missing, ", "))
	}
	if !isAdult(in.DateOfBirth, now) {
		return fmt.Errorf("%w: must be at least 18 years old", models.ErrValidation)
	}
	return nil
}

// isAdult uses calendar years, not day counts.
func isAdult(dob, now time.Time) bool {
	return !dob.AddDate(18, 0, 0).After(now)
}

// Create creates a profile for its owner. A profile owned by a member
// needs no payment and no manual approval; everyone else starts unpaid
// and unapproved.
func (s *ProfileService) Create(ctx context.Context, owner *models.User, input ProfileInput) (*models.Profile, error) {
	if !owner.IsApproved || owner.IsSuspended {
		return nil, fmt.Errorf("%w: account not in good standing", models.ErrValidation)
	}
	now := s.now()
	if err := input.validate(now); err != nil {
		return nil, err
	}

	p := &models.Profile{
		ID:              uuid.New().String(),
		OwnerID:         owner.ID,
		FullName:        input.FullName,
		Gender:          input.Gender,
		DateOfBirth:     input.DateOfBirth,
		Contact:         input.Contact,
		Education:       input.Education,
		Occupation:      input.Occupation,
		About:           input.About,
		PaymentRequired: !owner.IsMember,
		IsPaid:          owner.IsMember,
		IsApproved:      owner.IsMember,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("profile_id", p.ID).
		Str("owner_id", owner.ID).
		Bool("payment_required", p.PaymentRequired).
		Msg("Profile created")

	return p, nil
}

// RecordPayment applies a verified gateway callback to a profile. A
// valid payment approves the profile in the same update. Replayed
// callbacks fail with ErrAlreadyPaid and change nothing.
func (s *ProfileService) RecordPayment(ctx context.Context, profileID, orderID, paymentID, signature string, amount int64) (*models.Profile, error) {
	if !s.verifier.Verify(orderID, paymentID, signature) {
		return nil, fmt.Errorf("%w: order %s", models.ErrPaymentInvalid, orderID)
	}

	rec := models.PaymentRecord{
		Amount:    amount,
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: signature,
		PaidAt:    s.now(),
	}
	paid, err := s.store.MarkPaid(ctx, profileID, rec)
	if err != nil {
		return nil, err
	}
	if !paid {
		// No row updated: either the profile is gone or the guard fired.
		p, err := s.store.GetByID(ctx, profileID)
		if err != nil {
			return nil, err
		}
		if p.IsPaid {
			return nil, fmt.Errorf("%w: profile %s", models.ErrAlreadyPaid, profileID)
		}
		return nil, fmt.Errorf("%w: profile %s", models.ErrNotFound, profileID)
	}

	log.Info().
		Str("profile_id", profileID).
		Str("order_id", orderID).
		Int64("amount", amount).
		Msg("Profile payment recorded")

	return s.store.GetByID(ctx, profileID)
}

// Approve marks a profile approved (admin action)
func (s *ProfileService) Approve(ctx context.Context, profileID string) error {
	if err := s.store.SetApproved(ctx, profileID); err != nil {
		return err
	}
	log.Info().Str("profile_id", profileID).Msg("Profile approved")
	return nil
}

// Reject removes a pre-approval profile immediately, media included.
// There is no grace period on rejection.
func (s *ProfileService) Reject(ctx context.Context, profileID string) error {
	p, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if p.IsApproved {
		return fmt.Errorf("%w: cannot reject an approved profile", models.ErrValidation)
	}

	s.deleteMediaEach(ctx, p)
	if err := s.store.Delete(ctx, profileID); err != nil {
		return err
	}
	log.Info().Str("profile_id", profileID).Msg("Profile rejected")
	return nil
}

// Hide suppresses an approved profile from the listing at the owner's
// request.
func (s *ProfileService) Hide(ctx context.Context, profileID, ownerID string) (*models.Profile, error) {
	return s.setHidden(ctx, profileID, ownerID, true)
}

// Unhide restores a hidden profile to the listing.
func (s *ProfileService) Unhide(ctx context.Context, profileID, ownerID string) (*models.Profile, error) {
	return s.setHidden(ctx, profileID, ownerID, false)
}

func (s *ProfileService) setHidden(ctx context.Context, profileID, ownerID string, hidden bool) (*models.Profile, error) {
	p, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: profile %s", models.ErrNotOwner, profileID)
	}
	// Visibility toggling only applies between Approved and Hidden.
	want := models.StateApproved
	if !hidden {
		want = models.StateHidden
	}
	if p.State() != want {
		return nil, fmt.Errorf("%w: profile is %s", models.ErrValidation, p.State())
	}

	if err := s.store.SetHidden(ctx, profileID, hidden); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, profileID)
}

// Complete marks a match completed and schedules deletion after the
// grace period, in calendar days. Calling it again re-arms the clock.
func (s *ProfileService) Complete(ctx context.Context, profileID string, graceDays int) (*models.Profile, error) {
	p, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !p.IsApproved {
		return nil, fmt.Errorf("%w: profile is %s", models.ErrValidation, p.State())
	}

	if graceDays <= 0 {
		graceDays = s.graceDays
	}
	now := s.now()
	deletionAt := now.AddDate(0, 0, graceDays)
	if err := s.store.SetCompleted(ctx, profileID, now, deletionAt); err != nil {
		return nil, err
	}

	log.Info().
		Str("profile_id", profileID).
		Time("scheduled_deletion_at", deletionAt).
		Msg("Profile completed")

	return s.store.GetByID(ctx, profileID)
}

// Update merges the owner-mutable personal fields. Ownership, approval,
// payment and completion state are never touched here.
func (s *ProfileService) Update(ctx context.Context, profileID, ownerID string, upd ProfileUpdate) (*models.Profile, error) {
	p, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: profile %s", models.ErrNotOwner, profileID)
	}

	if upd.FullName != nil {
		if *upd.FullName == "" {
			return nil, fmt.Errorf("%w: full_name cannot be empty", models.ErrValidation)
		}
		p.FullName = *upd.FullName
	}
	if upd.Contact != nil {
		p.Contact = *upd.Contact
	}
	if upd.Education != nil {
		p.Education = *upd.Education
	}
	if upd.Occupation != nil {
		p.Occupation = *upd.Occupation
	}
	if upd.About != nil {
		p.About = *upd.About
	}

	if err := s.store.UpdateFields(ctx, p); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, profileID)
}

// Delete removes a profile on behalf of its owner or an admin. Media is
// deleted per item, best-effort; a failed media delete never blocks the
// record removal.
func (s *ProfileService) Delete(ctx context.Context, profileID, actorID string, actorIsAdmin bool) error {
	p, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if !actorIsAdmin && p.OwnerID != actorID {
		return fmt.Errorf("%w: profile %s", models.ErrNotOwner, profileID)
	}

	s.deleteMediaEach(ctx, p)
	if err := s.store.Delete(ctx, profileID); err != nil {
		return err
	}
	log.Info().Str("profile_id", profileID).Str("actor_id", actorID).Msg("Profile deleted")
	return nil
}

// Purge removes an expired profile: one best-effort batch delete of its
// media, then the record. Used by the cleanup sweep.
func (s *ProfileService) Purge(ctx context.Context, p *models.Profile) error {
	keys := make([]string, 0, len(p.Photos))
	for _, photo := range p.Photos {
		keys = append(keys, photo.MediaKey)
	}
	if err := s.media.DeleteBatch(ctx, keys); err != nil {
		log.Warn().Err(err).Str("profile_id", p.ID).Msg("Media purge failed, removing record anyway")
	}
	return s.store.Delete(ctx, p.ID)
}

// ExpiredProfiles lists completed profiles whose grace period elapsed.
func (s *ProfileService) ExpiredProfiles(ctx context.Context, now time.Time) ([]*models.Profile, error) {
	return s.store.ListExpired(ctx, now)
}

// Get retrieves a profile and counts the read. A failed counter bump is
// logged, never surfaced.
func (s *ProfileService) Get(ctx context.Context, profileID string) (*models.Profile, error) {
	p, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := s.store.IncrementViews(ctx, profileID); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to record profile view")
	} else {
		p.ViewCount++
	}
	return p, nil
}

// List returns the discoverable listing for a viewer allowed to browse.
// Members browse freely; others need a paid profile of their own.
func (s *ProfileService) List(ctx context.Context, viewer *models.User, limit, offset int) ([]*models.Profile, int, error) {
	hasPaid, err := s.store.OwnerHasPaid(ctx, viewer.ID)
	if err != nil {
		return nil, 0, err
	}
	if !s.access.CanBrowseListing(viewer.IsMember, hasPaid) {
		return nil, 0, fmt.Errorf("%w: listing access requires membership or a paid profile", models.ErrNotOwner)
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListDiscoverable(ctx, limit, offset)
}

// ListOwn returns the viewer's own profiles regardless of state.
func (s *ProfileService) ListOwn(ctx context.Context, ownerID string) ([]*models.Profile, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// ListPendingReview returns unapproved profiles for admin moderation.
func (s *ProfileService) ListPendingReview(ctx context.Context) ([]*models.Profile, error) {
	return s.store.ListPendingReview(ctx)
}

// PhotoUpload is the response for a requested photo upload
type PhotoUpload struct {
	UploadURL string              `json:"upload_url"`
	Photo     models.ProfilePhoto `json:"photo"`
	ExpiresIn int                 `json:"expires_in"`
}

// AddPhoto registers a photo for a profile and returns a pre-signed
// upload URL for the actual bytes.
func (s *ProfileService) AddPhoto(ctx context.Context, profileID, ownerID, contentType string, isProfilePhoto bool) (*PhotoUpload, error) {
	p, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: profile %s", models.ErrNotOwner, profileID)
	}

	photoID := uuid.New().String()
	key := fmt.Sprintf("profiles/%s/%s.jpg", profileID, photoID)

	uploadURL, err := s.media.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	photo := models.ProfilePhoto{
		ID:             photoID,
		ProfileID:      profileID,
		MediaKey:       key,
		URL:            s.media.PublicURL(key),
		IsProfilePhoto: isProfilePhoto,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddPhoto(ctx, &photo); err != nil {
		return nil, err
	}

	return &PhotoUpload{UploadURL: uploadURL, Photo: photo, ExpiresIn: 300}, nil
}

// deleteMediaEach deletes a profile's media one object at a time,
// logging failures and carrying on. Zero photos means zero calls.
func (s *ProfileService) deleteMediaEach(ctx context.Context, p *models.Profile) {
	for _, photo := range p.Photos {
		if err := s.media.Delete(ctx, photo.MediaKey); err != nil {
			log.Warn().Err(err).
				Str("profile_id", p.ID).
				Str("media_key", photo.MediaKey).
				Msg("Failed to delete profile media")
		}
	}
}
