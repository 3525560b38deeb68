package models

import "time"

// User represents a registered community member or applicant.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	IsMember     bool       `json:"is_member"`
	MemberSince  *time.Time `json:"member_since,omitempty"`
	IsApproved   bool       `json:"is_approved"`
	IsSuspended  bool       `json:"is_suspended"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PaymentRecord holds the verified gateway callback for a paid profile
// or membership. Present only after the signature check passed.
type PaymentRecord struct {
	Amount    int64     `json:"amount"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Signature string    `json:"-"`
	PaidAt    time.Time `json:"paid_at"`
}

// ProfilePhoto is one image attached to a matrimony profile, hosted in S3.
type ProfilePhoto struct {
	ID             string    `json:"id"`
	ProfileID      string    `json:"profile_id"`
	MediaKey       string    `json:"media_key"`
	URL            string    `json:"url"`
	IsProfilePhoto bool      `json:"is_profile_photo"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile represents one matrimony listing owned by a single user.
type Profile struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FullName    string    `json:"full_name"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Contact     string    `json:"contact"`
	Education   string    `json:"education"`
	Occupation  string    `json:"occupation"`
	About       string    `json:"about"`

	PaymentRequired bool           `json:"payment_required"`
	IsPaid          bool           `json:"is_paid"`
	Payment         *PaymentRecord `json:"payment,omitempty"`

	IsApproved          bool       `json:"is_approved"`
	IsHidden            bool       `json:"is_hidden"`
	IsCompleted         bool       `json:"is_completed"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	ScheduledDeletionAt *time.Time `json:"scheduled_deletion_at,omitempty"`

	ViewCount int            `json:"view_count"`
	Photos    []ProfilePhoto `json:"photos,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ProfileState is the lifecycle state derived from a profile's flags.
// Rejected and purged profiles have no row, so they have no state value.
type ProfileState string

const (
	StateAwaitingPayment ProfileState = "awaiting_payment"
	StateAwaitingReview  ProfileState = "awaiting_review"
	StateApproved        ProfileState = "approved"
	StateHidden          ProfileState = "hidden"
	StateCompleted       ProfileState = "completed"
)

// State derives the lifecycle state from the stored flags. Completion
// dominates hiding, which dominates approval.
func (p *Profile) State() ProfileState {
	switch {
	case p.IsCompleted:
		return StateCompleted
	case p.IsHidden:
		return StateHidden
	case p.IsApproved:
		return StateApproved
	case p.PaymentRequired && !p.IsPaid:
		return StateAwaitingPayment
	default:
		return StateAwaitingReview
	}
}

// Discoverable reports whether the profile appears in the public listing.
func (p *Profile) Discoverable() bool {
	return p.IsApproved && !p.IsCompleted && !p.IsHidden
}

// Event is a community event published by admins.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GalleryAlbum groups gallery images.
type GalleryAlbum struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Images      []GalleryImage `json:"images,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// GalleryImage is one S3-hosted image in an album.
type GalleryImage struct {
	ID        string    `json:"id"`
	AlbumID   string    `json:"album_id"`
	MediaKey  string    `json:"media_key"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}
