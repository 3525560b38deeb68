package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"
)

// fakeProfileStore is an in-memory ProfileStore for service tests.
type fakeProfileStore struct {
	profiles   map[string]*models.Profile
	failDelete map[string]bool
	failViews  bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		profiles:   make(map[string]*models.Profile),
		failDelete: make(map[string]bool),
	}
}

func (f *fakeProfileStore) Create(_ context.Context, p *models.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileStore) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) ListDiscoverable(_ context.Context, limit, offset int) ([]*models.Profile, int, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		if p.Discoverable() {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeProfileStore) ListPendingReview(_ context.Context) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		if !p.IsApproved {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) ListExpired(_ context.Context, now time.Time) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		if p.IsCompleted && p.ScheduledDeletionAt != nil && !p.ScheduledDeletionAt.After(now) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProfileStore) UpdateFields(_ context.Context, p *models.Profile) error {
	cur, ok := f.profiles[p.ID]
	if !ok {
		return fmt.Errorf("profile %s: %w", p.ID, models.ErrNotFound)
	}
	cur.FullName = p.FullName
	cur.Contact = p.Contact
	cur.Education = p.Education
	cur.Occupation = p.Occupation
	cur.About = p.About
	return nil
}

func (f *fakeProfileStore) MarkPaid(_ context.Context, id string, rec models.PaymentRecord) (bool, error) {
	p, ok := f.profiles[id]
	if !ok || p.IsPaid {
		return false, nil
	}
	p.IsPaid = true
	p.IsApproved = true
	p.Payment = &rec
	return true, nil
}

func (f *fakeProfileStore) SetApproved(_ context.Context, id string) error {
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	p.IsApproved = true
	return nil
}

func (f *fakeProfileStore) SetHidden(_ context.Context, id string, hidden bool) error {
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	p.IsHidden = hidden
	return nil
}

func (f *fakeProfileStore) SetCompleted(_ context.Context, id string, completedAt, deletionAt time.Time) error {
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	p.IsCompleted = true
	p.CompletedAt = &completedAt
	p.ScheduledDeletionAt = &deletionAt
	return nil
}

func (f *fakeProfileStore) Delete(_ context.Context, id string) error {
	if f.failDelete[id] {
		return fmt.Errorf("%w: record delete failed", models.ErrExternalUnavailable)
	}
	if _, ok := f.profiles[id]; !ok {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	delete(f.profiles, id)
	return nil
}

func (f *fakeProfileStore) IncrementViews(_ context.Context, id string) error {
	if f.failViews {
		return fmt.Errorf("%w: counter update failed", models.ErrExternalUnavailable)
	}
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	p.ViewCount++
	return nil
}

func (f *fakeProfileStore) OwnerHasPaid(_ context.Context, ownerID string) (bool, error) {
	for _, p := range f.profiles {
		if p.OwnerID == ownerID && p.IsPaid {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfileStore) AddPhoto(_ context.Context, photo *models.ProfilePhoto) error {
	p, ok := f.profiles[photo.ProfileID]
	if !ok {
		return fmt.Errorf("profile %s: %w", photo.ProfileID, models.ErrNotFound)
	}
	p.Photos = append(p.Photos, *photo)
	return nil
}

// fakeMedia records media-host calls and can fail selected keys.
type fakeMedia struct {
	deleted  []string
	batches  [][]string
	failKeys map[string]bool
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{failKeys: make(map[string]bool)}
}

func (m *fakeMedia) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.failKeys[key] {
		return fmt.Errorf("%w: delete %s", models.ErrExternalUnavailable, key)
	}
	return nil
}

func (m *fakeMedia) DeleteBatch(_ context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	m.batches = append(m.batches, keys)
	for _, key := range keys {
		if m.failKeys[key] {
			return fmt.Errorf("%w: batch delete", models.ErrExternalUnavailable)
		}
	}
	return nil
}

func (m *fakeMedia) PresignUpload(_ context.Context, key, _ string) (string, error) {
	return "https://uploads.test/" + key, nil
}

func (m *fakeMedia) PublicURL(key string) string {
	return "https://media.test/" + key
}
