package services

import (
	"context"
	"fmt"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GalleryStore is the persistence surface the gallery service needs.
// *repository.GalleryRepository implements it.
type GalleryStore interface {
	CreateAlbum(ctx context.Context, a *models.GalleryAlbum) error
	GetAlbum(ctx context.Context, id string) (*models.GalleryAlbum, error)
	ListAlbums(ctx context.Context) ([]*models.GalleryAlbum, error)
	DeleteAlbum(ctx context.Context, id string) error
	AddImage(ctx context.Context, img *models.GalleryImage) error
}

// GalleryService handles the community photo gallery CMS
type GalleryService struct {
	store GalleryStore
	media MediaStore
	now   func() time.Time
}

// NewGalleryService creates a new gallery service
func NewGalleryService(store GalleryStore, media MediaStore) *GalleryService {
	return &GalleryService{store: store, media: media, now: time.Now}
}

// CreateAlbum creates a new album
func (s *GalleryService) CreateAlbum(ctx context.Context, title, description string) (*models.GalleryAlbum, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title required", models.ErrValidation)
	}
	a := &models.GalleryAlbum{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateAlbum(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetAlbum retrieves an album with its images
func (s *GalleryService) GetAlbum(ctx context.Context, id string) (*models.GalleryAlbum, error) {
	return s.store.GetAlbum(ctx, id)
}

// ListAlbums retrieves all albums
func (s *GalleryService) ListAlbums(ctx context.Context) ([]*models.GalleryAlbum, error) {
	return s.store.ListAlbums(ctx)
}

// DeleteAlbum removes an album. Its media is batch-deleted best-effort;
// a media-host outage never blocks the album removal.
func (s *GalleryService) DeleteAlbum(ctx context.Context, id string) error {
	a, err := s.store.GetAlbum(ctx, id)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(a.Images))
	for _, img := range a.Images {
		keys = append(keys, img.MediaKey)
	}
	if err := s.media.DeleteBatch(ctx, keys); err != nil {
		log.Warn().Err(err).Str("album_id", id).Msg("Album media delete failed, removing rows anyway")
	}

	return s.store.DeleteAlbum(ctx, id)
}

// ImageUpload is the response for a requested gallery image upload
type ImageUpload struct {
	UploadURL string              `json:"upload_url"`
	Image     models.GalleryImage `json:"image"`
	ExpiresIn int                 `json:"expires_in"`
}

// AddImage registers an image in an album and returns a pre-signed
// upload URL for the bytes.
func (s *GalleryService) AddImage(ctx context.Context, albumID, caption, contentType string) (*ImageUpload, error) {
	if _, err := s.store.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}

	imageID := uuid.New().String()
	key := fmt.Sprintf("gallery/%s/%s.jpg", albumID, imageID)

	uploadURL, err := s.media.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	img := models.GalleryImage{
		ID:        imageID,
		AlbumID:   albumID,
		MediaKey:  key,
		URL:       s.media.PublicURL(key),
		Caption:   caption,
		CreatedAt: s.now(),
	}
	if err := s.store.AddImage(ctx, &img); err != nil {
		return nil, err
	}

	return &ImageUpload{UploadURL: uploadURL, Image: img, ExpiresIn: 300}, nil
}
