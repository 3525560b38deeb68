package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/samarpan-samaj/community-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GalleryRepository handles database operations for gallery albums and images
type GalleryRepository struct {
	db *pgxpool.Pool
}

// NewGalleryRepository creates a new gallery repository
func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// CreateAlbum inserts a new album
func (r *GalleryRepository) CreateAlbum(ctx context.Context, a *models.GalleryAlbum) error {
	query := `
		INSERT INTO gallery_albums (id, title, description, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, a.ID, a.Title, a.Description, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

// GetAlbum retrieves an album with its images
func (r *GalleryRepository) GetAlbum(ctx context.Context, id string) (*models.GalleryAlbum, error) {
	query := `SELECT id, title, description, created_at FROM gallery_albums WHERE id = $1`
	var a models.GalleryAlbum
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("album %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	images, err := r.imagesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Images = images
	return &a, nil
}

// ListAlbums retrieves all albums, newest first, without images
func (r *GalleryRepository) ListAlbums(ctx context.Context) ([]*models.GalleryAlbum, error) {
	query := `SELECT id, title, description, created_at FROM gallery_albums ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	var albums []*models.GalleryAlbum
	for rows.Next() {
		var a models.GalleryAlbum
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating albums: %w", err)
	}
	return albums, nil
}

// DeleteAlbum removes an album and its image rows
func (r *GalleryRepository) DeleteAlbum(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM gallery_images WHERE album_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete album images: %w", err)
	}
	result, err := r.db.Exec(ctx, `DELETE FROM gallery_albums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("album %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// AddImage attaches an image row to an album
func (r *GalleryRepository) AddImage(ctx context.Context, img *models.GalleryImage) error {
	query := `
		INSERT INTO gallery_images (id, album_id, media_key, url, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		img.ID, img.AlbumID, img.MediaKey, img.URL, img.Caption, img.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add gallery image: %w", err)
	}
	return nil
}

func (r *GalleryRepository) imagesFor(ctx context.Context, albumID string) ([]models.GalleryImage, error) {
	query := `
		SELECT id, album_id, media_key, url, caption, created_at
		FROM gallery_images
		WHERE album_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to get album images: %w", err)
	}
	defer rows.Close()

	var images []models.GalleryImage
	for rows.Next() {
		var img models.GalleryImage
		if err := rows.Scan(&img.ID, &img.AlbumID, &img.MediaKey, &img.URL, &img.Caption, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gallery image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gallery images: %w", err)
	}
	return images, nil
}
