package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/samarpan-samaj/community-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// GalleryHandler handles gallery CMS HTTP requests
type GalleryHandler struct {
	galleryService *services.GalleryService
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryService *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

// ListAlbums handles GET /api/v1/gallery
func (h *GalleryHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.galleryService.ListAlbums(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, map[string]any{"albums": albums}, http.StatusOK)
}

// GetAlbum handles GET /api/v1/gallery/{album_id}
func (h *GalleryHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := h.galleryService.GetAlbum(r.Context(), chi.URLParam(r, "album_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, album, http.StatusOK)
}

// CreateAlbumRequest carries album fields
type CreateAlbumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateAlbum handles POST /api/v1/admin/gallery
func (h *GalleryHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	album, err := h.galleryService.CreateAlbum(r.Context(), req.Title, req.Description)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, album, http.StatusCreated)
}

// DeleteAlbum handles DELETE /api/v1/admin/gallery/{album_id}
func (h *GalleryHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := h.galleryService.DeleteAlbum(r.Context(), chi.URLParam(r, "album_id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddImageRequest carries a gallery image upload request
type AddImageRequest struct {
	Caption     string `json:"caption"`
	ContentType string `json:"content_type"`
}

// AddImage handles POST /api/v1/admin/gallery/{album_id}/images
func (h *GalleryHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var req AddImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	upload, err := h.galleryService.AddImage(r.Context(), chi.URLParam(r, "album_id"), req.Caption, req.ContentType)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, upload, http.StatusOK)
}
