package service

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type GalleryRepository interface {
	FindByID(ctx context.Context, id string) (*entity.GalleryImage, error)
	Find(ctx context.Context, isActive *bool) ([]*entity.GalleryImage, error)
	Create(ctx context.Context, img *entity.GalleryImage, audit *entity.AuditLog) error
	Save(ctx context.Context, img *entity.GalleryImage) error
	Delete(ctx context.Context, img *entity.GalleryImage, audit *entity.AuditLog) error
}

type UploadImageRequest struct {
	Title       string  `form:"title" json:"title" validate:"required,notblank,max=200"`
	Description *string `form:"description" json:"description" validate:"omitempty,max=1000"`
}

type UpdateImageRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"isActive"`
}

type DefaultGalleryService struct {
	GalleryRepo GalleryRepository
	Store       ImageStore
	Validate    *validator.Validate
}

func NewGalleryService(galleryRepo GalleryRepository, store ImageStore, validate *validator.Validate) *DefaultGalleryService {
	return &DefaultGalleryService{GalleryRepo: galleryRepo, Store: store, Validate: validate}
}

func (g *DefaultGalleryService) GetImages(ctx context.Context, isActive *bool) ([]*GalleryImageResponse, apierror.ErrorResponse) {
	imgs, err := g.GalleryRepo.Find(ctx, isActive)
	if err != nil {
		log.Errorf("failed to fetch gallery images: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*GalleryImageResponse, len(imgs))
	for i, img := range imgs {
		resp[i] = toGalleryImageResponse(img)
	}
	return resp, nil
}

// UploadImage stores a jpeg, png or gif of at most MaxImageSize bytes. The
// type is sniffed from the content, not taken from the client.
func (g *DefaultGalleryService) UploadImage(ctx context.Context, actorID string, req *UploadImageRequest, file *multipart.FileHeader) (*GalleryImageResponse, apierror.ErrorResponse) {
	if file == nil {
		return nil, apierror.ImageRequiredError
	}
	utils.Sanitize(req)
	if err := g.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	if file.Size > MaxImageSize {
		return nil, apierror.ImageTooLargeError
	}

	src, err := file.Open()
	if err != nil {
		log.Errorf("failed to open uploaded file %s: %v", file.Filename, err)
		return nil, apierror.MalformedBodyError
	}
	defer src.Close()

	contentType, apierr := sniffImage(src)
	if apierr != nil {
		return nil, apierr
	}

	key := "gallery/" + uuid.NewString() + imageExtensions[contentType]
	url, err := g.Store.Put(ctx, key, contentType, src, file.Size)
	if err != nil {
		log.Errorf("failed to upload image %s: %v", key, err)
		return nil, apierror.New(http.StatusInternalServerError, "Failed to upload image", err.Error())
	}

	img := &entity.GalleryImage{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    url,
		ImageKey:    key,
		UserID:      actorID,
		IsActive:    true,
	}
	audit := newAudit(actorID, entity.AuditGalleryImageAdded, "GalleryImage", "", map[string]any{"title": req.Title, "key": key})
	if err = g.GalleryRepo.Create(ctx, img, audit); err != nil {
		log.Errorf("failed to store gallery image %s: %v", key, err)
		g.removeObject(ctx, key)
		return nil, apierror.InternalServerError
	}
	return toGalleryImageResponse(img), nil
}

func (g *DefaultGalleryService) UpdateImage(ctx context.Context, id string, req *UpdateImageRequest) (*GalleryImageResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := g.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	img, apierr := g.fetchImage(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	setIfPresent(&img.Title, req.Title)
	setIfPresent(&img.IsActive, req.IsActive)
	if req.Description != nil {
		img.Description = req.Description
	}

	if err := g.GalleryRepo.Save(ctx, img); err != nil {
		log.Errorf("failed to update gallery image %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toGalleryImageResponse(img), nil
}

// DeleteImage removes the row, then the stored object on a best effort basis.
func (g *DefaultGalleryService) DeleteImage(ctx context.Context, actorID, id string) apierror.ErrorResponse {
	img, apierr := g.fetchImage(ctx, id)
	if apierr != nil {
		return apierr
	}

	audit := newAudit(actorID, entity.AuditGalleryImageDeleted, "GalleryImage", img.ID, map[string]any{"title": img.Title, "key": img.ImageKey})
	if err := g.GalleryRepo.Delete(ctx, img, audit); err != nil {
		log.Errorf("failed to delete gallery image %s: %v", id, err)
		return apierror.InternalServerError
	}

	g.removeObject(ctx, img.ImageKey)
	return nil
}

func (g *DefaultGalleryService) fetchImage(ctx context.Context, id string) (*entity.GalleryImage, apierror.ErrorResponse) {
	img, err := g.GalleryRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch gallery image %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if img == nil {
		return nil, apierror.GalleryNotFoundError
	}
	return img, nil
}

func (g *DefaultGalleryService) removeObject(ctx context.Context, key string) {
	if err := g.Store.Delete(ctx, key); err != nil {
		log.Warnf("failed to remove stored image %s: %v", key, err)
	}
}

// sniffImage detects the content type from the first bytes and rewinds src.
func sniffImage(src multipart.File) (string, apierror.ErrorResponse) {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		log.Errorf("failed to read uploaded file: %v", err)
		return "", apierror.MalformedBodyError
	}
	if n == 0 {
		return "", apierror.ImageRequiredError
	}

	contentType := http.DetectContentType(head[:n])
	if _, ok := imageExtensions[contentType]; !ok {
		return "", apierror.ImageTypeError
	}

	if _, err = src.Seek(0, io.SeekStart); err != nil {
		log.Errorf("failed to rewind uploaded file: %v", err)
		return "", apierror.InternalServerError
	}
	return contentType, nil
}
