package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/models"
)

const maxCaptionLength = 300

// ImageUploader stores image bytes somewhere public.
type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, tags []string) (url, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}

type ImageService struct {
	images   models.ImageRepo
	resolver *ResourceResolver
	uploader ImageUploader
	now      func() time.Time
}

func NewImageService(images models.ImageRepo, resolver *ResourceResolver, uploader ImageUploader) *ImageService {
	return &ImageService{
		images:   images,
		resolver: resolver,
		uploader: uploader,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (is *ImageService) ownedResource(ctx context.Context, ref models.ResourceRef, actingUser uuid.UUID) error {
	info, err := is.resolver.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if info.OwnerID != actingUser {
		return models.NewForbiddenError("you can only manage images on your own listings")
	}
	return nil
}

func (is *ImageService) Upload(ctx context.Context, ref models.ResourceRef, actingUser uuid.UUID, file io.Reader, caption string) (*models.Image, error) {
	if is.uploader == nil {
		return nil, models.NewUnavailableError("image uploads are not configured")
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	caption = strings.TrimSpace(caption)
	if len(caption) > maxCaptionLength {
		return nil, models.NewValidationError("caption must be at most %d characters", maxCaptionLength)
	}
	if err := is.ownedResource(ctx, ref, actingUser); err != nil {
		return nil, err
	}

	folder := "foodshare/" + string(ref.Type)
	url, publicID, err := is.uploader.Upload(ctx, file, folder, []string{"foodshare", string(ref.Type)})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	img := &models.Image{
		ID:          uuid.New(),
		ResourceRef: ref,
		ImageURL:    url,
		PublicID:    publicID,
		Caption:     caption,
		UploadedAt:  is.now(),
	}
	if err := is.images.CreateImage(ctx, img); err != nil {
		// best effort: do not leave an orphan in the CDN
		_ = is.uploader.Destroy(ctx, publicID)
		return nil, err
	}
	return img, nil
}

func (is *ImageService) List(ctx context.Context, ref models.ResourceRef) ([]*models.Image, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return is.images.ListImages(ctx, ref)
}

func (is *ImageService) Delete(ctx context.Context, imageID, actingUser uuid.UUID) error {
	img, err := is.images.GetImage(ctx, imageID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return models.NewNotFoundError("image")
	}
	if err != nil {
		return err
	}
	if err := is.ownedResource(ctx, img.ResourceRef, actingUser); err != nil {
		return err
	}
	if is.uploader != nil && img.PublicID != "" {
		if err := is.uploader.Destroy(ctx, img.PublicID); err != nil {
			return fmt.Errorf("destroy image: %w", err)
		}
	}
	return is.images.DeleteImage(ctx, imageID)
}

// PurgeResource removes every image of ref, from the CDN first and then the
// table. It runs when the resource itself is deleted.
func (is *ImageService) PurgeResource(ctx context.Context, ref models.ResourceRef) error {
	images, err := is.images.ListImages(ctx, ref)
	if err != nil {
		return err
	}
	for _, img := range images {
		if is.uploader != nil && img.PublicID != "" {
			if err := is.uploader.Destroy(ctx, img.PublicID); err != nil {
				return fmt.Errorf("destroy image: %w", err)
			}
		}
		if err := is.images.DeleteImage(ctx, img.ID); err != nil && !errors.Is(err, models.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}
