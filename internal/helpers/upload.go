package helpers

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores resource images in Cloudinary.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder string, tags []string) (string, string, error) {
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
		Tags:   tags,
	})
	if err != nil {
		return "", "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, res.PublicID, nil
}

func (u *CloudinaryUploader) Destroy(ctx context.Context, publicID string) error {
	res, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	return nil
}
