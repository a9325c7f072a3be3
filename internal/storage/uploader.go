package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/orange-studies/portal-service/internal/utils"
)

// Uploader stores uploaded document files and returns a public URL.
type Uploader interface {
	UploadBytes(ctx context.Context, folder, filename string, data []byte) (string, error)
	Delete(ctx context.Context, publicID string) error
}

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	logger utils.Logger
}

// NewCloudinaryUploader builds an Uploader from a CLOUDINARY_URL style DSN.
func NewCloudinaryUploader(cloudinaryURL string, logger utils.Logger) (Uploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &cloudinaryUploader{cld: cld, logger: logger}, nil
}

func (u *cloudinaryUploader) UploadBytes(ctx context.Context, folder, filename string, data []byte) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		PublicID:     filename,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return res.SecureURL, nil
}

// Delete removes a stored asset. Best-effort: callers log failures and move
// on, the database row is the source of truth.
func (u *cloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		u.logger.Warn("asset delete failed", "public_id", publicID, "error", err)
		return err
	}
	return nil
}
