package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type UploadResult struct {
	URL      string
	PublicID string
}

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type CloudinaryUploader struct {
	api uploadAPI
}

func NewCloudinaryUploader(cfg config.StorageConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{api: &cld.Upload}, nil
}

// Upload stores data under folder. The returned URL is empty when the
// provider accepted the request but did not hand back a secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, folder string) (*UploadResult, error) {
	res, err := u.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		PublicID:     uuid.NewString(),
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload to cloudinary: %s", res.Error.Message)
	}
	return &UploadResult{URL: res.SecureURL, PublicID: res.PublicID}, nil
}
