// Package storage wraps the external blob store used for entity
// images.  The rest of the application only sees the Uploader
// interface; Cloudinary is the concrete backend.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores an image blob and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, folder, name string, r io.Reader) (string, error)
}

// CloudinaryStore uploads images to a Cloudinary account.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryStore builds a CloudinaryStore from credentials.  All
// three parameters are required.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{client: cld}, nil
}

// UploadImage uploads the blob under folder/name and returns the
// secure URL of the stored asset.
func (s *CloudinaryStore) UploadImage(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	res, err := s.client.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   folder,
		PublicID: name,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return res.SecureURL, nil
}
