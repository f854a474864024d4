package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/yigit/edudirectory/internal/pkg/logger"
)

// CloudinaryConfig holds the account credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinaryStore stores assets in a Cloudinary account
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a store bound to the given account
func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStore{cld: cld}, nil
}

// Upload sends the asset to Cloudinary and returns its public id and secure URL
func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (*UploadResult, error) {
	params := uploader.UploadParams{
		Folder:       opts.Folder,
		ResourceType: string(opts.Kind),
	}
	if opts.Kind == KindImage && opts.Transform != nil {
		params.Transformation = opts.Transform.String()
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, errors.New("cloudinary upload: " + resp.Error.Message)
	}

	logger.Debug().Str("public_id", resp.PublicID).Str("kind", string(opts.Kind)).Msg("Uploaded asset to cloudinary")
	return &UploadResult{
		PublicID:  resp.PublicID,
		SecureURL: resp.SecureURL,
		Width:     resp.Width,
		Height:    resp.Height,
		Format:    resp.Format,
	}, nil
}

// Delete destroys the asset. Cloudinary answers "not found" for unknown ids, which is
// treated as success.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string, kind ResourceKind) error {
	if publicID == "" {
		return nil
	}
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: string(kind),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return errors.New("cloudinary destroy: " + resp.Error.Message)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: unexpected result %q", publicID, resp.Result)
	}
	return nil
}
