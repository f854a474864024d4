package mediastore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/edudirectory/internal/pkg/logger"
)

// LocalStore keeps assets on the local filesystem. It is meant for development; the
// public id is the path relative to basePath.
type LocalStore struct {
	basePath string
	baseURL  string
}

// NewLocalStore creates the base directory if needed
func NewLocalStore(basePath, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStore{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload copies r into <basePath>/<folder>/<uuid><ext>
func (ls *LocalStore) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	folder := filepath.Clean("/" + opts.Folder)[1:]
	dir := filepath.Join(ls.basePath, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	ext := extension(opts.Filename)
	publicID := filepath.ToSlash(filepath.Join(folder, uuid.New().String()+ext))
	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(publicID))

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Debug().Str("public_id", publicID).Msg("Stored asset locally")
	return &UploadResult{
		PublicID:  publicID,
		SecureURL: ls.url(publicID),
		Format:    strings.TrimPrefix(ext, "."),
	}, nil
}

// Delete removes the file. Missing files are not an error.
func (ls *LocalStore) Delete(ctx context.Context, publicID string, _ ResourceKind) error {
	if publicID == "" {
		return nil
	}
	path, err := ls.resolve(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve maps a public id to a path and refuses ids that escape basePath
func (ls *LocalStore) resolve(publicID string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(publicID))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid public id: %s", publicID)
	}
	return filepath.Join(ls.basePath, clean), nil
}

func (ls *LocalStore) url(publicID string) string {
	if ls.baseURL != "" {
		return ls.baseURL + "/" + publicID
	}
	return "/uploads/" + publicID
}
