// Package mediastore abstracts the external service that hosts college images, videos
// and PDF documents.
package mediastore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// ResourceKind is the class of asset being stored
type ResourceKind string

const (
	KindImage ResourceKind = "image"
	KindVideo ResourceKind = "video"
	KindRaw   ResourceKind = "raw"
)

// Transformation is applied to images at upload time
type Transformation struct {
	MaxWidth    int
	MaxHeight   int
	AutoQuality bool
	AutoFormat  bool
}

// ImagePolicy bounds every uploaded image to 1920x1080 with automatic quality and format.
var ImagePolicy = &Transformation{MaxWidth: 1920, MaxHeight: 1080, AutoQuality: true, AutoFormat: true}

// String renders the transformation in Cloudinary's URL syntax.
func (t *Transformation) String() string {
	if t == nil {
		return ""
	}
	var parts []string
	if t.MaxWidth > 0 || t.MaxHeight > 0 {
		parts = append(parts, "c_limit")
		if t.MaxWidth > 0 {
			parts = append(parts, fmt.Sprintf("w_%d", t.MaxWidth))
		}
		if t.MaxHeight > 0 {
			parts = append(parts, fmt.Sprintf("h_%d", t.MaxHeight))
		}
	}
	if t.AutoQuality {
		parts = append(parts, "q_auto")
	}
	if t.AutoFormat {
		parts = append(parts, "f_auto")
	}
	return strings.Join(parts, ",")
}

// UploadOptions describes where and how an asset is stored
type UploadOptions struct {
	Folder    string
	Kind      ResourceKind
	Filename  string
	Transform *Transformation
}

// UploadResult is what the store reports after a successful upload
type UploadResult struct {
	PublicID  string `json:"publicId"`
	SecureURL string `json:"secureUrl"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Format    string `json:"format,omitempty"`
}

// Store uploads and deletes assets by public identifier
type Store interface {
	Upload(ctx context.Context, r io.Reader, opts UploadOptions) (*UploadResult, error)
	Delete(ctx context.Context, publicID string, kind ResourceKind) error
}

// Folder layout inside the store
const (
	FolderCollegeImages    = "colleges/images"
	FolderCollegeVideos    = "colleges/videos"
	FolderCollegeDocuments = "colleges/documents"
	FolderCityImages       = "cities/images"
	FolderUniversityImages = "universities/images"
)

func extension(filename string) string {
	return strings.ToLower(path.Ext(filename))
}
