// Package pdfcheck validates uploaded college documents before they are sent to the
// media store.
package pdfcheck

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
)

// Limits bounds an accepted document
type Limits struct {
	MaxFileSizeMB int
	MaxPages      int
}

// DocumentLimits applies to brochures and prospectuses attached to a college
var DocumentLimits = Limits{MaxFileSizeMB: 20, MaxPages: 200}

// Result describes an accepted document
type Result struct {
	PageCount int
	FileSize  int64
}

// Check validates filename, size, header and page count. Rejections are validation
// errors carrying a user-facing message.
func Check(filename string, content []byte, limits Limits) (*Result, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, apperrors.NewValidationError("only PDF files are supported")
	}

	size := int64(len(content))
	if size > int64(limits.MaxFileSizeMB)*1024*1024 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("file size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB))
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return nil, apperrors.NewValidationError("invalid PDF file: missing PDF header")
	}

	pages, err := pageCount(content)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("failed to read PDF: %v", err))
	}
	if pages == 0 {
		return nil, apperrors.NewValidationError("PDF has no pages")
	}
	if pages > limits.MaxPages {
		return nil, apperrors.NewValidationError(fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d", pages, limits.MaxPages))
	}

	return &Result{PageCount: pages, FileSize: size}, nil
}

func pageCount(content []byte) (n int, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}
