// Package controllers handles HTTP request handling
package controllers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/services"
	"github.com/yigit/edudirectory/internal/middleware"
	"github.com/yigit/edudirectory/internal/pkg/helpers"
)

// formFileField is the multipart field every upload endpoint reads
const formFileField = "file"

// respond writes a success envelope with optional cleanup warnings
func respond(ctx *gin.Context, status int, data interface{}, warnings ...string) {
	ctx.JSON(status, dto.NewSuccessResponse(data, warnings...))
}

// respondDeleted reports a deleted record
func respondDeleted(ctx *gin.Context, id interface{}, warnings ...string) {
	respond(ctx, http.StatusOK, dto.DeleteResponse{ID: id, Deleted: true}, warnings...)
}

// formFile reads the uploaded file of a multipart request. The returned closer must be
// closed once the upload is handled.
func formFile(ctx *gin.Context) (*services.FileUpload, io.Closer, bool) {
	header, err := ctx.FormFile(formFileField)
	if err != nil {
		badRequest(ctx, "Invalid or missing file", err.Error())
		return nil, nil, false
	}
	return openUpload(ctx, header)
}

func openUpload(ctx *gin.Context, header *multipart.FileHeader) (*services.FileUpload, io.Closer, bool) {
	file, err := header.Open()
	if err != nil {
		badRequest(ctx, "Uploaded file could not be read", err.Error())
		return nil, nil, false
	}
	return &services.FileUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, file, true
}

// optionalForm returns the trimmed form value or nil
func optionalForm(ctx *gin.Context, key string) *string {
	return helpers.StringPtr(strings.TrimSpace(ctx.PostForm(key)))
}

func badRequest(ctx *gin.Context, message, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithDetails(details)
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// callerEmail is the email of the authenticated console user
func callerEmail(ctx *gin.Context) string {
	return middleware.CurrentEmail(ctx)
}
