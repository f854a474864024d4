package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/services"
	"github.com/yigit/edudirectory/internal/middleware"
)

// MediaController handles college images, videos and documents
type MediaController struct {
	mediaService services.MediaService
}

// NewMediaController creates a new MediaController
func NewMediaController(mediaService services.MediaService) *MediaController {
	return &MediaController{mediaService: mediaService}
}

// UploadCollegeImage uploads an image to a college gallery
// @Summary Upload college image
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Param file formData file true "Image file"
// @Param caption formData string false "Caption"
// @Success 201 {object} dto.APIResponse{data=models.CollegeImage}
// @Failure 502 {object} dto.APIResponse{error=dto.ErrorDetail} "Upload failed"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail} "Uploaded image could not be saved"
// @Router /colleges/{id}/images [post]
func (c *MediaController) UploadCollegeImage(ctx *gin.Context) {
	collegeID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	file, closer, ok := formFile(ctx)
	if !ok {
		return
	}
	defer closer.Close()

	image, err := c.mediaService.UploadCollegeImage(ctx.Request.Context(), collegeID, file, optionalForm(ctx, "caption"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, image)
}

// AddCollegeVideo attaches a video, either an uploaded file (multipart) or an external
// URL (JSON)
// @Summary Add college video
// @Tags media
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Param file formData file false "Video file"
// @Param title formData string false "Title"
// @Param request body dto.AddVideoURLRequest false "External video"
// @Success 201 {object} dto.APIResponse{data=models.CollegeVideo}
// @Router /colleges/{id}/videos [post]
func (c *MediaController) AddCollegeVideo(ctx *gin.Context) {
	collegeID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var (
		video *models.CollegeVideo
		err   error
	)
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		file, closer, ok := formFile(ctx)
		if !ok {
			return
		}
		defer closer.Close()
		video, err = c.mediaService.UploadCollegeVideo(ctx.Request.Context(), collegeID, file, optionalForm(ctx, "title"))
	} else {
		var req dto.AddVideoURLRequest
		if !middleware.BindJSON(ctx, &req) {
			return
		}
		video, err = c.mediaService.AddCollegeVideoURL(ctx.Request.Context(), collegeID, &req)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, video)
}

// ReorderImages sets the gallery order of a college
// @Summary Reorder college images
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Param request body dto.ReorderRequest true "Image ids in display order"
// @Success 200 {object} dto.APIResponse{data=[]models.CollegeImage}
// @Router /colleges/{id}/images/order [put]
func (c *MediaController) ReorderImages(ctx *gin.Context) {
	collegeID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReorderRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	images, err := c.mediaService.ReorderImages(ctx.Request.Context(), collegeID, req.IDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, images)
}

// ReorderVideos sets the video order of a college
// @Summary Reorder college videos
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Param request body dto.ReorderRequest true "Video ids in display order"
// @Success 200 {object} dto.APIResponse{data=[]models.CollegeVideo}
// @Router /colleges/{id}/videos/order [put]
func (c *MediaController) ReorderVideos(ctx *gin.Context) {
	collegeID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReorderRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	videos, err := c.mediaService.ReorderVideos(ctx.Request.Context(), collegeID, req.IDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, videos)
}

// DeleteImage deletes a college image
// @Summary Delete college image
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param id path int true "Image ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.DeleteResponse}
// @Router /images/{id} [delete]
func (c *MediaController) DeleteImage(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	warnings, err := c.mediaService.DeleteImage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, id, warnings...)
}

// DeleteVideo deletes a college video
// @Summary Delete college video
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.DeleteResponse}
// @Router /videos/{id} [delete]
func (c *MediaController) DeleteVideo(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	warnings, err := c.mediaService.DeleteVideo(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, id, warnings...)
}

// UploadCollegeDocument stores a brochure or fee structure PDF
// @Summary Upload college document
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Param kind path string true "Document kind" Enums(brochure, fee_structure)
// @Param file formData file true "PDF file"
// @Success 200 {object} dto.APIResponse{data=models.College}
// @Router /colleges/{id}/documents/{kind} [put]
func (c *MediaController) UploadCollegeDocument(ctx *gin.Context) {
	collegeID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	file, closer, ok := formFile(ctx)
	if !ok {
		return
	}
	defer closer.Close()

	content, err := io.ReadAll(file.Content)
	if err != nil {
		badRequest(ctx, "Uploaded file could not be read", err.Error())
		return
	}

	college, warnings, err := c.mediaService.UploadCollegeDocument(
		ctx.Request.Context(), collegeID, models.DocumentKind(ctx.Param("kind")), file.Filename, content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, college, warnings...)
}

// RemoveCollegeDocument clears a brochure or fee structure
// @Summary Remove college document
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Param kind path string true "Document kind" Enums(brochure, fee_structure)
// @Success 200 {object} dto.APIResponse{data=models.College}
// @Router /colleges/{id}/documents/{kind} [delete]
func (c *MediaController) RemoveCollegeDocument(ctx *gin.Context) {
	collegeID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	college, warnings, err := c.mediaService.RemoveCollegeDocument(
		ctx.Request.Context(), collegeID, models.DocumentKind(ctx.Param("kind")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, college, warnings...)
}
