package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/services"
	"github.com/yigit/edudirectory/internal/middleware"
)

// UniversityController handles university-related operations
type UniversityController struct {
	universityService services.UniversityService
	mediaService      services.MediaService
}

// NewUniversityController creates a new UniversityController
func NewUniversityController(universityService services.UniversityService, mediaService services.MediaService) *UniversityController {
	return &UniversityController{
		universityService: universityService,
		mediaService:      mediaService,
	}
}

// CreateUniversity handles university creation
// @Summary Create a new university
// @Tags universities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUniversityRequest true "University information"
// @Success 201 {object} dto.APIResponse{data=models.University}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Router /universities [post]
func (c *UniversityController) CreateUniversity(ctx *gin.Context) {
	var req dto.CreateUniversityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	university, err := c.universityService.CreateUniversity(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, university)
}

// GetUniversities lists universities, optionally of one city
// @Summary List universities
// @Tags universities
// @Produce json
// @Security BearerAuth
// @Param cityId query int false "Filter by city"
// @Success 200 {object} dto.APIResponse{data=[]models.University}
// @Router /universities [get]
func (c *UniversityController) GetUniversities(ctx *gin.Context) {
	cityID, ok := middleware.OptionalInt64Query(ctx, "cityId")
	if !ok {
		return
	}

	universities, err := c.universityService.GetUniversities(ctx.Request.Context(), cityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, universities)
}

// GetUniversityByID retrieves a university by ID
// @Summary Get university details
// @Tags universities
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.University}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "University not found"
// @Router /universities/{id} [get]
func (c *UniversityController) GetUniversityByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	university, err := c.universityService.GetUniversityByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, university)
}

// GetUniversityBySlug retrieves a university by slug
// @Summary Get university by slug
// @Tags universities
// @Produce json
// @Security BearerAuth
// @Param slug path string true "University slug"
// @Success 200 {object} dto.APIResponse{data=models.University}
// @Router /universities/slug/{slug} [get]
func (c *UniversityController) GetUniversityBySlug(ctx *gin.Context) {
	university, err := c.universityService.GetUniversityBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, university)
}

// UpdateUniversity updates an existing university
// @Summary Update a university
// @Tags universities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID" Format(int64) minimum(1)
// @Param request body dto.UpdateUniversityRequest true "Updated university information"
// @Success 200 {object} dto.APIResponse{data=models.University}
// @Router /universities/{id} [put]
func (c *UniversityController) UpdateUniversity(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateUniversityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	university, err := c.universityService.UpdateUniversity(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, university)
}

// DeleteUniversity deletes a university and its stored image
// @Summary Delete a university
// @Tags universities
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.DeleteResponse}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "University still has colleges"
// @Router /universities/{id} [delete]
func (c *UniversityController) DeleteUniversity(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	warnings, err := c.universityService.DeleteUniversity(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, id, warnings...)
}

// ReplaceUniversityImage uploads a new university image and removes the previous one
// @Summary Replace university image
// @Tags universities
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID" Format(int64) minimum(1)
// @Param file formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=models.University}
// @Router /universities/{id}/image [put]
func (c *UniversityController) ReplaceUniversityImage(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	file, closer, ok := formFile(ctx)
	if !ok {
		return
	}
	defer closer.Close()

	university, warnings, err := c.mediaService.ReplaceUniversityImage(ctx.Request.Context(), id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, university, warnings...)
}

// RemoveUniversityImage clears the university image
// @Summary Remove university image
// @Tags universities
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.University}
// @Router /universities/{id}/image [delete]
func (c *UniversityController) RemoveUniversityImage(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	university, warnings, err := c.mediaService.RemoveUniversityImage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, university, warnings...)
}
