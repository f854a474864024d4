package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/services"
	"github.com/yigit/edudirectory/internal/middleware"
)

// CityController handles city-related operations
type CityController struct {
	cityService  services.CityService
	mediaService services.MediaService
}

// NewCityController creates a new CityController
func NewCityController(cityService services.CityService, mediaService services.MediaService) *CityController {
	return &CityController{
		cityService:  cityService,
		mediaService: mediaService,
	}
}

// CreateCity handles city creation
// @Summary Create a new city
// @Tags cities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCityRequest true "City information"
// @Success 201 {object} dto.APIResponse{data=models.City}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Unknown state or slug in use"
// @Router /cities [post]
func (c *CityController) CreateCity(ctx *gin.Context) {
	var req dto.CreateCityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	city, err := c.cityService.CreateCity(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, city)
}

// GetCities lists cities, optionally of one state
// @Summary List cities
// @Tags cities
// @Produce json
// @Security BearerAuth
// @Param stateId query int false "Filter by state"
// @Success 200 {object} dto.APIResponse{data=[]models.City}
// @Router /cities [get]
func (c *CityController) GetCities(ctx *gin.Context) {
	stateID, ok := middleware.OptionalInt64Query(ctx, "stateId")
	if !ok {
		return
	}

	cities, err := c.cityService.GetCities(ctx.Request.Context(), stateID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, cities)
}

// GetCityByID retrieves a city by ID
// @Summary Get city details
// @Tags cities
// @Produce json
// @Security BearerAuth
// @Param id path int true "City ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.City}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "City not found"
// @Router /cities/{id} [get]
func (c *CityController) GetCityByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	city, err := c.cityService.GetCityByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, city)
}

// GetCityBySlug retrieves a city by slug
// @Summary Get city by slug
// @Tags cities
// @Produce json
// @Security BearerAuth
// @Param slug path string true "City slug"
// @Success 200 {object} dto.APIResponse{data=models.City}
// @Router /cities/slug/{slug} [get]
func (c *CityController) GetCityBySlug(ctx *gin.Context) {
	city, err := c.cityService.GetCityBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, city)
}

// UpdateCity updates an existing city
// @Summary Update a city
// @Tags cities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "City ID" Format(int64) minimum(1)
// @Param request body dto.UpdateCityRequest true "Updated city information"
// @Success 200 {object} dto.APIResponse{data=models.City}
// @Router /cities/{id} [put]
func (c *CityController) UpdateCity(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateCityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	city, err := c.cityService.UpdateCity(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, city)
}

// DeleteCity deletes a city and its stored image
// @Summary Delete a city
// @Tags cities
// @Produce json
// @Security BearerAuth
// @Param id path int true "City ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.DeleteResponse}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "City still has universities"
// @Router /cities/{id} [delete]
func (c *CityController) DeleteCity(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	warnings, err := c.cityService.DeleteCity(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, id, warnings...)
}

// ReplaceCityImage uploads a new city image and removes the previous one
// @Summary Replace city image
// @Tags cities
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "City ID" Format(int64) minimum(1)
// @Param file formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=models.City}
// @Failure 502 {object} dto.APIResponse{error=dto.ErrorDetail} "Upload failed"
// @Router /cities/{id}/image [put]
func (c *CityController) ReplaceCityImage(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	file, closer, ok := formFile(ctx)
	if !ok {
		return
	}
	defer closer.Close()

	city, warnings, err := c.mediaService.ReplaceCityImage(ctx.Request.Context(), id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, city, warnings...)
}

// RemoveCityImage clears the city image
// @Summary Remove city image
// @Tags cities
// @Produce json
// @Security BearerAuth
// @Param id path int true "City ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.City}
// @Router /cities/{id}/image [delete]
func (c *CityController) RemoveCityImage(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	city, warnings, err := c.mediaService.RemoveCityImage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, city, warnings...)
}
