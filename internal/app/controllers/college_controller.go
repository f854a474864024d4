package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/services"
	"github.com/yigit/edudirectory/internal/middleware"
)

// CollegeController handles college records and their course links
type CollegeController struct {
	collegeService services.CollegeService
	mediaService   services.MediaService
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(collegeService services.CollegeService, mediaService services.MediaService) *CollegeController {
	return &CollegeController{
		collegeService: collegeService,
		mediaService:   mediaService,
	}
}

// CreateCollege handles college creation
// @Summary Create a new college
// @Description Creates a college with a unique slug. Duplicate names get a numeric suffix.
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCollegeRequest true "College information"
// @Success 201 {object} dto.APIResponse{data=models.College}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Router /colleges [post]
func (c *CollegeController) CreateCollege(ctx *gin.Context) {
	var req dto.CreateCollegeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	college, err := c.collegeService.CreateCollege(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, college)
}

// GetColleges lists colleges, optionally of one university
// @Summary List colleges
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param universityId query int false "Filter by university"
// @Success 200 {object} dto.APIResponse{data=[]models.College}
// @Router /colleges [get]
func (c *CollegeController) GetColleges(ctx *gin.Context) {
	universityID, ok := middleware.OptionalInt64Query(ctx, "universityId")
	if !ok {
		return
	}

	colleges, err := c.collegeService.GetColleges(ctx.Request.Context(), universityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, colleges)
}

// GetCollegeByID retrieves a college with its courses, images and videos
// @Summary Get college details
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.CollegeDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "College not found"
// @Router /colleges/{id} [get]
func (c *CollegeController) GetCollegeByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	college, err := c.collegeService.GetCollegeByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, college)
}

// GetCollegeBySlug retrieves a college detail by slug
// @Summary Get college by slug
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param slug path string true "College slug"
// @Success 200 {object} dto.APIResponse{data=models.CollegeDetail}
// @Router /colleges/slug/{slug} [get]
func (c *CollegeController) GetCollegeBySlug(ctx *gin.Context) {
	college, err := c.collegeService.GetCollegeBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, college)
}

// UpdateCollege updates a college. The slug never changes.
// @Summary Update a college
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Param request body dto.UpdateCollegeRequest true "Updated college information"
// @Success 200 {object} dto.APIResponse{data=models.College}
// @Router /colleges/{id} [put]
func (c *CollegeController) UpdateCollege(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateCollegeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	college, err := c.collegeService.UpdateCollege(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, college)
}

// DeleteCollege deletes a college and all of its stored media
// @Summary Delete a college
// @Description Removes images, uploaded videos and documents from the media store, then the record.
// @Description Media that could not be removed is listed in warnings.
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.DeleteResponse}
// @Router /colleges/{id} [delete]
func (c *CollegeController) DeleteCollege(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	warnings, err := c.mediaService.DeleteCollege(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, id, warnings...)
}

// GetCollegeCourses lists the courses a college offers
// @Summary List college courses
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /colleges/{id}/courses [get]
func (c *CollegeController) GetCollegeCourses(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	courses, err := c.collegeService.GetCollegeCourses(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, courses)
}

// LinkCourses replaces the course links of a college
// @Summary Replace college courses
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID" Format(int64) minimum(1)
// @Param request body dto.LinkCoursesRequest true "Course ids"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /colleges/{id}/courses [put]
func (c *CollegeController) LinkCourses(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.LinkCoursesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	courses, err := c.collegeService.LinkCourses(ctx.Request.Context(), id, req.CourseIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, courses)
}
