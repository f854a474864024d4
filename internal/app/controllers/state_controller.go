package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/services"
	"github.com/yigit/edudirectory/internal/middleware"
)

// StateController handles state-related operations
type StateController struct {
	stateService services.StateService
}

// NewStateController creates a new StateController
func NewStateController(stateService services.StateService) *StateController {
	return &StateController{stateService: stateService}
}

// CreateState handles state creation
// @Summary Create a new state
// @Description Creates a state. The slug is derived from the name.
// @Tags states
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStateRequest true "State information"
// @Success 201 {object} dto.APIResponse{data=models.State} "State created successfully"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Slug already in use"
// @Router /states [post]
func (c *StateController) CreateState(ctx *gin.Context) {
	var req dto.CreateStateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	state, err := c.stateService.CreateState(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, state)
}

// GetAllStates lists all states
// @Summary List states
// @Tags states
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.State}
// @Router /states [get]
func (c *StateController) GetAllStates(ctx *gin.Context) {
	states, err := c.stateService.GetAllStates(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, states)
}

// GetStateByID retrieves a state by ID
// @Summary Get state details
// @Tags states
// @Produce json
// @Security BearerAuth
// @Param id path int true "State ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.State}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "State not found"
// @Router /states/{id} [get]
func (c *StateController) GetStateByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := c.stateService.GetStateByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, state)
}

// GetStateBySlug retrieves a state by slug
// @Summary Get state by slug
// @Tags states
// @Produce json
// @Security BearerAuth
// @Param slug path string true "State slug"
// @Success 200 {object} dto.APIResponse{data=models.State}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "State not found"
// @Router /states/slug/{slug} [get]
func (c *StateController) GetStateBySlug(ctx *gin.Context) {
	state, err := c.stateService.GetStateBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, state)
}

// UpdateState updates an existing state
// @Summary Update a state
// @Description Partial update. A new name regenerates the slug.
// @Tags states
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "State ID" Format(int64) minimum(1)
// @Param request body dto.UpdateStateRequest true "Updated state information"
// @Success 200 {object} dto.APIResponse{data=models.State}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Invalid request data"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "State not found"
// @Router /states/{id} [put]
func (c *StateController) UpdateState(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	state, err := c.stateService.UpdateState(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, state)
}

// DeleteState deletes a state
// @Summary Delete a state
// @Tags states
// @Produce json
// @Security BearerAuth
// @Param id path int true "State ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.DeleteResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "State not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "State still has cities"
// @Router /states/{id} [delete]
func (c *StateController) DeleteState(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.stateService.DeleteState(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, id)
}
