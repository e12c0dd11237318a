package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healwise/internal/models/request_models"
	"healwise/internal/services"
	"healwise/pkg/middleware"
	"healwise/pkg/utils"
)

type PlannerController struct {
	plannerService services.PlannerServiceInterface
}

func NewPlannerController(plannerService services.PlannerServiceInterface) *PlannerController {
	return &PlannerController{
		plannerService: plannerService,
	}
}

// ListItems godoc
// @Summary List saved planner items
// @Tags Planner
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.PlannerListResponse}
// @Router /planner [get]
func (p *PlannerController) ListItems(c *gin.Context) {
	items, err := p.plannerService.ListItems(c.Request.Context(), c.GetString(middleware.ContextAccountID))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Planner items retrieved successfully")
}

// SaveItem godoc
// @Summary Save a generation result to the planner
// @Tags Planner
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlannerItemRequest true "Planner item"
// @Success 201 {object} utils.APIResponse{data=response_models.PlannerItemResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /planner [post]
func (p *PlannerController) SaveItem(c *gin.Context) {
	var req request_models.CreatePlannerItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	item, err := p.plannerService.SaveItem(c.Request.Context(), c.GetString(middleware.ContextAccountID), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, item, "Planner item saved")
}

// RemoveItem godoc
// @Summary Remove one planner item
// @Tags Planner
// @Param id path string true "Planner item ID"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Router /planner/{id} [delete]
func (p *PlannerController) RemoveItem(c *gin.Context) {
	if err := p.plannerService.RemoveItem(c.Request.Context(), c.GetString(middleware.ContextAccountID), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearItems godoc
// @Summary Remove every planner item of the caller
// @Tags Planner
// @Success 204
// @Router /planner [delete]
func (p *PlannerController) ClearItems(c *gin.Context) {
	if err := p.plannerService.ClearItems(c.Request.Context(), c.GetString(middleware.ContextAccountID)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
