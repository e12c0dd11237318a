package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/internal/services"
	"healwise/pkg/middleware"
	"healwise/pkg/utils"
)

type ProfileController struct {
	profileService services.ProfileServiceInterface
	quotaService   services.QuotaServiceInterface
}

func NewProfileController(profileService services.ProfileServiceInterface, quotaService services.QuotaServiceInterface) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		quotaService:   quotaService,
	}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.ProfileResponse}
// @Router /profile [get]
func (p *ProfileController) GetProfile(c *gin.Context) {
	profile, err := p.profileService.GetProfile(c.Request.Context(), c.GetString(middleware.ContextAccountID), c.GetString(middleware.ContextEmail))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Profile retrieved successfully")
}

// UpdateProfile godoc
// @Summary Update display name, avoid-list or onboarding state
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse{data=response_models.ProfileResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /profile [put]
func (p *ProfileController) UpdateProfile(c *gin.Context) {
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	profile, err := p.profileService.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextAccountID), c.GetString(middleware.ContextEmail), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Profile updated successfully")
}

// ChangePlan godoc
// @Summary Select a subscription tier manually
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body request_models.ChangePlanRequest true "Plan"
// @Success 200 {object} utils.APIResponse{data=response_models.ProfileResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /profile/plan [post]
func (p *ProfileController) ChangePlan(c *gin.Context) {
	var req request_models.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan selected.")
		return
	}

	profile, err := p.profileService.ChangePlan(c.Request.Context(), c.GetString(middleware.ContextAccountID), c.GetString(middleware.ContextEmail), db_models.SubscriptionTier(req.Plan))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Plan updated")
}

// GetUsage godoc
// @Summary Current usage counters and limits
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.UsageResponse}
// @Router /usage [get]
func (p *ProfileController) GetUsage(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := c.GetString(middleware.ContextAccountID)

	ent, err := p.profileService.ResolveEntitlement(ctx, accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	usage, err := p.quotaService.Usage(ctx, accountID, ent.Tier)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, usage, "Usage retrieved successfully")
}
