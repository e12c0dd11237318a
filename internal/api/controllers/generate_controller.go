package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"healwise/internal/models/request_models"
	"healwise/internal/services"
	"healwise/pkg/middleware"
	"healwise/pkg/utils"
)

type GenerateController struct {
	generationService services.GenerationServiceInterface
}

func NewGenerateController(generationService services.GenerationServiceInterface) *GenerateController {
	return &GenerateController{
		generationService: generationService,
	}
}

// Generate godoc
// @Summary Run a generation operation
// @Description Recommendation (quota-metered), recipe variation or kids explanation.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body request_models.GenerateRequest true "Generation payload"
// @Success 200 {array} object
// @Failure 400 {object} utils.ErrorDetail
// @Failure 429 {object} utils.ErrorDetail
// @Failure 500 {object} utils.ErrorDetail
// @Router /generate [post]
func (g *GenerateController) Generate(c *gin.Context) {
	var req request_models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorDetail{Error: "ValidationError", Detail: err.Error()})
		return
	}

	accountID := c.GetString(middleware.ContextAccountID)
	ctx := c.Request.Context()

	switch req.Operation {
	case request_models.OperationRecipeVariation:
		out, err := g.generationService.VaryRecipe(ctx, accountID, req)
		if err != nil {
			utils.RespondGenerationError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", out)

	case request_models.OperationKidsExplain:
		out, err := g.generationService.ExplainForKids(ctx, req.Content)
		if err != nil {
			utils.RespondGenerationError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", out)

	default:
		if req.ModuleType == "" {
			c.JSON(http.StatusBadRequest, utils.ErrorDetail{Error: "ValidationError", Detail: "moduleType is required"})
			return
		}
		outcome, err := g.generationService.Recommend(ctx, accountID, req)
		if err != nil {
			utils.RespondGenerationError(c, err)
			return
		}
		c.Header(middleware.UsageRemainingHeader, strconv.Itoa(services.DisplayRemaining(outcome.Remaining)))
		c.Data(http.StatusOK, "application/json; charset=utf-8", outcome.Result.Payload)
	}
}
