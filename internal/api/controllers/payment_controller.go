package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/internal/services"
	"healwise/pkg/middleware"
	"healwise/pkg/utils"
)

const maxWebhookBodyBytes = int64(65536)

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreateCheckoutSession godoc
// @Summary Create a Stripe checkout session for a subscription plan
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreateCheckoutRequest true "Plan key"
// @Success 200 {object} response_models.SessionResponse
// @Failure 400 {object} utils.ErrorDetail
// @Security BearerAuth
// @Router /payments/checkout-session [post]
func (p *PaymentController) CreateCheckoutSession(c *gin.Context) {
	var request request_models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorDetail{Error: "Invalid plan selected."})
		return
	}

	session, err := p.paymentService.CreateCheckoutSession(
		c.Request.Context(),
		c.GetString(middleware.ContextAccountID),
		c.GetString(middleware.ContextEmail),
		db_models.PlanKey(request.Plan),
	)
	if err != nil {
		utils.RespondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CreatePortalSession godoc
// @Summary Open the Stripe billing portal for a customer email
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreatePortalRequest true "Customer email"
// @Success 201 {object} response_models.SessionResponse
// @Failure 400 {object} utils.ErrorDetail
// @Security BearerAuth
// @Router /payments/portal-session [post]
func (p *PaymentController) CreatePortalSession(c *gin.Context) {
	var request request_models.CreatePortalRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorDetail{Error: "Email is required."})
		return
	}

	session, err := p.paymentService.CreatePortalSession(c.Request.Context(), request.Email)
	if err != nil {
		utils.RespondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// HandleWebhook receives Stripe events; the route sits outside the auth group.
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorDetail{Error: "invalid payload"})
		return
	}

	if err := p.paymentService.HandleWebhook(c.Request.Context(), body, c.GetHeader("Stripe-Signature")); err != nil {
		utils.RespondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
