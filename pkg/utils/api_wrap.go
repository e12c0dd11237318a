package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorDetail is the body shape for /generate and /payments failures.
type ErrorDetail struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	Requested *int   `json:"requested,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
	Overage   *int   `json:"overage,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRecordNotFound):
		RespondError(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, ErrInvalidPlan), errors.Is(err, ErrInvalidPayload):
		RespondError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// RespondGenerationError maps the generation error taxonomy onto {error, detail} bodies.
func RespondGenerationError(c *gin.Context, err error) {
	var quotaErr *QuotaExceededError
	switch {
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusTooManyRequests, ErrorDetail{
			Error:     "Quota exceeded",
			Detail:    quotaErr.Error(),
			Requested: &quotaErr.Requested,
			Remaining: &quotaErr.Remaining,
			Overage:   &quotaErr.Overage,
		})
	case errors.Is(err, ErrEmptyInput):
		c.JSON(http.StatusBadRequest, ErrorDetail{Error: "ValidationError", Detail: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorDetail{
			Error:  "Generation request failed",
			Detail: err.Error(),
		})
	}
}

// RespondPaymentError maps payment failures onto {error, detail} bodies.
func RespondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPlan):
		c.JSON(http.StatusBadRequest, ErrorDetail{Error: "Invalid plan selected."})
	case errors.Is(err, ErrInvalidWebhook):
		c.JSON(http.StatusBadRequest, ErrorDetail{Error: "Invalid webhook payload", Detail: err.Error()})
	case errors.Is(err, ErrPaymentsNotConfigured):
		c.JSON(http.StatusInternalServerError, ErrorDetail{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorDetail{Error: "Payment request failed", Detail: err.Error()})
	}
}
