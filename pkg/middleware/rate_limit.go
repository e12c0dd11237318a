package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"healwise/pkg/utils"
)

// RateLimit throttles per account, falling back to client IP, using a formatted rate like "30-M".
func RateLimit(formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)
	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			if id := c.GetString(ContextAccountID); id != "" {
				return "acct:" + id
			}
			return "ip:" + c.ClientIP()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, utils.ErrorDetail{
				Error:  "Too many requests",
				Detail: "Please wait a moment before trying again.",
			})
		}),
	), nil
}
