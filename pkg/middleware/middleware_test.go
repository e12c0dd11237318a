package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healwise/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echoAccount(c *gin.Context) {
	c.String(http.StatusOK, c.GetString(ContextAccountID))
}

func TestTraceIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("trace_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(TraceHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	inbound := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceHeader, inbound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, inbound, w.Header().Get(TraceHeader))
}

func TestAccountMiddleware(t *testing.T) {
	secret := []byte("test-secret")
	r := gin.New()
	r.Use(TraceIDMiddleware(), AccountMiddleware(AuthConfig{Secret: secret}))
	r.GET("/", echoAccount)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := utils.CreateToken(secret, "acct-7", "", time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "acct-7", w.Body.String())
	})
}

func TestAccountMiddleware_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(AccountMiddleware(AuthConfig{Disabled: true, DemoAccountID: "demo-user"}))
	r.GET("/", echoAccount)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "demo-user", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	mw, err := RateLimit("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	_, err = RateLimit("lots")
	assert.Error(t, err)
}
