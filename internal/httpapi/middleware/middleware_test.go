package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/suPer8Hu/dxcases/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":50000`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := serve(r, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthRequired("k"), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(AdminKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	tok, err := auth.SignJWT("admin@example.com", "k", time.Hour)
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.com", w.Body.String())
}

type countingLimiter struct {
	n   int
	err error
}

func (l *countingLimiter) Allow(ctx context.Context, scope, subject string, limit int, window time.Duration) (bool, error) {
	l.n++
	return l.n <= limit, l.err
}

func TestRateLimit(t *testing.T) {
	l := &countingLimiter{}
	r := gin.New()
	r.POST("/ai", RateLimit(l, "ai", 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/ai", nil)).Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/ai", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
}

func TestRateLimit_DisabledOrFailing(t *testing.T) {
	r := gin.New()
	r.GET("/off", RateLimit(nil, "ai", 1), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/err", RateLimit(&countingLimiter{n: 99, err: context.DeadlineExceeded}, "ai", 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/off", nil)).Code)
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/err", nil)).Code)
	}
}
