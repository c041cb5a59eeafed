package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/stationeryhq/ledger/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]string{
		"":                        "en",
		"en-US":                   "en",
		"zh-TW,zh;q=0.9,en;q=0.8": "zh_TW",
		"zh-Hant":                 "zh_TW",
		"fr-FR,fr;q=0.9":          "en",
	}
	for header, want := range cases {
		assert.Equal(t, want, parseLanguage(header), header)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rl.evict(0)
	assert.Empty(t, rl.visitors)
}

func TestNewRateLimiterFromConfig(t *testing.T) {
	assert.Nil(t, NewRateLimiterFromConfig(config.RateLimitConfig{Enabled: false}))

	rl := NewRateLimiterFromConfig(config.RateLimitConfig{Enabled: true, RequestsPerSec: 5, Burst: 7})
	require.NotNil(t, rl)
	assert.Equal(t, rate.Limit(5), rl.rate)
	assert.Equal(t, 7, rl.burst)
}
