package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2, zaptest.NewLogger(t)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("1.1.1.1"); code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, code)
		}
	}
	if code := do("1.1.1.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request: status %d, want 429", code)
	}
	if code := do("2.2.2.2"); code != http.StatusOK {
		t.Errorf("other client: status %d", code)
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": " 9.9.9.9 , 8.8.8.8"}, "127.0.0.1:1", "9.9.9.9"},
		{"real ip", map[string]string{"X-Real-IP": "7.7.7.7"}, "127.0.0.1:1", "7.7.7.7"},
		{"remote with port", nil, "6.6.6.6:5000", "6.6.6.6"},
		{"remote without port", nil, "6.6.6.6", "6.6.6.6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			if got := getClientIP(c); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
