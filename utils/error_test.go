package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	Logger = zaptest.NewLogger(t)
	r := gin.New()
	r.Use(ErrorHandler())
	return r
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Internal Server Error" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestJSONError(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/bad", func(c *gin.Context) {
		JSONError(c, http.StatusBadRequest, "invalid input", "day is required")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "invalid input" || body.Details != "day is required" {
		t.Errorf("unexpected body %+v", body)
	}
}
