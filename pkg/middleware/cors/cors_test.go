package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/schedules", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/schedules", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	r := newRouter([]string{"https://portal.example.edu/"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedules", nil)
	req.Header.Set("Origin", "https://portal.example.edu")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://portal.example.edu", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownPreflight(t *testing.T) {
	r := newRouter([]string{"https://portal.example.edu"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/schedules", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightAllowAll(t *testing.T) {
	r := newRouter(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/schedules", nil)
	req.Header.Set("Origin", "https://any.example.org")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://any.example.org", w.Header().Get("Access-Control-Allow-Origin"))
}
