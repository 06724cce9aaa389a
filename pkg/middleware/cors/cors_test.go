package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPolicyAllowed(t *testing.T) {
	open := NewPolicy(nil)
	assert.True(t, open.Allowed("http://anything.test"))

	strict := NewPolicy([]string{"http://display.local/"})
	assert.True(t, strict.Allowed("http://display.local"))
	assert.False(t, strict.Allowed("http://evil.test"))
}

func TestMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New([]string{"http://admin.local"}))
	r.POST("/api/add-seat", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/add-seat", nil)
	req.Header.Set("Origin", "http://admin.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://admin.local", w.Header().Get("Access-Control-Allow-Origin"))
}
