package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestResultSuccess(t *testing.T) {
	c, w := newContext()
	Result(c, nil, http.StatusOK, "Seat booked successfully!")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"success":true,"message":"Seat booked successfully!"}`, w.Body.String())
}

func TestResultTypedError(t *testing.T) {
	c, w := newContext()
	Result(c, appErrors.Clone(appErrors.ErrConflict, "Seat already booked for this shift and date"), http.StatusOK, "unused")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Seat already booked for this shift and date","code":"CONFLICT"}`, w.Body.String())
	assert.Empty(t, c.Errors)
}

func TestErrorUntypedBecomesInternal(t *testing.T) {
	c, w := newContext()
	Error(c, errors.New("database is locked"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
	assert.Len(t, c.Errors, 1)
}

func TestJSONWritesRawPayload(t *testing.T) {
	c, w := newContext()
	JSON(c, http.StatusOK, []int{1, 2})
	assert.JSONEq(t, `[1,2]`, w.Body.String())
}
