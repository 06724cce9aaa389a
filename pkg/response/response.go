package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-seat-api/internal/dto"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
)

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON sends data as the raw body. Dashboards consume the list and stats
// payloads directly, without an envelope.
func JSON(c *gin.Context, status int, data interface{}) {
	noStore(c)
	c.JSON(status, data)
}

// Success reports a completed mutation.
func Success(c *gin.Context, status int, message string) {
	noStore(c)
	c.JSON(status, dto.MutationResult{Success: true, Message: message})
}

// Error renders err as {success: false, message, code} with the status of
// its taxonomy class. Untyped errors become 500s.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	noStore(c)
	c.JSON(appErr.Status, dto.MutationResult{Success: false, Message: appErr.Message, Code: appErr.Code})
}

// Result picks Success or Error depending on err.
func Result(c *gin.Context, err error, status int, message string) {
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, status, message)
}
