package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

// The registry API keeps the flat `{ok: ...}` body contract of the
// surrounding system: mutating endpoints answer `{ok:true, ...}` with
// operation fields merged in, failures answer `{ok:false, code, message}`
// at the error's HTTP status, and read endpoints return their payload bare.

// JSON sends a raw payload, used by read-only listing endpoints.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, payload)
}

// OK sends `{ok:true}` merged with the provided fields.
func OK(c *gin.Context, fields gin.H) {
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, body)
}

// Error sends `{ok:false, code, message}` using the typed error's status.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{
		"ok":      false,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
