package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
)

// Success writes the standard {success, message, data} envelope.
func Success(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// SuccessExtra writes a success envelope with additional top-level fields
// (e.g. "total" on the admin listing, "summary" on the history).
func SuccessExtra(c *gin.Context, status int, message string, data interface{}, extra gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
		"data":    data,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error translates an error into the {success:false, message} envelope.
// Internal errors are logged and reported with a generic message; the raw
// error is only echoed outside release mode.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		zap.L().Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)

		body := gin.H{
			"success": false,
			"message": "Terjadi kesalahan server internal.",
		}
		if gin.Mode() != gin.ReleaseMode {
			body["error"] = err.Error()
		}
		c.JSON(code, body)
		return
	}

	c.JSON(code, gin.H{
		"success": false,
		"message": err.Error(),
	})
}
