package response

import "github.com/gin-gonic/gin"

// The frontend expects every response, success or failure, to be JSON with an
// `ok` flag and a `message` string on error. Extra fields (unavailableTimes,
// errors, deletedAppointments) are merged into the same object.

func OK(c *gin.Context, statusCode int, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"ok":      false,
		"message": message,
	})
}

func FailWith(c *gin.Context, statusCode int, message string, extra gin.H) {
	body := gin.H{
		"ok":      false,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}
