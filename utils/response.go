package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondSuccess writes the standard success envelope.
func RespondSuccess(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": http.StatusOK,
		"data": data,
		"meta": meta,
	})
}

// RespondError writes the standard error envelope.
func RespondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"code":  status,
		"error": msg,
	})
}
