package utils

import (
	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

func SuccessResponse(c *gin.Context, status int, body interface{}) {
	c.JSON(status, body)
}
