package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/pmoura/scrumboard-api/internal/errors"
)

// successResponse is the success shape of the API envelope
type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respond(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponse{Success: true, Data: data})
}

func respondMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, successResponse{Success: true, Message: message})
}

// parseIDParam reads a numeric path parameter, rejecting the request with a
// 400 when it is not a positive integer.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
