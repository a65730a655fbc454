package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/logger"
	"teamdesk/internal/middleware"
)

// Envelope is the uniform response shape.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: true, Message: message})
}

func respondError(c *gin.Context, err error) {
	status := apperrors.Status(err)
	env := Envelope{Success: false, Error: err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		env.Error = appErr.Message
		env.Code = appErr.Code
	}
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
		env.Error = "internal server error"
	}
	c.JSON(status, env)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: err.Error(), Code: "VALIDATION"})
}

// currentUserID reads the authenticated user id the JWT middleware put in
// the context. Identity comes only from the token, never from the body.
func currentUserID(c *gin.Context) int64 {
	v, _ := c.Get(middleware.CtxUserID)
	id, _ := v.(int64)
	return id
}

func paramInt64(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return id, nil
}
