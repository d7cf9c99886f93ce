package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func respondOK(c *gin.Context, payload any) {
	respondJSON(c, http.StatusOK, payload)
}

// respondError logs the failure and aborts with the standardized body.
func respondError(c *gin.Context, log *zap.Logger, status int, code, message string) {
	if log != nil {
		log.Warn("request failed",
			zap.Int("status", status),
			zap.String("code", code),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("request_id", requestIDFromContext(c)),
		)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	})
}
