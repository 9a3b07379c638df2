package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/limo-transfers/service-quote/internal/platform/apperror"
)

// Success writes a 200 envelope of the form {"ok": true, <field>: data}.
func Success(c *gin.Context, field string, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, field: data})
}

// Created writes a 201 envelope of the form {"ok": true, <field>: data}.
func Created(c *gin.Context, field string, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, field: data})
}

// Error maps err to an HTTP status and writes the error envelope. Internal
// details are attached to the gin context for the request logger and never
// written to the body.
func Error(c *gin.Context, err error) {
	if apperror.KindOf(err) == apperror.KindInternal {
		_ = c.Error(err)
	}
	status, message := resolve(err)
	c.JSON(status, gin.H{"ok": false, "error": message})
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func resolve(err error) (int, string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal server error"
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		return http.StatusBadRequest, appErr.Message
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized, appErr.Message
	case apperror.KindRateLimited:
		return http.StatusTooManyRequests, appErr.Message
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
