package api

import (
	"log"
	"net/http"

	"anaviz/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error code to the HTTP status returned to clients
func statusFor(code string) int {
	switch code {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeUnsupportedFile:
		return http.StatusBadRequest
	case errors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	}

	c.JSON(status, gin.H{"error": message, "code": code})
}
