// Package respond centralizes HTTP error rendering so every controller maps
// service errors the same way.
package respond

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/rs/zerolog/log"
)

// Error writes the uniform error body for a service error. 5xx causes are
// logged here and masked from the client outside debug mode.
func Error(c *gin.Context, err error) {
	status := apperror.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	message, details := apperror.Public(err, gin.Mode() != gin.ReleaseMode)
	c.JSON(status, dto.ErrorResponse{Message: message, Details: details})
}

// BindError turns a ShouldBindJSON failure into a 400 with one detail line
// per invalid field.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldMessage(fe))
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: details})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s items or characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s items or characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "difficulty":
		return fmt.Sprintf("%s must be easy, medium or hard", fe.Field())
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}
