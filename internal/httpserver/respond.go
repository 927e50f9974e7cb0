package httpserver

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront/internal/domain"
	"storefront/internal/shopify"
)

// writeBindError answers a request body that failed to bind. Validation
// failures list each offending field.
func writeBindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": details})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// writeUserErrors answers with the first user error's message.
func writeUserErrors(c *gin.Context, errs []domain.UserError) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errs[0].Message, "errors": errs})
}

// writeUpstreamError answers a failed platform call with 500, exposing the
// platform's message when there is one.
func writeUpstreamError(c *gin.Context, logger *log.Logger, err error, fallback string) {
	msg := fallback
	if se, ok := shopify.AsError(err); ok {
		logger.Printf("%s: %s (cause=%s status=%d)", fallback, se.Message, se.Cause, se.Status)
		if se.Message != "" {
			msg = se.Message
		}
	} else {
		logger.Printf("%s: %v", fallback, err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
