package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HTTPErrorHandler maps errors escaping a handler onto the taxonomy.
// Operational errors reach the client with their message; anything
// unclassified is logged and answered with a generic 500.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "something went wrong"

		var appErr *Error
		var httpErr *echo.HTTPError
		var validationErrs validator.ValidationErrors

		switch {
		case errors.As(err, &appErr):
			status = appErr.Status()
			message = appErr.Message
		case errors.As(err, &validationErrs):
			fields := make([]string, len(validationErrs))
			for i, fe := range validationErrs {
				fields[i] = fe.Field() + ":" + fe.Tag()
			}
			status = http.StatusBadRequest
			message = "invalid input: " + strings.Join(fields, ",")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			status = http.StatusConflict
			message = "resource already exists"
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "resource not found"
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			status = http.StatusNotFound
			message = "referenced resource not found"
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		default:
			logger.Error("unhandled error",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}

		if err := c.JSON(status, echo.Map{"message": message}); err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
