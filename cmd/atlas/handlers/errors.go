package handlers

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/service"
	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/models"
)

// respondError maps service errors to HTTP responses.
// Anything that is not a caller mistake came from GitHub and is reported as 502.
func respondError(c echo.Context, log *logger.Logger, msg string, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verrs,
		})
	case errors.Is(err, service.ErrNotEndpoint):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.WithContext(c.Request().Context()).Error(msg, "error", err)
	return c.JSON(http.StatusBadGateway, map[string]interface{}{
		"error":   msg,
		"details": err.Error(),
	})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error": msg,
	})
}
