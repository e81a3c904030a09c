package fhir

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tfsalud/fhir-bridge/internal/backend"
)

// WriteError renders any gateway error as an OperationOutcome with the status
// its kind dictates. Non-gateway errors fall through to 500.
func WriteError(c echo.Context, err error) error {
	var be *backend.Error
	if !errors.As(err, &be) {
		return c.JSON(http.StatusInternalServerError, ErrorOutcome(err.Error()))
	}

	switch be.Kind {
	case backend.KindValidation:
		return c.JSON(http.StatusBadRequest, ValidationOutcome(be.Message))
	case backend.KindAuthentication:
		return c.JSON(http.StatusUnauthorized, SecurityOutcome(be.Message))
	case backend.KindNotFound:
		return c.JSON(http.StatusNotFound, NewOperationOutcome("error", "not-found", be.Message))
	case backend.KindMapping:
		return c.JSON(http.StatusInternalServerError, NewOperationOutcome("error", "structure", be.Message))
	default:
		return c.JSON(http.StatusInternalServerError, ErrorOutcome(be.Message))
	}
}
