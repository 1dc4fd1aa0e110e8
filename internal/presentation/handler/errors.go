package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/frecklefacelabs/golembase-images/internal/application/usecase"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
	"github.com/frecklefacelabs/golembase-images/internal/presentation"
	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

func statusOf(err error) int {
	var reconstruction *usecase.ReconstructionError
	var syntax *query.SyntaxError

	switch {
	case errors.As(err, &reconstruction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entitystore.ErrNotFound),
		errors.Is(err, usecase.ErrParentNotFound),
		errors.Is(err, usecase.ErrNotAnImage):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidDimensions),
		errors.Is(err, usecase.ErrInvalidAnnotationKey),
		errors.As(err, &syntax):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail reports err with the given status, carrying the message both in the
// X-Reason header and the body.
func fail(c echo.Context, status int, err error) error {
	c.Response().Header().Set(presentation.ReasonTag, err.Error())

	return c.String(status, err.Error())
}
