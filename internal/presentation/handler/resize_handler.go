package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/labstack/echo/v4"

	"github.com/frecklefacelabs/golembase-images/internal/application/usecase"
	"github.com/frecklefacelabs/golembase-images/internal/application/usecase/abstraction"
	"github.com/frecklefacelabs/golembase-images/internal/presentation"
)

type ResizeHandler struct {
	resizer abstraction.Resizer
}

func NewResizeHandler(resizer abstraction.Resizer) *ResizeHandler {
	return &ResizeHandler{
		resizer: resizer,
	}
}

type resizeRequest struct {
	Width  *int `json:"width" form:"width" query:"width"`
	Height *int `json:"height" form:"height" query:"height"`
}

// Handle handles POST /add-resize/:id requests. Dimensions are optional and
// come from a JSON or form body or from query values.
func (h *ResizeHandler) Handle(c echo.Context) error {
	req, err := bindResize(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}

	derived, err := h.resizer.Resize(c.Request().Context(), c.Param(presentation.IDParam), req.Width, req.Height)
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			logger.Error("failed to resize image", "id", c.Param(presentation.IDParam), "err", err)
		}

		return fail(c, status, err)
	}

	return c.Blob(http.StatusOK, derived.MimeType, derived.Data)
}

// bindResize reads optional dimensions from the query string and then from
// a JSON or form body, the body taking precedence. An empty body leaves both
// unset.
func bindResize(c echo.Context) (resizeRequest, error) {
	var req resizeRequest

	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return req, fmt.Errorf("%w: %v", usecase.ErrInvalidDimensions, bindMessage(err))
	}

	if err := c.Bind(&req); err != nil {
		return req, fmt.Errorf("%w: %v", usecase.ErrInvalidDimensions, bindMessage(err))
	}

	return req, nil
}

func bindMessage(err error) any {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}

	return err
}
