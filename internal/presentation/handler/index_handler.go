package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/frecklefacelabs/golembase-images/internal/application/usecase/abstraction"
	"github.com/frecklefacelabs/golembase-images/internal/presentation"
)

type IndexHandler struct {
	index abstraction.Index
}

func NewIndexHandler(index abstraction.Index) *IndexHandler {
	return &IndexHandler{
		index: index,
	}
}

// HandleThumbnails handles GET /thumbnails requests.
func (h *IndexHandler) HandleThumbnails(c echo.Context) error {
	keys, err := h.index.ListThumbnails(c.Request().Context())
	if err != nil {
		return fail(c, statusOf(err), err)
	}

	return c.JSON(http.StatusOK, keys)
}

// HandleParent handles GET /parent/:thumbid requests.
func (h *IndexHandler) HandleParent(c echo.Context) error {
	thumbID := c.Param(presentation.ThumbIDParam)
	if thumbID == "" {
		return fail(c, http.StatusBadRequest, errors.New("missing thumbnail id"))
	}

	parent, err := h.index.FindParent(c.Request().Context(), thumbID)
	if err != nil {
		return fail(c, statusOf(err), err)
	}

	return c.String(http.StatusOK, parent)
}

// HandleTag handles GET /query/:tag requests.
func (h *IndexHandler) HandleTag(c echo.Context) error {
	tag := c.Param(presentation.TagParam)
	if tag == "" {
		return fail(c, http.StatusBadRequest, errors.New("missing tag"))
	}

	keys, err := h.index.FindByTag(c.Request().Context(), tag)
	if err != nil {
		return fail(c, statusOf(err), err)
	}

	return c.JSON(http.StatusOK, keys)
}

// HandleCustom handles GET /query?key=&value= requests.
func (h *IndexHandler) HandleCustom(c echo.Context) error {
	key := c.QueryParam("key")
	value := c.QueryParam("value")
	if key == "" || value == "" {
		return fail(c, http.StatusBadRequest, errors.New("key and value query parameters are required"))
	}

	keys, err := h.index.FindByCustom(c.Request().Context(), key, value)
	if err != nil {
		return fail(c, statusOf(err), err)
	}

	return c.JSON(http.StatusOK, keys)
}
