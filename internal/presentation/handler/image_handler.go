package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/labstack/echo/v4"

	"github.com/frecklefacelabs/golembase-images/internal/application/usecase/abstraction"
	"github.com/frecklefacelabs/golembase-images/internal/presentation"
)

type ImageHandler struct {
	reader abstraction.Reader
}

func NewImageHandler(reader abstraction.Reader) *ImageHandler {
	return &ImageHandler{
		reader: reader,
	}
}

// HandleGet handles GET /image/:id requests.
func (h *ImageHandler) HandleGet(c echo.Context) error {
	id := c.Param(presentation.IDParam)
	if id == "" {
		return fail(c, http.StatusBadRequest, errors.New("missing image id"))
	}

	obj, err := h.reader.Read(c.Request().Context(), id)
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			logger.Error("failed to read image", "id", id, "err", err)
		}

		return fail(c, status, err)
	}

	mimeType := obj.MimeType
	if mimeType == "" {
		mimeType = echo.MIMEOctetStream
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", obj.Filename))

	return c.Blob(http.StatusOK, mimeType, obj.Data)
}
