package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/frecklefacelabs/golembase-images/internal/application/usecase"
	"github.com/frecklefacelabs/golembase-images/internal/application/usecase/abstraction"
	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/presentation"
)

type UploadHandler struct {
	uploader abstraction.Uploader
}

func NewUploadHandler(uploader abstraction.Uploader) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
	}
}

// Handle handles multipart POST /upload requests.
func (h *UploadHandler) Handle(c echo.Context) error {
	file, err := c.FormFile(presentation.ImageFileForm)
	if err != nil {
		return fail(c, http.StatusBadRequest, usecase.ErrNoFile)
	}

	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}

	var custom []model.Custom
	for i := 1; i <= model.MaxCustomAnnotations; i++ {
		key := strings.TrimSpace(c.FormValue(fmt.Sprintf("%s%d", presentation.CustomKeyForm, i)))
		value := c.FormValue(fmt.Sprintf("%s%d", presentation.CustomValForm, i))
		if key == "" || value == "" {
			continue
		}
		custom = append(custom, model.NewCustom(key, value))
	}

	resp, status, err := h.uploader.Upload(c.Request().Context(), usecase.UploadRequest{
		Data:             data,
		OriginalFilename: file.Filename,
		Filename:         c.FormValue(presentation.FilenameForm),
		Tags:             c.FormValue(presentation.TagsForm),
		Custom:           custom,
	})
	if err != nil {
		return fail(c, status, err)
	}

	return c.JSON(status, resp)
}
