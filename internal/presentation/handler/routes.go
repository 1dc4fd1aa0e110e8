package handler

import "github.com/labstack/echo/v4"

type Handlers struct {
	Image  *ImageHandler
	Index  *IndexHandler
	Upload *UploadHandler
	Resize *ResizeHandler
}

func Register(e *echo.Echo, h Handlers) {
	e.GET("/", HandleHome)
	e.GET("/health", HandleHealth)
	e.GET("/image/:id", h.Image.HandleGet)
	e.GET("/thumbnails", h.Index.HandleThumbnails)
	e.GET("/parent/:thumbid", h.Index.HandleParent)
	e.GET("/query/:tag", h.Index.HandleTag)
	e.GET("/query", h.Index.HandleCustom)
	e.POST("/upload", h.Upload.Handle)
	e.POST("/add-resize/:id", h.Resize.Handle)
}
