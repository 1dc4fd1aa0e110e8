package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/gabriel-vasile/mimetype"

	"github.com/frecklefacelabs/golembase-images/internal/domain/dto"
	"github.com/frecklefacelabs/golembase-images/internal/domain/model"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/broker"
	"github.com/frecklefacelabs/golembase-images/pkg/utils"
)

type UploadRequest struct {
	Data             []byte
	OriginalFilename string
	Filename         string
	Tags             string
	Custom           []model.Custom
}

type Uploader struct {
	writer    *Writer
	publisher broker.Publisher
}

// NewUploader builds an Uploader. publisher may be nil, in which case no
// commit events are emitted.
func NewUploader(writer *Writer, publisher broker.Publisher) *Uploader {
	return &Uploader{
		writer:    writer,
		publisher: publisher,
	}
}

func (u *Uploader) Upload(ctx context.Context, req UploadRequest) (dto.UploadResponse, int, error) {
	if len(req.Data) == 0 {
		return dto.UploadResponse{}, http.StatusBadRequest, ErrNoFile
	}

	tags := model.ParseTags(req.Tags)
	if len(tags) == 0 {
		return dto.UploadResponse{}, http.StatusBadRequest, ErrMissingTags
	}

	mime := utils.BaseMimeType(mimetype.Detect(req.Data).String())
	if !utils.IsImage(mime) {
		return dto.UploadResponse{}, http.StatusBadRequest, ErrUnsupportedType
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = strings.TrimSpace(req.OriginalFilename)
	}
	if filename == "" {
		filename = model.DefaultFilename + utils.ExtensionFor(mime)
	}

	result, err := u.writer.Write(ctx, WriteRequest{
		Blob:     req.Data,
		Filename: filename,
		MimeType: mime,
		Tags:     tags,
		Custom:   req.Custom,
	})
	if err != nil {
		var partial *PartialWriteError
		if errors.As(err, &partial) {
			logger.Error("object left partially written", "root", partial.RootKey,
				"stage", partial.Stage, "committed", partial.CommittedParts, "part_of", partial.PartOf, "err", partial.Err)

			return dto.UploadResponse{}, http.StatusInternalServerError, err
		}

		if isValidation(err) {
			return dto.UploadResponse{}, http.StatusBadRequest, err
		}

		logger.Error("failed to store object", "err", err)

		return dto.UploadResponse{}, http.StatusInternalServerError, err
	}

	logger.Info("object stored", "root", result.Root.Key, "part_of", result.Root.PartOf,
		"size", result.Size, "thumbnail", result.Thumbnail.Key)

	u.publish(ctx, result)

	return dto.UploadResponse{
		Message:      "File processed successfully!",
		OriginalSize: len(req.Data),
		ResizedSize:  result.Thumbnail.Size,
		Tags:         strings.Join(tags, ","),
		EntityKey:    result.Root.Key,
	}, http.StatusOK, nil
}

// publish announces a completed object. Failures are only logged.
func (u *Uploader) publish(ctx context.Context, result WriteResult) {
	if u.publisher == nil {
		return
	}

	err := u.publisher.Publish(ctx, dto.CommitEvent{
		RootKey:      result.Root.Key,
		ThumbnailKey: result.Thumbnail.Key,
		PartOf:       result.Root.PartOf,
		Size:         result.Size,
		ContentHash:  result.ContentHash,
		CommittedAt:  time.Now().Unix(),
	})
	if err != nil {
		logger.Error("failed to publish commit event", "root", result.Root.Key, "err", err)
	}
}

func isValidation(err error) bool {
	for _, target := range []error{
		ErrTooManyCustom, ErrReservedAnnotation, ErrInvalidAnnotationKey, ErrThumbnail,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
