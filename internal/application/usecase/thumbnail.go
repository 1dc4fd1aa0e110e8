package usecase

import (
	"fmt"

	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/imaging"
)

type ThumbnailConfig struct {
	Width int `yaml:"width"`
}

// Derived is an image produced from a stored object.
type Derived struct {
	Data     []byte
	MimeType string
}

// ThumbnailBuilder scales an upload to the configured width, deriving the
// height from the aspect ratio.
type ThumbnailBuilder struct {
	transformer imaging.Transformer
	width       int
}

func NewThumbnailBuilder(transformer imaging.Transformer, cfg ThumbnailConfig) *ThumbnailBuilder {
	return &ThumbnailBuilder{
		transformer: transformer,
		width:       cfg.Width,
	}
}

func (b *ThumbnailBuilder) Build(blob []byte) (Derived, error) {
	data, err := b.transformer.Resize(blob, b.width, 0)
	if err != nil {
		return Derived{}, fmt.Errorf("%w: %w", ErrThumbnail, err)
	}

	return Derived{
		Data:     data,
		MimeType: b.transformer.MimeType(),
	}, nil
}
