package imaging

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers the webp decoder
)

const pngMimeType = "image/png"

var ErrNegativeDimension = errors.New("dimensions must not be negative")

// PNGTransformer scales images with Lanczos resampling and always encodes
// PNG, so its output is deterministic for identical input.
type PNGTransformer struct{}

func NewPNGTransformer() *PNGTransformer {
	return &PNGTransformer{}
}

func (t *PNGTransformer) MimeType() string {
	return pngMimeType
}

func (t *PNGTransformer) Resize(data []byte, width, height int) ([]byte, error) {
	if width < 0 || height < 0 {
		return nil, ErrNegativeDimension
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if width != 0 || height != 0 {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return out.Bytes(), nil
}
