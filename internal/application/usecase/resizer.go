package usecase

import (
	"context"
	"fmt"

	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/imaging"
)

// Resizer produces scaled copies of stored objects. Results are returned
// to the caller and never written back.
type Resizer struct {
	reader      *Reader
	transformer imaging.Transformer
}

func NewResizer(reader *Reader, transformer imaging.Transformer) *Resizer {
	return &Resizer{
		reader:      reader,
		transformer: transformer,
	}
}

// Resize scales the object at rootKey. A nil dimension follows the aspect
// ratio of the other one; when both are nil the image is re-encoded at its
// original size.
func (r *Resizer) Resize(ctx context.Context, rootKey string, width, height *int) (Derived, error) {
	w, err := dimension(width)
	if err != nil {
		return Derived{}, err
	}
	h, err := dimension(height)
	if err != nil {
		return Derived{}, err
	}

	obj, err := r.reader.Read(ctx, rootKey)
	if err != nil {
		return Derived{}, err
	}

	data, err := r.transformer.Resize(obj.Data, w, h)
	if err != nil {
		return Derived{}, fmt.Errorf("resize %s: %w", obj.Key, err)
	}

	return Derived{
		Data:     data,
		MimeType: r.transformer.MimeType(),
	}, nil
}

func dimension(v *int) (int, error) {
	if v == nil {
		return 0, nil
	}
	if *v <= 0 {
		return 0, ErrInvalidDimensions
	}

	return *v, nil
}
