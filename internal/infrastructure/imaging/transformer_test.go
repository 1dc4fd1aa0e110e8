package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func TestResize(t *testing.T) {
	t.Parallel()

	src := encodePNG(t, 400, 200)
	tr := NewPNGTransformer()

	tests := []struct {
		name           string
		width, height  int
		expectedWidth  int
		expectedHeight int
	}{
		{name: "width only keeps aspect", width: 100, expectedWidth: 100, expectedHeight: 50},
		{name: "height only keeps aspect", height: 50, expectedWidth: 100, expectedHeight: 50},
		{name: "both stretch", width: 30, height: 90, expectedWidth: 30, expectedHeight: 90},
		{name: "neither keeps size", expectedWidth: 400, expectedHeight: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := tr.Resize(src, tt.width, tt.height)
			require.NoError(t, err)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, tt.expectedWidth, cfg.Width)
			assert.Equal(t, tt.expectedHeight, cfg.Height)
		})
	}
}

func TestResizeJPEGInputIsDeterministic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48)), nil))

	tr := NewPNGTransformer()
	first, err := tr.Resize(buf.Bytes(), 32, 0)
	require.NoError(t, err)
	second, err := tr.Resize(buf.Bytes(), 32, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "image/png", tr.MimeType())
}

func TestResizeErrors(t *testing.T) {
	t.Parallel()

	tr := NewPNGTransformer()

	_, err := tr.Resize([]byte("not an image"), 10, 0)
	assert.ErrorContains(t, err, "decode image")

	_, err = tr.Resize(encodePNG(t, 4, 4), -1, 0)
	assert.ErrorIs(t, err, ErrNegativeDimension)
}
