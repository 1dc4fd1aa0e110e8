package imaging

// Transformer decodes an image, scales it and re-encodes the result.
// A zero width or height is derived from the other side's aspect ratio;
// both zero keeps the original dimensions.
type Transformer interface {
	Resize(data []byte, width, height int) ([]byte, error)
	MimeType() string
}
