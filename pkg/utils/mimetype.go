package utils

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// BaseMimeType drops parameters such as charset from a mime type.
func BaseMimeType(mimeType string) string {
	return strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
}

func IsImage(mimeType string) bool {
	return strings.HasPrefix(BaseMimeType(mimeType), "image/")
}

// ExtensionFor returns the usual file extension of mimeType, or ".bin" when
// the type is unknown.
func ExtensionFor(mimeType string) string {
	m := mimetype.Lookup(BaseMimeType(mimeType))
	if m == nil || m.Extension() == "" {
		return ".bin"
	}

	return m.Extension()
}
