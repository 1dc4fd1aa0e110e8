package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/frecklefacelabs/golembase-images/pkg/query"
)

// Annotation keys written on every entity of a stored object.
const (
	FieldType        query.Field = "type"
	FieldApp         query.Field = "app"
	FieldFilename    query.Field = "filename"
	FieldMimeType    query.Field = "mime-type"
	FieldParent      query.Field = "parent"
	FieldPart        query.Field = "part"
	FieldPartOf      query.Field = "part-of"
	FieldTag         query.Field = "key"
	FieldContentHash query.Field = "content-hash"
	FieldSize        query.Field = "size"
)

// Values of the type annotation.
const (
	TypeImage     = "image"
	TypeChunk     = "image_chunk"
	TypeThumbnail = "thumbnail"
)

const (
	DefaultAppID         = "golem-images-0.1"
	DefaultFilename      = "image"
	ThumbnailPrefix      = "thumb_"
	MaxCustomAnnotations = 3
)

// Object is a fully reconstructed upload.
type Object struct {
	Key      string
	Data     []byte
	Filename string
	MimeType string
	PartOf   uint64
}

// MaxNumericValue is the largest numeric annotation every entity store
// backend can index.
const MaxNumericValue = math.MaxInt64

// Custom is a user supplied annotation. Values that parse as unsigned
// integers up to MaxNumericValue are stored as numeric annotations,
// everything else as strings.
type Custom struct {
	Key     string
	Value   string
	Numeric bool
	Number  uint64
}

func NewCustom(key, value string) Custom {
	c := Custom{Key: key, Value: value}
	if n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64); err == nil && n <= MaxNumericValue {
		c.Numeric = true
		c.Number = n
	}

	return c
}

// ParseTags splits a comma separated tag list, trimming blanks and
// dropping empty entries.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// NormalizeKey adds the 0x prefix entity keys carry when a caller omitted it.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "0x") {
		return key
	}

	return "0x" + key
}
