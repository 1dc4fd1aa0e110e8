package dto

type UploadResponse struct {
	Message      string `json:"message"`
	OriginalSize int    `json:"originalSize"`
	ResizedSize  int    `json:"resizedSize"`
	Tags         string `json:"tags"`
	EntityKey    string `json:"entity_key"`
}
