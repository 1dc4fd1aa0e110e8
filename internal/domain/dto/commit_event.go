package dto

// CommitEvent is published once every entity of an object has been written.
type CommitEvent struct {
	RootKey      string `json:"root_key"`
	ThumbnailKey string `json:"thumbnail_key"`
	PartOf       uint64 `json:"part_of"`
	Size         int    `json:"size"`
	ContentHash  string `json:"content_hash"`
	CommittedAt  int64  `json:"committed_at"`
}
