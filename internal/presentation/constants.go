package presentation

const (
	ReasonTag     = "X-Reason"
	TypeKey       = "Content-Type"
	IDParam       = "id"
	ThumbIDParam  = "thumbid"
	TagParam      = "tag"
	ImageFileForm = "imageFile"
	FilenameForm  = "filename"
	TagsForm      = "tags"
	CustomKeyForm = "custom_key"
	CustomValForm = "custom_value"
)
