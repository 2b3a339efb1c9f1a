package domain

// Media - stored file owned by the media subsystem
type Media struct {
	ID       string `json:"id" db:"id"`
	FilePath string `json:"filePath" db:"file_path"`
	FileName string `json:"fileName" db:"file_name"`
	MimeType string `json:"mimeType" db:"mime_type"`
}

// PrimaryMediaRecord - primary media joined to the entity it illustrates
type PrimaryMediaRecord struct {
	EntityID string `db:"entity_id"`
	Media
}

// PrimaryMedia - hydrated media attached to a listing row
type PrimaryMedia struct {
	MediaID  string `json:"mediaId"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

// PresignItem - one object to sign
type PresignItem struct {
	ID       string
	FilePath string
	FileName string
}

// PresignResult - signed URL for the item at the same index; Err set when signing failed
type PresignResult struct {
	ID  string
	URL string
	Err error
}
