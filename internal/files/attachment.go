package files

import "time"

// Attachment describes an uploaded file referenced by baskets, leave
// requests and HR questions. Stored inline as part of jsonb collections.
type Attachment struct {
	OriginalName string    `json:"originalName"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
