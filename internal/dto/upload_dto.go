package dto

// UploadFileResult is the per-file summary in the upload response.
type UploadFileResult struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Mime    string `json:"mime"`
	Size    int64  `json:"size"`
	Status  string `json:"status"`
	TextLen int    `json:"text_len"`
}

type UploadResponse struct {
	SessionId  string             `json:"session_id"`
	Files      []UploadFileResult `json:"files"`
	Preview    string             `json:"preview"`
	PreviewLen int                `json:"preview_len"`
	TTLSeconds int                `json:"ttl_seconds"`
}
