package store

import "time"

// Corpus TTL mirrors the upload contract: extracted text is kept for 30
// minutes, then the session id dangles and callers get a 404.
const (
	CorpusTTL         = 30 * time.Minute
	CorpusSweepPeriod = 10 * time.Minute
)

// Corpus is the extracted-text payload behind one backend session id. It is
// written once by the upload flow and read by generate/chat until it expires.
type Corpus struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	FileNames []string  `json:"file_names"`
	NeedsOCR  bool      `json:"needs_ocr"`
	CreatedAt time.Time `json:"created_at"`
}
