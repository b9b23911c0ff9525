package extractor

import (
	"strings"
	"unicode/utf8"
)

// Extraction statuses reported per file in the upload response.
const (
	StatusExtracted    = "extracted"
	StatusNeedsOCR     = "needs_ocr"
	StatusFailed       = "extract_failed"
	StatusUploadedOnly = "uploaded"
)

const (
	pdfMime  = "application/pdf"
	docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pptxMime = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

var textExts = []string{
	".txt", ".md", ".csv", ".json", ".log", ".py", ".js", ".ts", ".tsx", ".jsx",
	".html", ".css", ".sql", ".yaml", ".yml",
}

var imageExts = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tiff", ".heic",
}

// ExtractAny picks an extractor by MIME type and filename extension and runs
// it. Unknown binary files are accepted with no text and StatusUploadedOnly.
// Images (screenshots, scans) and PDFs without a text layer come back
// StatusNeedsOCR so the upload can still succeed and be OCR'd later.
func ExtractAny(filename, mime string, data []byte) (status, text string) {
	name := strings.ToLower(filename)

	switch {
	case mime == pdfMime || strings.HasSuffix(name, ".pdf"):
		return extractPDF(data)
	case mime == docxMime || strings.HasSuffix(name, ".docx"):
		return extractDOCX(data)
	case mime == pptxMime || strings.HasSuffix(name, ".pptx"):
		return extractPPTX(data)
	case strings.HasPrefix(mime, "image/") || hasExt(name, imageExts):
		return StatusNeedsOCR, ""
	case strings.HasPrefix(mime, "text/") || hasExt(name, textExts):
		return extractTextLike(data)
	}

	return StatusUploadedOnly, ""
}

func hasExt(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func extractTextLike(data []byte) (string, string) {
	text := strings.TrimSpace(safeDecode(data))
	return StatusExtracted, text
}

// safeDecode returns the bytes as UTF-8, replacing invalid sequences instead
// of failing on odd encodings.
func safeDecode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "�")
}
