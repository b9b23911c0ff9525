package extractor

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF pulls the text layer out of a PDF page by page. A parseable PDF
// with no text layer (scan, photo export) is reported as needs_ocr rather
// than failed, so the upload can still go through.
func extractPDF(data []byte) (string, string) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return StatusFailed, ""
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		content = strings.TrimSpace(content)
		if content != "" {
			parts = append(parts, content)
		}
	}

	text := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if text == "" {
		return StatusNeedsOCR, ""
	}
	return StatusExtracted, text
}
