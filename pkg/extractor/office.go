package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DOCX and PPTX are zip archives of XML parts. The relevant text lives in
// <w:t> runs (Word) and <a:t> runs (PowerPoint); a token walk is enough, no
// full OOXML schema needed.

func extractDOCX(data []byte) (string, string) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return StatusFailed, ""
	}

	doc := findZipEntry(zr, "word/document.xml")
	if doc == nil {
		return StatusFailed, ""
	}

	paragraphs, err := collectRuns(doc, "t", "p")
	if err != nil {
		return StatusFailed, ""
	}

	text := strings.TrimSpace(strings.Join(paragraphs, "\n"))
	return StatusExtracted, text
}

func extractPPTX(data []byte) (string, string) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return StatusFailed, ""
	}

	// Slide parts are ppt/slides/slide1.xml, slide2.xml, ... in archive order,
	// which is not guaranteed to be numeric order.
	var slides []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i].Name) < slideNumber(slides[j].Name)
	})

	var parts []string
	for i, f := range slides {
		rc, err := f.Open()
		if err != nil {
			continue
		}
		runs, err := collectRuns(rc, "t", "p")
		rc.Close()
		if err != nil {
			continue
		}
		if len(runs) > 0 {
			parts = append(parts, fmt.Sprintf("[Slide %d]\n%s", i+1, strings.Join(runs, "\n")))
		}
	}

	text := strings.TrimSpace(strings.Join(parts, "\n\n"))
	return StatusExtracted, text
}

func findZipEntry(zr *zip.Reader, name string) io.Reader {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			return rc
		}
	}
	return nil
}

func slideNumber(name string) int {
	digits := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// collectRuns walks the XML token stream, concatenating character data found
// inside runElem ("t") and starting a new chunk at every paragraph boundary
// (paraElem). Element names are matched by local name, namespaces ignored.
func collectRuns(r io.Reader, runElem, paraElem string) ([]string, error) {
	dec := xml.NewDecoder(r)

	var chunks []string
	var current strings.Builder
	inRun := false

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == runElem {
				inRun = true
			}
		case xml.EndElement:
			if t.Name.Local == runElem {
				inRun = false
			}
			if t.Name.Local == paraElem {
				flush()
			}
		case xml.CharData:
			if inRun {
				current.Write(t)
			}
		}
	}
	flush()

	return chunks, nil
}
