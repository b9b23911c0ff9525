package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UploadFileSummary is the normalized per-file entry of an upload response.
type UploadFileSummary struct {
	Name                string
	Status              string
	ExtractedTextLength int
}

// UploadResult is what every historical upload response shape normalizes
// to. SessionID is empty for legacy shapes that never carried one.
type UploadResult struct {
	SessionID          string
	Files              []UploadFileSummary
	CombinedTextLength int
}

// DecodeUpload normalizes an upload response body. The backend has shipped
// snake_case, camelCase and a legacy shape without a session id; decoding
// is order-of-preference based instead of failing on the first mismatch.
func DecodeUpload(body []byte) (*UploadResult, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("upload response is not a JSON object: %w", err)
	}

	res := &UploadResult{
		SessionID: firstString(raw, "session_id", "sessionId"),
	}

	if filesRaw, ok := raw["files"]; ok {
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(filesRaw, &items); err == nil {
			for _, item := range items {
				res.Files = append(res.Files, UploadFileSummary{
					Name:                firstString(item, "name", "filename"),
					Status:              firstString(item, "status"),
					ExtractedTextLength: firstInt(item, "text_len", "textLen", "extracted_text_length", "extractedTextLength"),
				})
			}
		}
	}

	// Prefer explicit length fields; fall back to measuring whatever text
	// the response carried.
	if n, ok := lookupInt(raw, "combined_text_length", "combinedTextLength", "preview_len", "previewLen", "text_len", "textLen"); ok {
		res.CombinedTextLength = n
	} else if s := firstString(raw, "text", "preview"); s != "" {
		res.CombinedTextLength = len(s)
	}

	return res, nil
}

// DecodeGenerate flattens a generation response to a display string: plain
// text payloads pass through, card lists render as a numbered list with
// indented backs, anything unrecognized falls back to its raw serialization.
func DecodeGenerate(body []byte) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return strings.TrimSpace(string(body))
	}

	if text := firstString(raw, "text"); text != "" {
		return text
	}

	if cardsRaw, ok := raw["cards"]; ok {
		var cards []struct {
			Front string `json:"front"`
			Back  string `json:"back"`
		}
		if err := json.Unmarshal(cardsRaw, &cards); err == nil && len(cards) > 0 {
			var b strings.Builder
			for i, c := range cards {
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "%d. %s\n   %s", i+1, c.Front, c.Back)
			}
			return b.String()
		}
	}

	return strings.TrimSpace(string(body))
}

// DecodeChat pulls the assistant reply out of whichever field the backend
// used, falling back to the raw body.
func DecodeChat(body []byte) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return strings.TrimSpace(string(body))
	}

	if s := firstString(raw, "answer", "reply", "response", "message", "text"); s != "" {
		return s
	}
	return strings.TrimSpace(string(body))
}

func firstString(m map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstInt(m map[string]json.RawMessage, keys ...string) int {
	n, _ := lookupInt(m, keys...)
	return n
}

func lookupInt(m map[string]json.RawMessage, keys ...string) (int, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			var n int
			if err := json.Unmarshal(v, &n); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
