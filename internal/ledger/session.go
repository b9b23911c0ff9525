package ledger

import "time"

// OutputType is the study artifact the user asked the backend to generate.
type OutputType string

const (
	OutputPodcast    OutputType = "podcast"
	OutputStudyGuide OutputType = "study_guide"
	OutputNarrative  OutputType = "narrative"
	OutputFlashCard  OutputType = "flash_card"
)

// Uploaded file extraction statuses as reported by the upload endpoint.
const (
	FileStatusExtracted = "extracted"
	FileStatusNeedsOCR  = "needs_ocr"
	FileStatusError     = "error"
	FileStatusUploaded  = "uploaded"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UploadedFile is one file summary attached to a session. The slice on a
// session is replaced wholesale on every upload response, never merged.
type UploadedFile struct {
	Id                  string `json:"id"`
	Name                string `json:"name"`
	Status              string `json:"status"`
	ExtractedTextLength int    `json:"extracted_text_length"`
}

// Message is a single transcript entry. Loading marks a pending assistant
// reply that has not arrived yet.
type Message struct {
	Id      string `json:"id"`
	Role    string `json:"role"`
	Title   string `json:"title,omitempty"`
	Meta    string `json:"meta,omitempty"`
	Text    string `json:"text"`
	Loading bool   `json:"loading,omitempty"`
}

// ChatSession is one logical conversation thread: the uploads it was built
// from, the backend session that holds their extracted text, a chosen output
// type and the chat transcript.
type ChatSession struct {
	Id               string         `json:"id"`
	Title            string         `json:"title"`
	UpdatedAt        time.Time      `json:"updated_at"`
	BackendSessionId string         `json:"backend_session_id,omitempty"`
	UploadedFiles    []UploadedFile `json:"uploaded_files"`
	CombinedTextLen  int            `json:"combined_text_length"`
	SelectedOutput   OutputType     `json:"selected_output,omitempty"`
	Messages         []Message      `json:"messages"`
}

// Patch is a partial session record. Nil pointer/slice fields are "absent":
// they leave the target field untouched on merge. Non-nil slices replace the
// whole field.
type Patch struct {
	Title            *string
	BackendSessionId *string
	UploadedFiles    []UploadedFile
	CombinedTextLen  *int
	SelectedOutput   *OutputType
	Messages         []Message
}

// View carries the caller's currently-displayed state. When a patch triggers
// session creation, fields the patch does not carry are taken from here.
type View struct {
	BackendSessionId string
	UploadedFiles    []UploadedFile
	CombinedTextLen  int
	SelectedOutput   OutputType
	Messages         []Message
}

func strptr(s string) *string { return &s }

// TitlePatch is a convenience for patches that only set the title.
func TitlePatch(title string) Patch {
	return Patch{Title: strptr(title)}
}
