package constant

// Upload limits.
const (
	MaxFiles        = 20
	MaxBytesPerFile = 25 * 1024 * 1024 // 25MB
	PreviewLen      = 800
)

// Corpus and chat shaping.
const (
	CorpusCap         = 60_000 // keep prompt sizes sane, no chunking yet
	HistoryLimit      = 12     // most recent turns forwarded to the model
	DefaultFlashcards = 20
	MinFlashcards     = 5
	MaxFlashcards     = 50
)

// Output types, matching the frontend keys exactly.
const (
	OutputFlashCard  = "flash_card"
	OutputStudyGuide = "study_guide"
	OutputPodcast    = "podcast"
	OutputNarrative  = "narrative"
)

func IsValidOutputType(t string) bool {
	switch t {
	case OutputFlashCard, OutputStudyGuide, OutputPodcast, OutputNarrative:
		return true
	}
	return false
}
