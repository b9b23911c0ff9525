package dto

type GenerateRequest struct {
	SessionId  string `json:"session_id" validate:"required"`
	OutputType string `json:"output_type" validate:"required,oneof=flash_card study_guide podcast narrative"`
	// Only used for flashcards; ignored otherwise.
	Count *int `json:"count,omitempty" validate:"omitempty,min=5,max=50"`
}

// Structured payloads the model must return, one shape per output type.

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardsPayload struct {
	Type  string      `json:"type"`
	Cards []Flashcard `json:"cards"`
}

type PodcastTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type PodcastPayload struct {
	Type     string        `json:"type"`
	Speakers []string      `json:"speakers"`
	Script   []PodcastTurn `json:"script"`
}

type TextPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
