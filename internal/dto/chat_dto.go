package dto

// ChatTurn mirrors the frontend's transcript roles: "user" and "ai".
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user ai"`
	Content string `json:"content" validate:"required,max=10000"`
}

type ChatRequest struct {
	SessionId string     `json:"session_id" validate:"required"`
	Message   string     `json:"message" validate:"required,max=10000"`
	History   []ChatTurn `json:"history,omitempty" validate:"omitempty,dive"`
}

type ChatResponse struct {
	Type   string `json:"type"`
	Answer string `json:"answer"`
}
