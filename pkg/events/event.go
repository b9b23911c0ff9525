package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "UPLOAD_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the single concrete implementation used across the service.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Domain event constructors. Consumers outside this process (analytics,
// future OCR workers) subscribe to these subjects on the bus.

func UploadCompleted(sessionId string, fileCount, textLen int) Event {
	return BaseEvent{
		Type: "UPLOAD_COMPLETED",
		Data: map[string]interface{}{
			"session_id": sessionId,
			"file_count": fileCount,
			"text_len":   textLen,
		},
		OccurredAt: time.Now(),
	}
}

func GenerationCompleted(sessionId, outputType string) Event {
	return BaseEvent{
		Type: "GENERATION_COMPLETED",
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"output_type": outputType,
		},
		OccurredAt: time.Now(),
	}
}

func ChatExchanged(sessionId string, historyLen int) Event {
	return BaseEvent{
		Type: "CHAT_EXCHANGED",
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"history_len": historyLen,
		},
		OccurredAt: time.Now(),
	}
}

func UserLoggedIn(userId, provider string) Event {
	return BaseEvent{
		Type: "USER_LOGGED_IN",
		Data: map[string]interface{}{
			"user_id":  userId,
			"provider": provider,
		},
		OccurredAt: time.Now(),
	}
}
