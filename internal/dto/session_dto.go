package dto

import "prepareup-be/internal/ledger"

// ThreadListResponse is one page of the recency list.
type ThreadListResponse struct {
	Threads []ledger.ThreadSummary `json:"threads"`
	Query   string                 `json:"query,omitempty"`
	Reveals int                    `json:"reveals"`
}

// OpenThreadResponse returns the full session so the client can restore its
// view state from it.
type OpenThreadResponse struct {
	Session *ledger.ChatSession `json:"session"`
}
