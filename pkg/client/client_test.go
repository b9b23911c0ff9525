package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientUploadRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Len(t, r.MultipartForm.File["files"], 2)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"session_id": "s1", "files": [{"name": "a.txt", "status": "extracted", "text_len": 3}], "preview": "abc", "preview_len": 3}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Upload(context.Background(), []UploadFile{
		{Name: "a.txt", Data: []byte("abc")},
		{Name: "b.txt", Data: []byte("def")},
	})
	assert.NoError(t, err)
	assert.Equal(t, "s1", res.SessionID)
	assert.Equal(t, 3, res.CombinedTextLength)
}

func TestClientErrorSurfacesBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Session not found or expired."))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Generate(context.Background(), "gone", "study_guide", nil)
	assert.Error(t, err)
	assert.Equal(t, "Session not found or expired.", err.Error())
}

func TestClientChatSendsHistoryAndDecodesAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"type": "chat", "answer": "From the documents: yes."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	answer, err := c.Chat(context.Background(), "s1", "is it?", []ChatTurn{
		{Role: "user", Content: "earlier question"},
		{Role: "ai", Content: "earlier answer"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "From the documents: yes.", answer)
}

func TestClientGenerateRendersCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "flash_card", "cards": [{"front": "F", "back": "B"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	out, err := c.Generate(context.Background(), "s1", "flash_card", nil)
	assert.NoError(t, err)
	assert.Equal(t, "1. F\n   B", out)
}
