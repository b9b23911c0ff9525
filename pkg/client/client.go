package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Client is a typed consumer of the Prepare-Up backend endpoints. It does
// no retries and no backoff; a non-2xx response surfaces its body text as
// the error message, which callers show in place of the pending reply.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadFile is one file to send to the upload endpoint.
type UploadFile struct {
	Name string
	Data []byte
}

// ChatTurn is one prior transcript entry sent along with a chat message.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) Upload(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return DecodeUpload(body)
}

func (c *Client) Generate(ctx context.Context, sessionID, outputType string, count *int) (string, error) {
	payload := map[string]interface{}{
		"session_id":  sessionID,
		"output_type": outputType,
	}
	if count != nil {
		payload["count"] = *count
	}

	body, err := c.postJSON(ctx, "/api/generate", payload)
	if err != nil {
		return "", err
	}
	return DecodeGenerate(body), nil
}

func (c *Client) Chat(ctx context.Context, sessionID, message string, history []ChatTurn) (string, error) {
	body, err := c.postJSON(ctx, "/api/chat", map[string]interface{}{
		"session_id": sessionID,
		"message":    message,
		"history":    history,
	})
	if err != nil {
		return "", err
	}
	return DecodeChat(body), nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return body, nil
}
