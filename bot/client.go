// Package bot is the HTTP client for the remote conversational
// backend. The backend is opaque: it receives the sanitized message
// history and returns a single assistant reply.
package bot

import (
	"context"
	"net/http"

	"github.com/Ayush10/cal-chatbot/chat"
)

type Client struct {
	apiURL     string
	httpClient *http.Client
}

func NewClient(apiURL string, httpClient http.Client) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &httpClient,
	}
}

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

// SendChat posts the message history and returns the assistant reply
// text. Any transport failure or non-2xx status is returned as an
// error; the caller substitutes its own user-visible fallback.
func (c *Client) SendChat(ctx context.Context, messages []chat.Message) (string, error) {
	respBody, err := c.sendRequest(ctx, http.MethodPost, c.apiURL, chatRequest{Messages: messages})
	if err != nil {
		return "", err
	}
	return extractReply(respBody), nil
}
