package server

import "github.com/Ayush10/cal-chatbot/chat"

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type verificationRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	History []string `json:"history"`
}

type searchResponse struct {
	Matches []string `json:"matches"`
}

type uploadResponse struct {
	Name     string `json:"name"`
	MimeType string `json:"type"`
	URL      string `json:"url"`
}
