package server

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ayush10/cal-chatbot/auth"
)

const conversationIDHeader = "X-Conversation-Id"

func (s *Server) chatHandler(c fiber.Ctx) error {
	var req chatRequest
	if err := c.Bind().JSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing chat request")
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid request body"})
	}
	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "messages is required"})
	}

	conversationID := c.Get(conversationIDHeader)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	// The read flag is client-side state and never reaches the backend.
	for i := range req.Messages {
		req.Messages[i].Read = false
	}

	reply, err := s.bot.SendChat(c.Context(), req.Messages)
	if err != nil {
		log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("Backend chat request failed")
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Error: "Failed to process chat request"})
	}

	last := req.Messages[len(req.Messages)-1]
	if err := s.history.Append(conversationID, string(last.Role), last.Content); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID).Msg("Error appending user transcript line")
	}
	if err := s.history.Append(conversationID, "assistant", reply); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID).Msg("Error appending assistant transcript line")
	}

	c.Set(conversationIDHeader, conversationID)
	return c.JSON(chatResponse{Response: reply})
}

func (s *Server) healthHandler(c fiber.Ctx) error {
	return c.JSON(map[string]string{"status": "ok"})
}

func (s *Server) searchHistoryHandler(c fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Missing search term."})
	}
	matches, err := s.history.Search(term)
	if err != nil {
		log.Error().Err(err).Msg("History search failed")
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Search failed."})
	}
	return c.JSON(searchResponse{Matches: matches})
}

func (s *Server) loadHistoryHandler(c fiber.Ctx) error {
	conversationID := c.Params("conversation_id")
	lines, err := s.history.Load(conversationID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "Conversation not found."})
	}
	return c.JSON(historyResponse{History: lines})
}

func (s *Server) requestVerificationCodeHandler(c fiber.Ctx) error {
	var req verificationRequest
	if err := c.Bind().JSON(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(messageResponse{Message: "Invalid email address"})
	}

	if _, err := s.codes.Issue(req.Email); err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(messageResponse{Message: "Invalid email address"})
		}
		log.Error().Err(err).Msg("Error issuing verification code")
		return c.Status(fiber.StatusInternalServerError).JSON(messageResponse{Message: "Failed to send verification code"})
	}

	return c.JSON(messageResponse{Message: "Verification code sent"})
}

func (s *Server) verifyEmailCodeHandler(c fiber.Ctx) error {
	var req verificationRequest
	if err := c.Bind().JSON(&req); err != nil || req.Email == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(messageResponse{Message: "Email and code are required"})
	}

	if err := s.codes.Verify(req.Email, req.Code); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageResponse{Message: err.Error()})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "verified_email",
		Value:    req.Email,
		MaxAge:   3600,
		Path:     "/",
		Secure:   true,
		HTTPOnly: true,
	})

	return c.JSON(messageResponse{Message: "Verification successful"})
}

func (s *Server) uploadHandler(c fiber.Ctx) error {
	if s.uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(errorResponse{Error: "Upload is not configured"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Failed to open file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Failed to read file"})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	url, err := s.uploader.UploadAttachment(data, fileHeader.Filename, mimeType)
	if err != nil {
		log.Error().Err(err).Str("file", fileHeader.Filename).Msg("Attachment upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Error: "Upload failed"})
	}

	return c.JSON(uploadResponse{
		Name:     fileHeader.Filename,
		MimeType: mimeType,
		URL:      url,
	})
}
