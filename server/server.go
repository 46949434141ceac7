package server

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/Ayush10/cal-chatbot/auth"
	"github.com/Ayush10/cal-chatbot/chat"
	"github.com/Ayush10/cal-chatbot/history"
)

// BotClient forwards a message history to the conversational backend.
type BotClient interface {
	SendChat(ctx context.Context, messages []chat.Message) (string, error)
}

// Uploader stores attachment bytes and returns a public URL.
type Uploader interface {
	UploadAttachment(data []byte, fileName, mimeType string) (string, error)
}

type Server struct {
	app      *fiber.App
	bot      BotClient
	codes    *auth.CodeStore
	history  *history.Store
	uploader Uploader
	codeRate int
}

// New builds the HTTP surface. uploader may be nil when no S3 bucket
// is configured; the upload endpoint then reports unavailable.
func New(bot BotClient, codes *auth.CodeStore, hist *history.Store, uploader Uploader, codeRatePerMin int) *Server {
	app := fiber.New()

	server := &Server{
		app:      app,
		bot:      bot,
		codes:    codes,
		history:  hist,
		uploader: uploader,
		codeRate: codeRatePerMin,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) Start(port string) {
	log.Info().Str("port", port).Msg("Starting chat server")

	err := s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
