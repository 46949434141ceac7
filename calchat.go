// Package calchat wires the scheduling-assistant chat client: the
// conversation-state manager, intent heuristics, persistence, the
// backend collaborator client and the HTTP surface.
package calchat

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ayush10/cal-chatbot/auth"
	"github.com/Ayush10/cal-chatbot/aws"
	"github.com/Ayush10/cal-chatbot/bot"
	"github.com/Ayush10/cal-chatbot/chat"
	"github.com/Ayush10/cal-chatbot/config"
	"github.com/Ayush10/cal-chatbot/history"
	"github.com/Ayush10/cal-chatbot/intent"
	"github.com/Ayush10/cal-chatbot/server"
	"github.com/Ayush10/cal-chatbot/store"
)

// Chatbot is the assembled application.
type Chatbot struct {
	config  *config.Config
	manager *chat.Manager
	session *auth.SessionStore
	flow    *auth.Flow
	server  *server.Server
}

// New loads configuration from the environment and wires every
// component. It terminates the process when a required dependency
// cannot be reached, matching server startup semantics.
func New() *Chatbot {
	appConfig := config.Load()
	httpClient := http.Client{Timeout: 60 * time.Second}

	kv := openStore(appConfig)

	botClient := bot.NewClient(appConfig.BotAPIURL, httpClient)

	session := auth.NewSessionStore(kv)
	session.Load(context.Background())

	manager := chat.NewManager(kv, botClient, session, intent.Detect)
	manager.Load(context.Background())

	codes := auth.NewCodeStore(time.Duration(appConfig.CodeTTLSecs) * time.Second)
	hist := history.NewStore(appConfig.HistoryDir)

	// The verification flow talks to a remote code service when one is
	// configured, otherwise to the local code store.
	var verifier auth.Verifier = auth.CodeStoreVerifier{Codes: codes}
	if appConfig.VerifyAPIURL != "" {
		verifier = auth.NewClient(appConfig.VerifyAPIURL, httpClient)
	}
	flow := auth.NewFlow(verifier)

	var uploader server.Uploader
	if appConfig.S3Bucket != "" {
		awsClient, err := aws.NewClient(appConfig.S3Region, appConfig.S3Bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create AWS client")
		}
		uploader = awsClient
	}

	srv := server.New(botClient, codes, hist, uploader, appConfig.CodeRatePerMin)

	return &Chatbot{
		config:  appConfig,
		manager: manager,
		session: session,
		flow:    flow,
		server:  srv,
	}
}

func openStore(appConfig *config.Config) store.KV {
	switch appConfig.StoreBackend {
	case "redis":
		return store.NewRedis(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	case "memory":
		return store.NewMemory()
	default:
		kv, err := store.OpenPebble(appConfig.StorePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", appConfig.StorePath).Msg("Failed to open store")
		}
		return kv
	}
}

// Start runs the HTTP server; blocks until it stops.
func (c *Chatbot) Start(port string) {
	if port == "" {
		port = c.config.Port
	}
	c.server.Start(port)
}

// Manager returns the conversation-state manager.
func (c *Chatbot) Manager() *chat.Manager {
	return c.manager
}

// Session returns the verified-email session store.
func (c *Chatbot) Session() *auth.SessionStore {
	return c.session
}

// Flow returns the email verification flow.
func (c *Chatbot) Flow() *auth.Flow {
	return c.flow
}
