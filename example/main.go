package main

import (
	"context"
	"fmt"

	calchat "github.com/Ayush10/cal-chatbot"
)

func main() {
	app := calchat.New()

	// Demonstrate the conversation manager directly before serving.
	manager := app.Manager()
	manager.SendMessage(context.Background(), "Can you help me schedule a call for next Tuesday afternoon please", nil, "")

	for _, conv := range manager.Conversations() {
		fmt.Printf("%s (%d messages, %d unread)\n", conv.Title, len(conv.Messages), conv.UnreadCount())
	}

	app.Start("")
}
