package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/app"
	"github.com/meetmart/meetmart/internal/models"
)

// ---------------------------------------------------------------------------
// ChatHandler – chat <users|open|send|history|close>
// ---------------------------------------------------------------------------

// ChatHandler drives the chat session: roster, conversation selection, live
// delivery, sends.
type ChatHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(a *app.App, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{app: a, logger: logger}
}

// Handle processes the chat command.
func (h *ChatHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if !h.app.Session.LoggedIn() {
		fmt.Fprintln(out, "Log in first to use chat.")
		return nil
	}
	if len(args) == 0 {
		h.usage(out)
		return nil
	}

	switch args[0] {
	case "users":
		return h.users(ctx, out)
	case "open":
		if len(args) != 2 {
			fmt.Fprintln(out, "Usage: chat open <user-id>")
			return nil
		}
		return h.open(ctx, out, args[1])
	case "send":
		if len(args) < 2 {
			fmt.Fprintln(out, "Usage: chat send <text...>")
			return nil
		}
		return h.send(ctx, out, strings.Join(args[1:], " "))
	case "history":
		return h.history(out)
	case "close":
		h.close(out)
		return nil
	default:
		h.usage(out)
		return nil
	}
}

func (h *ChatHandler) usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: chat users | chat open <user-id> | chat send <text...> | chat history | chat close")
}

func (h *ChatHandler) users(ctx context.Context, out io.Writer) error {
	if err := h.app.ConnectChat(ctx); err != nil {
		h.logger.WithFields(logrus.Fields{"error": err}).Warn("Could not connect chat socket")
	}

	users, err := h.app.Chat.Users(ctx)
	if err != nil {
		if h.app.HandleAuthFailure(ctx, err) {
			fmt.Fprintln(out, "Your session expired. Please log in again.")
		}
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(out, "Nobody to chat with yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS")
	for _, u := range users {
		status := "offline"
		if h.app.Chat.IsOnline(u.ID) {
			status = "online"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.DisplayName(), status)
	}
	return tw.Flush()
}

func (h *ChatHandler) open(ctx context.Context, out io.Writer, userID string) error {
	if err := h.app.ConnectChat(ctx); err != nil {
		h.logger.WithFields(logrus.Fields{"error": err}).Warn("Could not connect chat socket")
	}

	users, err := h.app.Chat.Users(ctx)
	if err != nil {
		return err
	}
	var peer *models.User
	for i := range users {
		if users[i].ID == userID {
			peer = &users[i]
			break
		}
	}
	if peer == nil {
		fmt.Fprintf(out, "No chat user with id %s. Try: chat users\n", userID)
		return nil
	}

	// One listener per conversation; switching peers re-subscribes.
	h.app.Chat.UnsubscribeFromMessages()
	if err := h.app.Chat.SelectUser(ctx, peer); err != nil {
		return err
	}
	h.app.Chat.SetOnMessage(func(m models.Message) {
		fmt.Fprintf(out, "[%s] %s\n", peer.DisplayName(), m.Text)
	})
	h.app.Chat.SubscribeToMessages()

	fmt.Fprintf(out, "Chatting with %s.\n", peer.DisplayName())
	return h.history(out)
}

func (h *ChatHandler) send(ctx context.Context, out io.Writer, text string) error {
	if h.app.Chat.Selected() == nil {
		fmt.Fprintln(out, "Open a conversation first: chat open <user-id>")
		return nil
	}

	sent, err := h.app.Chat.Send(ctx, text, "")
	if err != nil {
		if h.app.HandleAuthFailure(ctx, err) {
			fmt.Fprintln(out, "Your session expired. Please log in again.")
		}
		return err
	}
	fmt.Fprintf(out, "[you] %s\n", sent.Text)
	return nil
}

func (h *ChatHandler) history(out io.Writer) error {
	peer := h.app.Chat.Selected()
	if peer == nil {
		fmt.Fprintln(out, "No conversation open.")
		return nil
	}

	me := h.app.Session.Current()
	for _, m := range h.app.Chat.Messages() {
		name := peer.DisplayName()
		if me != nil && m.SenderID == me.ID {
			name = "you"
		}
		line := m.Text
		if line == "" && m.Image != "" {
			line = "(image) " + m.Image
		}
		fmt.Fprintf(out, "[%s] %s\n", name, line)
	}
	return nil
}

func (h *ChatHandler) close(out io.Writer) {
	h.app.Chat.UnsubscribeFromMessages()
	h.app.Chat.SetOnMessage(nil)
	if err := h.app.Chat.SelectUser(context.Background(), nil); err != nil {
		h.logger.WithFields(logrus.Fields{"error": err}).Warn("Could not clear conversation")
	}
	fmt.Fprintln(out, "Conversation closed.")
}
