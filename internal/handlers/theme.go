package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/app"
)

const (
	prefKeyTheme     = "theme"
	prefKeyChatTheme = "chat-theme"

	defaultTheme     = "retro"
	defaultChatTheme = "coffee"
)

// ---------------------------------------------------------------------------
// ThemeHandler – theme [chat] [value]
// ---------------------------------------------------------------------------

// ThemeHandler reads and writes the persisted display preferences.
type ThemeHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(a *app.App, logger *logrus.Logger) *ThemeHandler {
	return &ThemeHandler{app: a, logger: logger}
}

// Handle processes the theme command.
func (h *ThemeHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	switch {
	case len(args) == 0:
		return h.show(ctx, out)
	case args[0] == "chat":
		if len(args) != 2 {
			fmt.Fprintln(out, "Usage: theme chat <value>")
			return nil
		}
		return h.set(ctx, out, prefKeyChatTheme, args[1])
	case len(args) == 1:
		return h.set(ctx, out, prefKeyTheme, args[0])
	default:
		fmt.Fprintln(out, "Usage: theme | theme <value> | theme chat <value>")
		return nil
	}
}

func (h *ThemeHandler) show(ctx context.Context, out io.Writer) error {
	theme, err := h.app.Prefs.Get(ctx, prefKeyTheme)
	if err != nil {
		return err
	}
	chatTheme, err := h.app.Prefs.Get(ctx, prefKeyChatTheme)
	if err != nil {
		return err
	}

	if theme == "" {
		theme = defaultTheme
	}
	if chatTheme == "" {
		chatTheme = defaultChatTheme
	}
	fmt.Fprintf(out, "theme: %s\nchat theme: %s\n", theme, chatTheme)
	return nil
}

func (h *ThemeHandler) set(ctx context.Context, out io.Writer, key, value string) error {
	if err := h.app.Prefs.Set(ctx, key, value); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"key": key, "value": value}).Debug("Preference saved")
	fmt.Fprintf(out, "Saved %s = %s.\n", key, value)
	return nil
}
