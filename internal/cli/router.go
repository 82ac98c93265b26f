package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(ctx context.Context, out io.Writer, args []string) error
}

// Router parses input lines and routes the command word to its handler.
type Router struct {
	logger   *logrus.Logger
	handlers map[string]CommandHandler
}

// NewRouter creates a new command router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:   logger,
		handlers: make(map[string]CommandHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// Commands returns the registered command words, sorted.
func (r *Router) Commands() []string {
	commands := make([]string, 0, len(r.handlers))
	for c := range r.handlers {
		commands = append(commands, c)
	}
	sort.Strings(commands)
	return commands
}

// Dispatch handles one input line. Handler errors and panics are reported
// to the user, never allowed to kill the loop.
func (r *Router) Dispatch(ctx context.Context, out io.Writer, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	command := fields[0]
	args := fields[1:]

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(logrus.Fields{"command": command}).Warn("Unknown command")
		fmt.Fprintf(out, "Unknown command %q. Type help for the command list.\n", command)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(logrus.Fields{
				"command": command,
				"panic":   rec,
			}).Error("Command handler panicked")
			fmt.Fprintln(out, "Something went wrong while running that command.")
		}
	}()

	if err := handler.Handle(ctx, out, args); err != nil {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"error":   err,
		}).Error("Command handler failed")
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}
