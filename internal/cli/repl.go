package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// REPL reads commands line by line and dispatches them until EOF, an exit
// command, or context cancellation.
type REPL struct {
	router *Router
	logger *logrus.Logger
}

// NewREPL creates a REPL over the given router.
func NewREPL(router *Router, logger *logrus.Logger) *REPL {
	return &REPL{router: router, logger: logger}
}

// Run blocks, processing commands from in and writing output to out.
// On context cancellation Run returns promptly, but the reader goroutine
// stays blocked in Scan until in yields another line or EOF; with stdin
// that means it lives until the process exits.
func (r *REPL) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "MeetMart client. Type help for commands, exit to quit.")

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case err := <-scanErr:
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		case line := <-lines:
			if line == "exit" || line == "quit" {
				return nil
			}
			r.router.Dispatch(ctx, out, line)
		}
	}
}
