package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// HelpHandler handles the help command.
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	helpText := `MeetMart commands

Account:
  signup <name> <email> <password>   Create an account
  verify <otp>                       Verify your email
  login <email> <password>           Log in
  logout                             Log out
  whoami                             Show the current user
  forgot-password <email>            Request a reset code
  reset-password <token> <password>  Set a new password

Browse:
  stores                             List stores
  goods <store-id>                   List a store's goods
  item <item-id>                     Show one item

Cart & checkout:
  cart                               Show the cart
  cart add <item-id> [qty]           Add an item
  cart update <item-id> <qty>        Change a quantity
  cart remove <item-id>              Remove an item
  cart clear                         Empty the cart
  checkout                           Pay for the cart
  pay-verify <reference>             Re-check a payment

Orders:
  orders                             List your purchases
  order <id>                         Show one purchase
  meet <id> <time> <location...>     Schedule the meetup
  release <id>                       Release funds to the seller
  retract <id> <reason...>           Ask for a refund
  rate <id> <1-5>                    Rate the seller

Chat:
  chat users                         List people to chat with
  chat open <user-id>                Open a conversation
  chat send <text...>                Send a message
  chat history                       Reprint the conversation
  chat close                         Close the conversation

Other:
  theme [chat] [value]               Show or set display themes
  admin <subcommand>                 Review console (admins only)
  exit                               Quit`

	if _, err := fmt.Fprintln(out, helpText); err != nil {
		return fmt.Errorf("failed to print help: %w", err)
	}

	h.logger.Debug("Printed help")
	return nil
}
