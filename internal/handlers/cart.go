package handlers

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/app"
)

// ---------------------------------------------------------------------------
// CartHandler – cart [add|update|remove|clear]
// ---------------------------------------------------------------------------

// CartHandler manages the shopping cart. With no arguments it shows the
// cart; subcommands mutate it.
type CartHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(a *app.App, logger *logrus.Logger) *CartHandler {
	return &CartHandler{app: a, logger: logger}
}

// Handle processes the cart command.
func (h *CartHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) == 0 {
		return h.show(out)
	}

	switch args[0] {
	case "add":
		return h.add(ctx, out, args[1:])
	case "update":
		return h.update(ctx, out, args[1:])
	case "remove":
		return h.remove(ctx, out, args[1:])
	case "clear":
		return h.app.Cart.Clear(ctx)
	default:
		fmt.Fprintln(out, "Usage: cart [add <store-id> <item-id> [qty] | update <store-id> <item-id> <qty> | remove <store-id> <item-id> | clear]")
		return nil
	}
}

func (h *CartHandler) show(out io.Writer) error {
	lines := h.app.Cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STORE\tITEM\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
			l.StoreID, l.Item.ID, l.Item.Name, l.Quantity, l.Item.Price, l.Subtotal())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d items, total %.2f\n", h.app.Cart.ItemCount(), h.app.Cart.Total())
	return nil
}

// add looks the item up in the catalog so the cart line carries the
// current name and price.
func (h *CartHandler) add(ctx context.Context, out io.Writer, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(out, "Usage: cart add <store-id> <item-id> [qty]")
		return nil
	}
	storeID, itemID := args[0], args[1]

	quantity := 1
	if len(args) == 3 {
		q, err := strconv.Atoi(args[2])
		if err != nil || q < 1 {
			fmt.Fprintln(out, "Quantity must be a positive integer.")
			return nil
		}
		quantity = q
	}

	item, err := h.app.Catalog.Item(ctx, itemID)
	if err != nil {
		return err
	}

	return h.app.Cart.Add(ctx, storeID, *item, quantity)
}

func (h *CartHandler) update(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 3 {
		fmt.Fprintln(out, "Usage: cart update <store-id> <item-id> <qty>")
		return nil
	}
	quantity, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintln(out, "Quantity must be an integer.")
		return nil
	}
	// Zero and below remove the line; the store handles that.
	return h.app.Cart.UpdateQuantity(ctx, args[0], args[1], quantity)
}

func (h *CartHandler) remove(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(out, "Usage: cart remove <store-id> <item-id>")
		return nil
	}
	return h.app.Cart.Remove(ctx, args[0], args[1])
}
