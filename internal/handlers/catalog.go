package handlers

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/app"
)

// ---------------------------------------------------------------------------
// StoresHandler – stores
// ---------------------------------------------------------------------------

// StoresHandler lists the storefronts.
type StoresHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewStoresHandler creates a new StoresHandler.
func NewStoresHandler(a *app.App, logger *logrus.Logger) *StoresHandler {
	return &StoresHandler{app: a, logger: logger}
}

// Handle processes the stores command.
func (h *StoresHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	stores, err := h.app.Catalog.Stores(ctx)
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		fmt.Fprintln(out, "No stores yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION")
	for _, s := range stores {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Name, s.Location)
	}
	return tw.Flush()
}

// ---------------------------------------------------------------------------
// GoodsHandler – goods <store-id>
// ---------------------------------------------------------------------------

// GoodsHandler lists a store's goods.
type GoodsHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewGoodsHandler creates a new GoodsHandler.
func NewGoodsHandler(a *app.App, logger *logrus.Logger) *GoodsHandler {
	return &GoodsHandler{app: a, logger: logger}
}

// Handle processes the goods command.
func (h *GoodsHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: goods <store-id>")
		return nil
	}

	goods, err := h.app.Catalog.Goods(ctx, args[0])
	if err != nil {
		return err
	}
	if len(goods) == 0 {
		fmt.Fprintln(out, "This store has no goods listed.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tNAME\tPRICE\tPER\tIN STOCK")
	for _, g := range goods {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%t\n", g.Item.ID, g.Item.Name, g.Item.Price, g.Item.Measurement, g.InStock)
	}
	return tw.Flush()
}

// ---------------------------------------------------------------------------
// ItemHandler – item <item-id>
// ---------------------------------------------------------------------------

// ItemHandler shows one item.
type ItemHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(a *app.App, logger *logrus.Logger) *ItemHandler {
	return &ItemHandler{app: a, logger: logger}
}

// Handle processes the item command.
func (h *ItemHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: item <item-id>")
		return nil
	}

	item, err := h.app.Catalog.Item(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s — %.2f per %s\n", item.Name, item.Price, item.Measurement)
	if item.Description != "" {
		fmt.Fprintln(out, item.Description)
	}
	return nil
}
