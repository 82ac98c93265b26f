package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/admin"
	"github.com/meetmart/meetmart/internal/app"
	"github.com/meetmart/meetmart/internal/models"
)

// ---------------------------------------------------------------------------
// AdminHandler – admin <subcommand>
// ---------------------------------------------------------------------------

// AdminHandler is the review console: purchase, shopping-list and waitlist
// listings plus status transitions and the xlsx export.
type AdminHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(a *app.App, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{app: a, logger: logger}
}

// Handle processes the admin command.
func (h *AdminHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if !h.app.Session.IsAdmin() {
		fmt.Fprintln(out, "Admin commands need an admin account.")
		return nil
	}
	if len(args) == 0 {
		h.usage(out)
		return nil
	}

	var err error
	switch args[0] {
	case "purchases":
		err = h.purchases(ctx, out)
	case "set-purchase":
		if len(args) != 3 {
			fmt.Fprintf(out, "Usage: admin set-purchase <id> <%s>\n", joinPurchaseStatuses())
			return nil
		}
		err = h.setPurchase(ctx, out, args[1], args[2])
	case "shopping-lists":
		err = h.shoppingLists(ctx, out)
	case "set-list":
		if len(args) < 3 {
			fmt.Fprintln(out, "Usage: admin set-list <id> <status...>")
			return nil
		}
		err = h.setShoppingList(ctx, out, args[1], strings.Join(args[2:], " "))
	case "waitlist":
		err = h.waitlist(ctx, out)
	case "set-waitlist":
		if len(args) != 3 {
			fmt.Fprintf(out, "Usage: admin set-waitlist <id> <%s>\n", joinWaitlistStatuses())
			return nil
		}
		err = h.setWaitlist(ctx, out, args[1], args[2])
	case "export":
		if len(args) != 2 {
			fmt.Fprintln(out, "Usage: admin export <path.xlsx>")
			return nil
		}
		err = h.export(ctx, out, args[1])
	default:
		h.usage(out)
		return nil
	}

	if err != nil && h.app.HandleAuthFailure(ctx, err) {
		fmt.Fprintln(out, "Your session is no longer authorized. You have been logged out.")
	}
	return err
}

func (h *AdminHandler) usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: admin purchases | set-purchase <id> <status> | shopping-lists | set-list <id> <status> | waitlist | set-waitlist <id> <status> | export <path.xlsx>")
}

func (h *AdminHandler) purchases(ctx context.Context, out io.Writer) error {
	list, err := h.app.Admin.Purchases(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No purchases on record.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBUYER\tSELLER\tITEM\tPRICE\tSTATUS\tTRACKING")
	for _, o := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			o.ID, o.Buyer.DisplayName(), o.Seller.DisplayName(), o.Item.Name, o.Price, o.Status, o.TrackingStatus)
	}
	return tw.Flush()
}

func (h *AdminHandler) setPurchase(ctx context.Context, out io.Writer, id, status string) error {
	updated, err := h.app.Admin.SetPurchaseStatus(ctx, id, admin.PurchaseStatus(status))
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"purchase_id": updated.ID, "status": status}).Info("Purchase status updated")
	fmt.Fprintf(out, "Purchase %s is now %s.\n", updated.ID, updated.Status)
	return nil
}

func (h *AdminHandler) shoppingLists(ctx context.Context, out io.Writer) error {
	lists, err := h.app.Admin.ShoppingLists(ctx)
	if err != nil {
		return err
	}
	if len(lists) == 0 {
		fmt.Fprintln(out, "No shopping lists on record.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOWNER\tITEMS\tSTATUS")
	for _, l := range lists {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.ID, l.Owner.DisplayName(), len(l.Items), l.Status)
	}
	return tw.Flush()
}

func (h *AdminHandler) setShoppingList(ctx context.Context, out io.Writer, id, status string) error {
	updated, err := h.app.Admin.SetShoppingListStatus(ctx, id, models.ShoppingListStatus(status))
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"list_id": updated.ID, "status": status}).Info("Shopping list status updated")
	fmt.Fprintf(out, "Shopping list %s is now %s.\n", updated.ID, updated.Status)
	return nil
}

func (h *AdminHandler) waitlist(ctx context.Context, out io.Writer) error {
	entries, err := h.app.Admin.Waitlist(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "The waitlist is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tSTATUS\tSIGNED UP")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Email, e.Status, e.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

func (h *AdminHandler) export(ctx context.Context, out io.Writer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := h.app.Admin.ExportPurchases(ctx, f); err != nil {
		return err
	}

	fmt.Fprintf(out, "Purchases exported to %s.\n", path)
	return nil
}

func (h *AdminHandler) setWaitlist(ctx context.Context, out io.Writer, id, status string) error {
	updated, err := h.app.Admin.SetWaitlistStatus(ctx, id, models.WaitlistStatus(status))
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"waitlist_id": updated.ID, "status": status}).Info("Waitlist status updated")
	fmt.Fprintf(out, "Waitlist entry %s (%s) is now %s.\n", updated.ID, updated.Email, updated.Status)
	return nil
}

func joinPurchaseStatuses() string {
	parts := make([]string, len(admin.PurchaseStatuses))
	for i, s := range admin.PurchaseStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, "|")
}

func joinWaitlistStatuses() string {
	parts := make([]string, len(models.WaitlistStatuses))
	for i, s := range models.WaitlistStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, "|")
}
