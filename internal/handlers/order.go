package handlers

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/app"
	"github.com/meetmart/meetmart/internal/models"
)

// meetTimeLayout is how meetup times are typed on the command line.
const meetTimeLayout = "2006-01-02T15:04"

// ---------------------------------------------------------------------------
// OrdersHandler – orders
// ---------------------------------------------------------------------------

// OrdersHandler lists the user's purchases.
type OrdersHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(a *app.App, logger *logrus.Logger) *OrdersHandler {
	return &OrdersHandler{app: a, logger: logger}
}

// Handle processes the orders command.
func (h *OrdersHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	list, err := h.app.Orders.ListMine(ctx)
	if err != nil {
		if h.app.HandleAuthFailure(ctx, err) {
			fmt.Fprintln(out, "Your session expired. Please log in again.")
		}
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No purchases yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tPRICE\tSTATUS\tTRACKING")
	for _, o := range list {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n", o.ID, o.Item.Name, o.Price, o.Status, o.TrackingStatus)
	}
	return tw.Flush()
}

// ---------------------------------------------------------------------------
// OrderHandler – order <order-id>
// ---------------------------------------------------------------------------

// OrderHandler shows one purchase in full.
type OrderHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(a *app.App, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{app: a, logger: logger}
}

// Handle processes the order command.
func (h *OrderHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: order <order-id>")
		return nil
	}

	o, err := h.app.Orders.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printOrder(out, o)
	return nil
}

func printOrder(out io.Writer, o *models.Order) {
	fmt.Fprintf(out, "Order %s — %s (%.2f)\n", o.ID, o.Item.Name, o.Price)
	fmt.Fprintf(out, "  buyer: %s, seller: %s\n", o.Buyer.DisplayName(), o.Seller.DisplayName())
	fmt.Fprintf(out, "  status: %s, tracking: %s\n", o.Status, o.TrackingStatus)
	if o.MeetingDetails != nil {
		fmt.Fprintf(out, "  meetup: %s at %s\n", o.MeetingDetails.Location, o.MeetingDetails.Time.Format(meetTimeLayout))
	}
	if o.IsRated() {
		fmt.Fprintf(out, "  seller rated: %d/5\n", o.SellerRating)
	}
}

// ---------------------------------------------------------------------------
// MeetHandler – meet <order-id> <yyyy-mm-ddThh:mm> <location...>
// ---------------------------------------------------------------------------

// MeetHandler schedules the buyer/seller meetup for a paid order.
type MeetHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewMeetHandler creates a new MeetHandler.
func NewMeetHandler(a *app.App, logger *logrus.Logger) *MeetHandler {
	return &MeetHandler{app: a, logger: logger}
}

// Handle processes the meet command.
func (h *MeetHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) < 3 {
		fmt.Fprintln(out, "Usage: meet <order-id> <yyyy-mm-ddThh:mm> <location...>")
		return nil
	}

	at, err := time.ParseInLocation(meetTimeLayout, args[1], time.Local)
	if err != nil {
		fmt.Fprintf(out, "Could not parse %q as a time, expected e.g. 2026-09-14T16:30.\n", args[1])
		return nil
	}
	location := strings.Join(args[2:], " ")

	o, err := h.app.Orders.Get(ctx, args[0])
	if err != nil {
		return err
	}

	updated, err := h.app.Orders.ScheduleMeeting(ctx, o, location, at)
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"order_id": updated.ID}).Info("Meetup scheduled")
	printOrder(out, updated)
	return nil
}

// ---------------------------------------------------------------------------
// ReleaseHandler – release <order-id>
// ---------------------------------------------------------------------------

// ReleaseHandler releases the escrowed funds to the seller.
type ReleaseHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewReleaseHandler creates a new ReleaseHandler.
func NewReleaseHandler(a *app.App, logger *logrus.Logger) *ReleaseHandler {
	return &ReleaseHandler{app: a, logger: logger}
}

// Handle processes the release command.
func (h *ReleaseHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: release <order-id>")
		return nil
	}

	o, err := h.app.Orders.Get(ctx, args[0])
	if err != nil {
		return err
	}

	updated, err := h.app.Orders.ReleaseFunds(ctx, o)
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"order_id": updated.ID}).Info("Funds released")
	printOrder(out, updated)
	return nil
}

// ---------------------------------------------------------------------------
// RetractHandler – retract <order-id> <reason...>
// ---------------------------------------------------------------------------

// RetractHandler asks for the escrowed funds back.
type RetractHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewRetractHandler creates a new RetractHandler.
func NewRetractHandler(a *app.App, logger *logrus.Logger) *RetractHandler {
	return &RetractHandler{app: a, logger: logger}
}

// Handle processes the retract command.
func (h *RetractHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(out, "Usage: retract <order-id> <reason...>")
		return nil
	}

	o, err := h.app.Orders.Get(ctx, args[0])
	if err != nil {
		return err
	}

	updated, err := h.app.Orders.RetractFunds(ctx, o, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{"order_id": updated.ID}).Info("Refund requested")
	printOrder(out, updated)
	return nil
}

// ---------------------------------------------------------------------------
// RateHandler – rate <order-id> <1-5>
// ---------------------------------------------------------------------------

// RateHandler rates the seller of a completed order.
type RateHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(a *app.App, logger *logrus.Logger) *RateHandler {
	return &RateHandler{app: a, logger: logger}
}

// Handle processes the rate command.
func (h *RateHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(out, "Usage: rate <order-id> <1-5>")
		return nil
	}

	rating, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintln(out, "Rating must be an integer from 1 to 5.")
		return nil
	}

	o, err := h.app.Orders.Get(ctx, args[0])
	if err != nil {
		return err
	}

	updated, err := h.app.Orders.RateSeller(ctx, o, rating)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Thanks! %s now carries your %d/5 rating.\n", updated.Seller.DisplayName(), rating)
	return nil
}
