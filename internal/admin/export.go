package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/meetmart/meetmart/internal/models"
)

// ExportPurchases writes the full purchase list as an xlsx workbook.
func (c *Console) ExportPurchases(ctx context.Context, w io.Writer) error {
	purchases, err := c.Purchases(ctx)
	if err != nil {
		return err
	}
	return writePurchasesSheet(purchases, w)
}

func writePurchasesSheet(purchases []models.Order, w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Purchases")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID", "Buyer", "Seller", "Item", "Price",
		"PaymentReference", "Status", "TrackingStatus", "SellerRating", "CreatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range purchases {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Buyer.DisplayName())
		row.AddCell().SetValue(p.Seller.DisplayName())
		row.AddCell().SetValue(p.Item.Name)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.PaymentReference)
		row.AddCell().SetValue(string(p.Status))
		row.AddCell().SetValue(string(p.TrackingStatus))
		row.AddCell().SetValue(p.SellerRating)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
