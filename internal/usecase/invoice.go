package usecase

import (
	"fmt"
	"strings"
	"time"

	"hotel-pms/internal/data/entity"
)

type InvoiceHeader struct {
	HotelName   string
	Currency    string
	RoomNumber  string
	StayID      string
	GuestName   string
	CompanyName *string
	CheckIn     time.Time
	CheckOut    time.Time
	IssuedAt    time.Time
}

// FormatBillLine is the one textual rendering of a bill line.
func FormatBillLine(item entity.BillItem) string {
	return fmt.Sprintf("%-28s %6s x %10.2f = %12.2f", item.Label, formatQuantity(item.Quantity), item.UnitPrice, item.Amount)
}

// InvoiceServiceLines groups the services before rendering, like every
// other bill view does.
func InvoiceServiceLines(items []entity.BillItem) []string {
	grouped := GroupBillItems(items)
	lines := make([]string, 0, len(grouped))
	for _, item := range grouped {
		lines = append(lines, FormatBillLine(item))
	}
	return lines
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}

// RenderInvoice prints a plain-text invoice for a final bill.
func RenderInvoice(h InvoiceHeader, bill entity.FinalBill) string {
	var sb strings.Builder
	rule := strings.Repeat("-", 64)

	fmt.Fprintf(&sb, "INVOICE  %s\n", h.HotelName)
	fmt.Fprintf(&sb, "%-16s%s\n", "Stay", h.StayID)
	fmt.Fprintf(&sb, "%-16s%s\n", "Room", h.RoomNumber)
	fmt.Fprintf(&sb, "%-16s%s\n", "Guest", h.GuestName)
	if h.CompanyName != nil && *h.CompanyName != "" {
		fmt.Fprintf(&sb, "%-16s%s\n", "Company", *h.CompanyName)
	}
	fmt.Fprintf(&sb, "%-16s%s -> %s\n", "Dates", entity.FormatDate(h.CheckIn), entity.FormatDate(h.CheckOut))
	if !h.IssuedAt.IsZero() {
		fmt.Fprintf(&sb, "%-16s%s\n", "Issued", h.IssuedAt.Format(time.RFC3339))
	}
	if bill.BilledTo != nil {
		fmt.Fprintf(&sb, "%-16s%s\n", "Billed to", *bill.BilledTo)
	}
	sb.WriteString(rule + "\n")

	sb.WriteString(FormatBillLine(bill.RoomCharge) + "\n")
	for _, line := range InvoiceServiceLines(bill.Services) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString(rule + "\n")

	amount := func(label string, v float64) {
		fmt.Fprintf(&sb, "%-40s %s %12.2f\n", label, h.Currency, v)
	}
	amount("Subtotal", bill.Subtotal)
	if bill.DiscountAmount != 0 {
		amount("Discount", -bill.DiscountAmount)
	}
	amount("Service charge", bill.ServiceChargeAmount)
	amount("GST", bill.TaxAmount)
	amount("Total", bill.Total)
	amount("Paid", bill.PaidAmount)
	amount("Balance", bill.Balance)
	fmt.Fprintf(&sb, "%-40s %s\n", "Payment method", bill.PaymentMethod)

	return sb.String()
}
