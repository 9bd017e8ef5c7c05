package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"hotel-pms/internal/data/entity"
)

const defaultPaymentMethod = "Unknown"

// TaxConfig holds percentages, e.g. 18 for 18%.
type TaxConfig struct {
	GSTRate           float64 `json:"gst_rate"`
	ServiceChargeRate float64 `json:"service_charge_rate"`
}

func TaxConfigOf(hotel *entity.Hotel) TaxConfig {
	if hotel == nil {
		return TaxConfig{}
	}
	return TaxConfig{GSTRate: hotel.GSTRate, ServiceChargeRate: hotel.ServiceChargeRate}
}

type BillSummary struct {
	Nights              int               `json:"nights"`
	RoomCharge          entity.BillItem   `json:"room_charge"`
	RoomTotal           float64           `json:"room_total"`
	Services            []entity.BillItem `json:"services"`
	ServicesTotal       float64           `json:"services_total"`
	Subtotal            float64           `json:"subtotal"`
	DiscountAmount      float64           `json:"discount_amount"`
	DiscountedSubtotal  float64           `json:"discounted_subtotal"`
	ServiceChargeAmount float64           `json:"service_charge_amount"`
	TaxAmount           float64           `json:"tax_amount"`
	Total               float64           `json:"total"`
	PaidAmount          float64           `json:"paid_amount"`
	Balance             float64           `json:"balance"`
	// BilledTo names the stay whose bill this one is consolidated onto.
	BilledTo *string `json:"billed_to,omitempty"`
}

func stayNights(stay entity.Stay) int {
	n := stay.Range().Nights()
	if n < 1 {
		return 1
	}
	return n
}

// ComputeBill is pure: identical inputs give identical output, and
// Balance == Total - PaidAmount always holds.
func ComputeBill(stay entity.Stay, charges []*entity.ChargeLogEntry, tax TaxConfig) BillSummary {
	nights := stayNights(stay)
	roomTotal := stay.RoomCharge * float64(nights)
	room := entity.BillItem{
		Label:     "Room charges",
		Quantity:  float64(nights),
		UnitPrice: stay.RoomCharge,
		Amount:    roomTotal,
	}
	return summarize(nights, room, charges, stay.Discount, stay.PaidAmount, tax)
}

// ComputeClubbedBill consolidates the primary stay and its clubbed members
// into one bill. The discount is the primary's; payments are summed.
func ComputeClubbedBill(primary entity.Stay, members []entity.Stay, charges []*entity.ChargeLogEntry, tax TaxConfig) BillSummary {
	nights := stayNights(primary)
	roomTotal := primary.RoomCharge * float64(nights)
	roomNights := float64(nights)
	paid := primary.PaidAmount
	for _, m := range members {
		n := stayNights(m)
		roomTotal += m.RoomCharge * float64(n)
		roomNights += float64(n)
		paid += m.PaidAmount
	}
	room := entity.BillItem{
		Label:     fmt.Sprintf("Room charges (%d rooms)", len(members)+1),
		Quantity:  roomNights,
		UnitPrice: roomTotal / roomNights,
		Amount:    roomTotal,
	}
	return summarize(nights, room, charges, primary.Discount, paid, tax)
}

func summarize(nights int, room entity.BillItem, charges []*entity.ChargeLogEntry, discount *entity.Discount, paid float64, tax TaxConfig) BillSummary {
	services := GroupCharges(charges)
	servicesTotal := 0.0
	for _, c := range charges {
		servicesTotal += c.Price
	}

	subtotal := room.Amount + servicesTotal
	discountAmount := discountFor(discount, subtotal)
	discounted := subtotal - discountAmount
	serviceCharge := discounted * tax.ServiceChargeRate / 100
	taxAmount := discounted * tax.GSTRate / 100
	total := discounted + serviceCharge + taxAmount

	return BillSummary{
		Nights:              nights,
		RoomCharge:          room,
		RoomTotal:           room.Amount,
		Services:            services,
		ServicesTotal:       servicesTotal,
		Subtotal:            subtotal,
		DiscountAmount:      discountAmount,
		DiscountedSubtotal:  discounted,
		ServiceChargeAmount: serviceCharge,
		TaxAmount:           taxAmount,
		Total:               total,
		PaidAmount:          paid,
		Balance:             total - paid,
	}
}

// discountFor clamps the amount into [0, subtotal].
func discountFor(d *entity.Discount, subtotal float64) float64 {
	if d == nil {
		return 0
	}
	var amount float64
	switch d.Type {
	case entity.DiscountPercent:
		amount = subtotal * d.Value / 100
	case entity.DiscountFlat:
		amount = d.Value
	}
	return math.Min(math.Max(amount, 0), math.Max(subtotal, 0))
}

var quantitySuffix = regexp.MustCompile(`\s*\(\s*x\s*(\d+(?:\.\d+)?)\s*\)\s*$`)

// NormalizeServiceName strips a trailing "(x N)" and returns N, or 0 when
// there is no suffix.
func NormalizeServiceName(name string) (string, float64) {
	m := quantitySuffix.FindStringSubmatchIndex(name)
	if m == nil {
		return strings.TrimSpace(name), 0
	}
	qty, _ := strconv.ParseFloat(name[m[2]:m[3]], 64)
	return strings.TrimSpace(name[:m[0]]), qty
}

func GroupCharges(charges []*entity.ChargeLogEntry) []entity.BillItem {
	items := make([]entity.BillItem, 0, len(charges))
	for _, c := range charges {
		items = append(items, entity.BillItem{
			Label:    c.Service,
			Quantity: c.Quantity,
			Amount:   c.Price,
		})
	}
	return GroupBillItems(items)
}

// GroupBillItems merges lines sharing a normalized name, summing quantity
// and amount and re-deriving the unit price. Lines keep first-seen order.
// Grouping grouped lines is a no-op.
func GroupBillItems(items []entity.BillItem) []entity.BillItem {
	grouped := make([]entity.BillItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		name, suffixQty := NormalizeServiceName(item.Label)
		qty := item.Quantity
		if qty <= 0 {
			qty = suffixQty
		}
		if qty <= 0 {
			qty = 1
		}
		key := strings.ToLower(name)
		i, ok := index[key]
		if !ok {
			index[key] = len(grouped)
			grouped = append(grouped, entity.BillItem{Label: name, Quantity: qty, Amount: item.Amount})
			continue
		}
		grouped[i].Quantity += qty
		grouped[i].Amount += item.Amount
	}
	for i := range grouped {
		grouped[i].UnitPrice = grouped[i].Amount / grouped[i].Quantity
	}
	return grouped
}

// ToBillInput turns a computed summary into checkout input, so computed
// and client-supplied bills go through the same sanitiser.
func (b BillSummary) ToBillInput(paymentMethod string) entity.BillInput {
	services := make([]entity.BillItemInput, 0, len(b.Services))
	for _, s := range b.Services {
		services = append(services, itemInput(s))
	}
	room := itemInput(b.RoomCharge)
	in := entity.BillInput{
		RoomCharge:          &room,
		Services:            services,
		Subtotal:            floatPtr(b.Subtotal),
		DiscountAmount:      floatPtr(b.DiscountAmount),
		ServiceChargeAmount: floatPtr(b.ServiceChargeAmount),
		TaxAmount:           floatPtr(b.TaxAmount),
		Total:               floatPtr(b.Total),
		PaidAmount:          floatPtr(b.PaidAmount),
		Balance:             floatPtr(b.Balance),
		BilledTo:            b.BilledTo,
	}
	if paymentMethod != "" {
		in.PaymentMethod = &paymentMethod
	}
	return in
}

// NewFinalBill is the only way a FinalBill is built for archival. Missing
// or non-finite numbers become 0, missing labels become empty and a
// missing payment method becomes "Unknown".
func NewFinalBill(in entity.BillInput) entity.FinalBill {
	services := make([]entity.BillItem, 0, len(in.Services))
	for _, s := range in.Services {
		services = append(services, billItem(&s))
	}

	bill := entity.FinalBill{
		RoomCharge:          billItem(in.RoomCharge),
		Services:            GroupBillItems(services),
		Subtotal:            number(in.Subtotal),
		DiscountAmount:      number(in.DiscountAmount),
		ServiceChargeAmount: number(in.ServiceChargeAmount),
		TaxAmount:           number(in.TaxAmount),
		Total:               number(in.Total),
		PaidAmount:          number(in.PaidAmount),
		PaymentMethod:       defaultPaymentMethod,
	}
	if in.Balance != nil {
		bill.Balance = number(in.Balance)
	} else {
		bill.Balance = bill.Total - bill.PaidAmount
	}
	if in.PaymentMethod != nil && strings.TrimSpace(*in.PaymentMethod) != "" {
		bill.PaymentMethod = strings.TrimSpace(*in.PaymentMethod)
	}
	if in.BilledTo != nil && *in.BilledTo != "" {
		billedTo := *in.BilledTo
		bill.BilledTo = &billedTo
	}
	return bill
}

func billItem(in *entity.BillItemInput) entity.BillItem {
	if in == nil {
		return entity.BillItem{}
	}
	item := entity.BillItem{
		Quantity:  number(in.Quantity),
		UnitPrice: number(in.UnitPrice),
		Amount:    number(in.Amount),
	}
	if in.Label != nil {
		item.Label = *in.Label
	}
	return item
}

func itemInput(item entity.BillItem) entity.BillItemInput {
	label := item.Label
	return entity.BillItemInput{
		Label:     &label,
		Quantity:  floatPtr(item.Quantity),
		UnitPrice: floatPtr(item.UnitPrice),
		Amount:    floatPtr(item.Amount),
	}
}

func number(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func floatPtr(v float64) *float64 {
	return &v
}

// ShouldArchive reports whether a checkout produces a billing history
// record: any positive total, or a zero total billed to a company.
func ShouldArchive(bill entity.FinalBill, stay entity.Stay) bool {
	return bill.Total > 0 || (stay.BilledToCompany && bill.Total == 0)
}
