package usecase

import (
	"math"
	"testing"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTax = TaxConfig{GSTRate: 18, ServiceChargeRate: 10}

func twoNightStay(charge float64) entity.Stay {
	return entity.Stay{
		ID:         "101-abcdef",
		GuestName:  "Asha",
		RoomCharge: charge,
		CheckIn:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		Status:     entity.StayStatusCheckedIn,
	}
}

func charge(service string, qty, price float64) *entity.ChargeLogEntry {
	return &entity.ChargeLogEntry{Service: service, Quantity: qty, Price: price}
}

func TestComputeBill_TaxesApplyToDiscountedSubtotal(t *testing.T) {
	bill := ComputeBill(twoNightStay(1000), []*entity.ChargeLogEntry{charge("Laundry", 1, 500)}, testTax)

	assert.Equal(t, 2, bill.Nights)
	assert.InDelta(t, 2000, bill.RoomTotal, 1e-9)
	assert.InDelta(t, 500, bill.ServicesTotal, 1e-9)
	assert.InDelta(t, 2500, bill.Subtotal, 1e-9)
	assert.InDelta(t, 250, bill.ServiceChargeAmount, 1e-9)
	assert.InDelta(t, 450, bill.TaxAmount, 1e-9)
	assert.InDelta(t, 3200, bill.Total, 1e-9)
	assert.InDelta(t, 3200, bill.Balance, 1e-9)
}

func TestComputeBill_FlatDiscount(t *testing.T) {
	stay := twoNightStay(1000)
	stay.Discount = &entity.Discount{Type: entity.DiscountFlat, Value: 300}
	stay.PaidAmount = 816

	bill := ComputeBill(stay, []*entity.ChargeLogEntry{charge("Laundry", 1, 500)}, testTax)

	assert.InDelta(t, 300, bill.DiscountAmount, 1e-9)
	assert.InDelta(t, 2200, bill.DiscountedSubtotal, 1e-9)
	assert.InDelta(t, 2816, bill.Total, 1e-9)
	assert.InDelta(t, 2000, bill.Balance, 1e-9)
	assert.InDelta(t, bill.Total-bill.PaidAmount, bill.Balance, 1e-9)
}

func TestComputeBill_DiscountIsClamped(t *testing.T) {
	tests := []struct {
		name     string
		discount entity.Discount
		want     float64
	}{
		{"flat above subtotal", entity.Discount{Type: entity.DiscountFlat, Value: 5000}, 2000},
		{"negative flat", entity.Discount{Type: entity.DiscountFlat, Value: -50}, 0},
		{"percent above hundred", entity.Discount{Type: entity.DiscountPercent, Value: 150}, 2000},
		{"ten percent", entity.Discount{Type: entity.DiscountPercent, Value: 10}, 200},
		{"unknown type", entity.Discount{Type: "coupon", Value: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stay := twoNightStay(1000)
			d := tt.discount
			stay.Discount = &d

			bill := ComputeBill(stay, nil, testTax)

			assert.InDelta(t, tt.want, bill.DiscountAmount, 1e-9)
			assert.GreaterOrEqual(t, bill.Total, 0.0)
		})
	}
}

func TestComputeBill_SameDayStayBillsOneNight(t *testing.T) {
	stay := twoNightStay(1000)
	stay.CheckOut = stay.CheckIn

	bill := ComputeBill(stay, nil, TaxConfig{})

	assert.Equal(t, 1, bill.Nights)
	assert.InDelta(t, 1000, bill.Total, 1e-9)
}

func TestComputeBill_IsDeterministic(t *testing.T) {
	charges := []*entity.ChargeLogEntry{charge("Tea (x2)", 0, 80), charge("tea", 1, 40)}

	first := ComputeBill(twoNightStay(1000), charges, testTax)
	second := ComputeBill(twoNightStay(1000), charges, testTax)

	assert.Equal(t, first, second)
}

func TestComputeClubbedBill(t *testing.T) {
	primary := twoNightStay(1000)
	primary.PaidAmount = 100
	member := twoNightStay(800)
	member.ID = "102-abcdef"
	member.PaidAmount = 50

	bill := ComputeClubbedBill(primary, []entity.Stay{member}, nil, TaxConfig{})

	assert.Equal(t, "Room charges (2 rooms)", bill.RoomCharge.Label)
	assert.InDelta(t, 4, bill.RoomCharge.Quantity, 1e-9)
	assert.InDelta(t, 3600, bill.RoomTotal, 1e-9)
	assert.InDelta(t, 900, bill.RoomCharge.UnitPrice, 1e-9)
	assert.InDelta(t, 150, bill.PaidAmount, 1e-9)
	assert.InDelta(t, 3450, bill.Balance, 1e-9)
}

func TestNormalizeServiceName(t *testing.T) {
	name, qty := NormalizeServiceName("Laundry (x3)")
	assert.Equal(t, "Laundry", name)
	assert.Equal(t, 3.0, qty)

	name, qty = NormalizeServiceName("  Mini bar ( x 1.5 ) ")
	assert.Equal(t, "Mini bar", name)
	assert.Equal(t, 1.5, qty)

	name, qty = NormalizeServiceName("Room service")
	assert.Equal(t, "Room service", name)
	assert.Zero(t, qty)
}

func TestGroupBillItems_MergesByNormalizedName(t *testing.T) {
	items := []entity.BillItem{
		{Label: "Laundry (x2)", Amount: 200},
		{Label: "Tea", Quantity: 3, Amount: 60},
		{Label: "laundry", Quantity: 1, Amount: 100},
	}

	grouped := GroupBillItems(items)

	require.Len(t, grouped, 2)
	assert.Equal(t, entity.BillItem{Label: "Laundry", Quantity: 3, UnitPrice: 100, Amount: 300}, grouped[0])
	assert.Equal(t, entity.BillItem{Label: "Tea", Quantity: 3, UnitPrice: 20, Amount: 60}, grouped[1])
	assert.Equal(t, grouped, GroupBillItems(grouped))
}

func TestBillViewsAgreeOnServiceLines(t *testing.T) {
	t.Run("computed", func(t *testing.T) {
		charges := []*entity.ChargeLogEntry{
			charge("Laundry", 1, 150),
			charge("Laundry (x2)", 0, 300),
			charge("Spa", 1, 1200),
		}

		summary := ComputeBill(twoNightStay(1000), charges, testTax)
		final := NewFinalBill(summary.ToBillInput("Card"))

		assert.Equal(t, summary.Services, final.Services)

		var live []string
		for _, item := range summary.Services {
			live = append(live, FormatBillLine(item))
		}
		assert.Equal(t, live, InvoiceServiceLines(final.Services))
		assert.Len(t, live, 2)
	})

	t.Run("through checkout", func(t *testing.T) {
		f := newFixture(t)
		room := f.createRoom("101")
		roomID := room.ID.String()
		stay := f.book(room, "2024-03-10", "2024-03-12", 1000)
		f.checkIn(room, stay.ID)

		for _, c := range []request.LogChargeRequest{
			{Service: "Laundry", Quantity: 1, Price: 150},
			{Service: "laundry (x2)", Quantity: 2, Price: 300},
			{Service: "Spa", Quantity: 1, Price: 1200},
		} {
			_, err := f.svc.Billing.LogCharge(f.ctx, f.hotelID(), roomID, stay.ID, &c)
			require.NoError(t, err)
		}

		live, err := f.svc.Billing.LiveBill(f.ctx, f.hotelID(), roomID, stay.ID)
		require.NoError(t, err)
		liveInvoice, err := f.svc.Billing.LiveInvoice(f.ctx, f.hotelID(), roomID, stay.ID)
		require.NoError(t, err)

		result, err := f.svc.Stay.ArchiveStay(f.ctx, f.hotelID(), roomID, stay.ID, &request.CheckoutRequest{PaymentMethod: "Card"})
		require.NoError(t, err)
		require.NotNil(t, result.Record)

		record, archivedInvoice, err := f.svc.Billing.ArchivedStay(f.ctx, f.hotelID(), stay.ID)
		require.NoError(t, err)

		require.Len(t, live.Summary.Services, 2)
		assert.Equal(t, live.Summary.Services, result.Record.FinalBill.Services)
		assert.Equal(t, live.Summary.Services, record.FinalBill.Services)
		assert.Equal(t, live.Summary.RoomCharge, record.FinalBill.RoomCharge)
		assert.InDelta(t, live.Summary.Total, record.FinalBill.Total, 1e-9)
		assert.Equal(t, "Card", record.FinalBill.PaymentMethod)

		var lines []string
		for _, item := range live.Summary.Services {
			lines = append(lines, FormatBillLine(item))
		}
		assert.Equal(t, lines, InvoiceServiceLines(record.FinalBill.Services))
		for _, line := range lines {
			assert.Contains(t, liveInvoice, line)
			assert.Contains(t, archivedInvoice, line)
		}
	})
}

func TestNewFinalBill_DefaultsMissingFields(t *testing.T) {
	nan := math.NaN()
	total := 500.0
	paid := 200.0
	blank := "  "

	bill := NewFinalBill(entity.BillInput{
		Subtotal:      &nan,
		Total:         &total,
		PaidAmount:    &paid,
		PaymentMethod: &blank,
		Services:      []entity.BillItemInput{{Amount: &total}},
	})

	assert.Zero(t, bill.Subtotal)
	assert.Zero(t, bill.TaxAmount)
	assert.Equal(t, entity.BillItem{}, bill.RoomCharge)
	assert.InDelta(t, 300, bill.Balance, 1e-9)
	assert.Equal(t, "Unknown", bill.PaymentMethod)
	require.Len(t, bill.Services, 1)
	assert.Equal(t, "", bill.Services[0].Label)
	assert.Nil(t, bill.BilledTo)
}

func TestNewFinalBill_KeepsSuppliedBalance(t *testing.T) {
	total := 500.0
	balance := 0.0
	method := " UPI "

	bill := NewFinalBill(entity.BillInput{Total: &total, Balance: &balance, PaymentMethod: &method})

	assert.Zero(t, bill.Balance)
	assert.Equal(t, "UPI", bill.PaymentMethod)
}

func TestShouldArchive(t *testing.T) {
	personal := entity.Stay{}
	corporate := entity.Stay{BilledToCompany: true}

	assert.True(t, ShouldArchive(entity.FinalBill{Total: 10}, personal))
	assert.False(t, ShouldArchive(entity.FinalBill{}, personal))
	assert.True(t, ShouldArchive(entity.FinalBill{}, corporate))
}

func TestRenderInvoice(t *testing.T) {
	company := "Acme"
	billedTo := "101-master"
	bill := NewFinalBill(ComputeBill(twoNightStay(1000), []*entity.ChargeLogEntry{charge("Laundry", 1, 500)}, testTax).ToBillInput("Cash"))
	bill.BilledTo = &billedTo

	text := RenderInvoice(InvoiceHeader{
		HotelName:   "Seaside",
		Currency:    "INR",
		RoomNumber:  "101",
		StayID:      "101-abcdef",
		GuestName:   "Asha",
		CompanyName: &company,
		CheckIn:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	}, bill)

	assert.Contains(t, text, "INVOICE  Seaside")
	assert.Contains(t, text, "2024-03-10 -> 2024-03-12")
	assert.Contains(t, text, "Acme")
	assert.Contains(t, text, "101-master")
	assert.Contains(t, text, "3200.00")
	assert.Contains(t, text, "Cash")
	assert.NotContains(t, text, "Discount")
}
