package wire

import (
	"hotel-pms/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

const stayPath = "/rooms/{roomID}/stays/{stayID}"

func wireStay(
	r chi.Router,
	stayHandler *adaptor.StayHandler,
	billingHandler *adaptor.BillingHandler,
	guestHandler *adaptor.GuestHandler,
) {
	r.Delete(stayPath, stayHandler.RemoveStay)
	r.Post(stayPath+"/check-in", stayHandler.CheckIn)
	r.Post(stayPath+"/checkout", stayHandler.Checkout) // ?force=true skips the balance check
	r.Post(stayPath+"/discount", stayHandler.ApplyDiscount)
	r.Post(stayPath+"/payments", stayHandler.RecordPayment)

	r.Get(stayPath+"/charges", billingHandler.ListCharges)
	r.Post(stayPath+"/charges", billingHandler.LogCharge)
	r.Get(stayPath+"/bill", billingHandler.LiveBill)
	r.Get(stayPath+"/invoice", billingHandler.Invoice)
	r.Get(stayPath+"/qr", guestHandler.StayQR)

	// Archive
	r.Get("/history", billingHandler.History)
	r.Get("/history/{stayID}", billingHandler.ArchivedStay)
}
