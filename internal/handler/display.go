package handler

import "github.com/cinehall/booking/internal/model"

// Presentation labels for the closed status sets. Kept out of the model
// package so domain types stay display-free.

var bookingStatusNames = map[model.BookingStatus]string{
	model.BookingPending:   "Pending",
	model.BookingConfirmed: "Confirmed",
	model.BookingCancelled: "Cancelled",
	model.BookingExpired:   "Expired",
	model.BookingCompleted: "Completed",
}

var paymentStatusNames = map[model.PaymentStatus]string{
	model.PaymentPending:    "Pending",
	model.PaymentProcessing: "Processing",
	model.PaymentCompleted:  "Completed",
	model.PaymentFailed:     "Failed",
	model.PaymentRefunded:   "Refunded",
}

var seatCategoryNames = map[model.SeatCategory]string{
	model.SeatRegular: "Regular",
	model.SeatPremium: "Premium",
	model.SeatVIP:     "VIP",
}

var showingStatusNames = map[model.ShowingStatus]string{
	model.ShowingScheduled:      "Scheduled",
	model.ShowingOpenForBooking: "Open for Booking",
	model.ShowingAlmostFull:     "Almost Full",
	model.ShowingHousefull:      "Housefull",
	model.ShowingCancelled:      "Cancelled",
	model.ShowingCompleted:      "Completed",
}

func displayBookingStatus(s model.BookingStatus) string {
	if name, ok := bookingStatusNames[s]; ok {
		return name
	}
	return string(s)
}

func displayPaymentStatus(s model.PaymentStatus) string {
	if name, ok := paymentStatusNames[s]; ok {
		return name
	}
	return string(s)
}

func displaySeatCategory(c model.SeatCategory) string {
	if name, ok := seatCategoryNames[c]; ok {
		return name
	}
	return string(c)
}

func displayShowingStatus(s model.ShowingStatus) string {
	if name, ok := showingStatusNames[s]; ok {
		return name
	}
	return string(s)
}
