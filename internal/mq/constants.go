package mq

// Queue names and message definitions

// immediate queue from the booking transaction to the showing lifecycle
// consumer; one message per confirmed booking
const (
	BookingConfirmedQueue = "booking.showing.confirmed.immediate"
)

type BookingConfirmedMessage struct {
	Reference string `json:"reference"`
	ShowingID uint   `json:"showing_id"`
	Seats     int    `json:"seats"`
}

// immediate queue from cancellation to the showing lifecycle consumer;
// one message per cancelled booking
const (
	BookingCancelledQueue = "booking.showing.cancelled.immediate"
)

type BookingCancelledMessage struct {
	Reference string `json:"reference"`
	ShowingID uint   `json:"showing_id"`
	Seats     int    `json:"seats"`
}
