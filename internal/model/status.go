package model

type ShowingStatus string

const (
	ShowingScheduled      ShowingStatus = "SCHEDULED"
	ShowingOpenForBooking ShowingStatus = "OPEN_FOR_BOOKING"
	ShowingAlmostFull     ShowingStatus = "ALMOST_FULL"
	ShowingHousefull      ShowingStatus = "HOUSEFULL"
	ShowingCancelled      ShowingStatus = "CANCELLED"
	ShowingCompleted      ShowingStatus = "COMPLETED"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

// SeatStatus is the per-showing state of one physical seat. The
// inventory core only ever transitions between AVAILABLE and BOOKED;
// BLOCKED and UNAVAILABLE are administrative states set outside the
// booking path.
type SeatStatus string

const (
	SeatAvailable   SeatStatus = "AVAILABLE"
	SeatBlocked     SeatStatus = "BLOCKED"
	SeatBooked      SeatStatus = "BOOKED"
	SeatUnavailable SeatStatus = "UNAVAILABLE"
)

type SeatCategory string

const (
	SeatRegular SeatCategory = "REGULAR"
	SeatPremium SeatCategory = "PREMIUM"
	SeatVIP     SeatCategory = "VIP"
)
