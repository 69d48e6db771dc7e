package model

import (
	"fmt"
	"time"
)

type Movie struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:100;not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Language    string `gorm:"size:32"`
	Genre       string `gorm:"size:32"`
	DurationMin int    `gorm:"not null"`
}

type Theatre struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null"`
	Address string `gorm:"size:200"`
	City    string `gorm:"size:64;not null;index"`
}

type Screen struct {
	ID         uint   `gorm:"primaryKey"`
	TheatreID  uint   `gorm:"not null;index"`
	Name       string `gorm:"size:64;not null"`
	TotalSeats int    `gorm:"not null"`
}

// Seat is a fixed physical seat of a screen. Rows and numbers are
// immutable once created; pricing for a particular showing lives on the
// per-showing seat state, not here.
type Seat struct {
	ID        uint         `gorm:"primaryKey"`
	ScreenID  uint         `gorm:"not null;index:idx_screen_row_number,unique"`
	Row       string       `gorm:"size:4;not null;index:idx_screen_row_number,unique"`
	Number    int          `gorm:"not null;index:idx_screen_row_number,unique"`
	Category  SeatCategory `gorm:"type:varchar(16);not null"`
	BasePrice float64      `gorm:"not null"`
}

// Identifier returns the human form of the seat position, e.g. "A-1".
func (s *Seat) Identifier() string {
	return fmt.Sprintf("%s-%d", s.Row, s.Number)
}

type Showing struct {
	ID             uint          `gorm:"primaryKey"`
	MovieID        uint          `gorm:"not null;index"`
	TheatreID      uint          `gorm:"not null;index"`
	ScreenID       uint          `gorm:"not null;index"`
	StartAt        time.Time     `gorm:"not null;index"`
	EndAt          time.Time     `gorm:"not null"`
	Status         ShowingStatus `gorm:"type:varchar(20);not null"`
	TotalSeats     int           `gorm:"not null"`
	AvailableSeats int           `gorm:"not null"`
}

// discount window bounds, local start hour
const (
	discountWindowStartHour = 12
	discountWindowEndHour   = 17
)

// InDiscountWindow reports whether the showing starts inside the
// afternoon discount window.
func (s *Showing) InDiscountWindow() bool {
	h := s.StartAt.Hour()
	return h >= discountWindowStartHour && h < discountWindowEndHour
}

// Bookable reports whether the showing can still accept bookings based
// on its status alone. Start-time checks are the booking service's job.
func (s *Showing) Bookable() bool {
	switch s.Status {
	case ShowingCancelled, ShowingCompleted, ShowingHousefull:
		return false
	}
	return true
}

type Booking struct {
	ID                  uint          `gorm:"primaryKey"`
	Reference           string        `gorm:"size:16;not null;uniqueIndex"`
	ShowingID           uint          `gorm:"not null;index"`
	CustomerName        string        `gorm:"size:100;not null"`
	CustomerEmail       string        `gorm:"size:100;not null"`
	CustomerPhone       string        `gorm:"size:20"`
	NumberOfSeats       int           `gorm:"not null"`
	BaseAmount          float64       `gorm:"not null"`
	DiscountAmount      float64       `gorm:"not null"`
	FinalAmount         float64       `gorm:"not null"`
	DiscountDescription string        `gorm:"size:200"`
	Status              BookingStatus `gorm:"type:varchar(16);not null"`
	PaymentStatus       PaymentStatus `gorm:"type:varchar(16);not null"`
	BookedAt            time.Time     `gorm:"not null"`
	Seats               []BookingSeat `gorm:"foreignKey:BookingID"`
}

// Terminal reports whether the booking can no longer change state.
func (b *Booking) Terminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}

// BookingSeat records one claimed (showing, seat) key together with the
// price the seat was sold at. It is a back-reference used for
// cancellation and detail lookups, not ownership of the seat state.
type BookingSeat struct {
	ID        uint    `gorm:"primaryKey"`
	BookingID uint    `gorm:"not null;index"`
	ShowingID uint    `gorm:"not null;index:idx_showing_seat"`
	SeatID    uint    `gorm:"not null;index:idx_showing_seat"`
	Price     float64 `gorm:"not null"`
}
