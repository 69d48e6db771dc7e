package model

import (
	"testing"
	"time"
)

func showingAt(hour, min int) *Showing {
	return &Showing{StartAt: time.Date(2026, time.March, 11, hour, min, 0, 0, time.UTC)}
}

func TestShowing_InDiscountWindow(t *testing.T) {
	cases := []struct {
		hour, min int
		want      bool
	}{
		{11, 59, false},
		{12, 0, true},
		{14, 30, true},
		{16, 59, true},
		{17, 0, false},
		{20, 0, false},
	}
	for _, tc := range cases {
		if got := showingAt(tc.hour, tc.min).InDiscountWindow(); got != tc.want {
			t.Errorf("start %02d:%02d: in window = %v, want %v", tc.hour, tc.min, got, tc.want)
		}
	}
}

func TestShowing_Bookable(t *testing.T) {
	for _, status := range []ShowingStatus{ShowingScheduled, ShowingOpenForBooking, ShowingAlmostFull} {
		if !(&Showing{Status: status}).Bookable() {
			t.Errorf("status %s should be bookable", status)
		}
	}
	for _, status := range []ShowingStatus{ShowingCancelled, ShowingCompleted, ShowingHousefull} {
		if (&Showing{Status: status}).Bookable() {
			t.Errorf("status %s should not be bookable", status)
		}
	}
}

func TestBooking_Terminal(t *testing.T) {
	if (&Booking{Status: BookingConfirmed}).Terminal() {
		t.Error("confirmed booking should not be terminal")
	}
	if !(&Booking{Status: BookingCancelled}).Terminal() {
		t.Error("cancelled booking should be terminal")
	}
}

func TestSeat_Identifier(t *testing.T) {
	seat := &Seat{Row: "C", Number: 7}
	if got := seat.Identifier(); got != "C-7" {
		t.Errorf("identifier = %q, want C-7", got)
	}
}
