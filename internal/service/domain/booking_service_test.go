package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cinehall/booking/internal/inventory"
	"github.com/cinehall/booking/internal/model"
	"github.com/cinehall/booking/internal/service"
)

type fakeShowingService struct {
	showing     *model.Showing
	describeErr error
}

func (f *fakeShowingService) GetByID(id uint) (*model.Showing, error) {
	if f.showing == nil || f.showing.ID != id {
		return nil, service.ErrNotFound
	}
	return f.showing, nil
}

func (f *fakeShowingService) Describe(showing *model.Showing) (*ShowingDetails, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &ShowingDetails{
		ShowingID:   showing.ID,
		MovieTitle:  "Inception",
		TheatreName: "PVR Phoenix",
		ScreenName:  "Screen 1",
		City:        "Mumbai",
		StartAt:     showing.StartAt,
		EndAt:       showing.EndAt,
	}, nil
}

func (f *fakeShowingService) RefreshStatus(showingID uint, available int) (model.ShowingStatus, error) {
	return f.showing.Status, nil
}

type fakeLedgerService struct {
	minted    int
	recordErr error
	bookings  map[string]*model.Booking
}

func newFakeLedger() *fakeLedgerService {
	return &fakeLedgerService{bookings: make(map[string]*model.Booking)}
}

func (f *fakeLedgerService) MintReference() (string, error) {
	f.minted++
	return fmt.Sprintf("BKTEST%06d", f.minted), nil
}

func (f *fakeLedgerService) Record(booking *model.Booking) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.bookings[booking.Reference] = booking
	return nil
}

func (f *fakeLedgerService) FindByReference(reference string) (*model.Booking, error) {
	booking, ok := f.bookings[reference]
	if !ok {
		return nil, service.ErrNotFound
	}
	return booking, nil
}

func (f *fakeLedgerService) MarkCancelled(reference string) (*model.Booking, error) {
	booking, ok := f.bookings[reference]
	if !ok {
		return nil, service.ErrNotFound
	}
	if booking.Terminal() {
		return nil, service.NewBookingStateError("booking %s is already cancelled", reference)
	}
	booking.Status = model.BookingCancelled
	booking.PaymentStatus = model.PaymentRefunded
	return booking, nil
}

var (
	_ ShowingService = (*fakeShowingService)(nil)
	_ LedgerService  = (*fakeLedgerService)(nil)
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
}

func newTestShowing(startHour int) *model.Showing {
	start := time.Date(2026, time.March, 11, startHour, 0, 0, 0, time.UTC)
	return &model.Showing{
		ID:             1,
		MovieID:        1,
		TheatreID:      1,
		ScreenID:       1,
		StartAt:        start,
		EndAt:          start.Add(3 * time.Hour),
		Status:         model.ShowingOpenForBooking,
		TotalSeats:     5,
		AvailableSeats: 5,
	}
}

func seedInventory(showingID uint) *inventory.Inventory {
	inv := inventory.New(2 * time.Second)
	inv.Register(showingID, []inventory.SeatState{
		{SeatID: 1, Label: "A-1", Category: model.SeatVIP, Status: model.SeatAvailable, Price: 500},
		{SeatID: 2, Label: "A-2", Category: model.SeatVIP, Status: model.SeatAvailable, Price: 500},
		{SeatID: 3, Label: "B-1", Category: model.SeatRegular, Status: model.SeatAvailable, Price: 200},
		{SeatID: 4, Label: "B-2", Category: model.SeatRegular, Status: model.SeatAvailable, Price: 200},
		{SeatID: 5, Label: "B-3", Category: model.SeatRegular, Status: model.SeatAvailable, Price: 200},
	})
	return inv
}

func newTestService(showing *model.Showing, ledger LedgerService) (*bookingService, *inventory.Inventory) {
	inv := seedInventory(showing.ID)
	showings := &fakeShowingService{showing: showing}
	svc := NewBookingService(showings, inv, ledger, zap.NewNop().Sugar()).WithClock(fixedClock)
	return svc, inv
}

// flakyInventory fails releases on demand while delegating everything
// else to the real inventory.
type flakyInventory struct {
	*inventory.Inventory
	failRelease bool
}

func (f *flakyInventory) Release(showingID uint, ref string, seatIDs []uint) (int, error) {
	if f.failRelease {
		return 0, &inventory.UnavailableError{ShowingID: showingID, SeatIDs: seatIDs}
	}
	return f.Inventory.Release(showingID, ref, seatIDs)
}

func validRequest(seatIDs ...uint) BookRequest {
	return BookRequest{
		ShowingID:     1,
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9876543210",
		SeatIDs:       seatIDs,
	}
}

func TestBook_Success(t *testing.T) {
	ledger := newFakeLedger()
	svc, inv := newTestService(newTestShowing(20), ledger)

	result, err := svc.Book(validRequest(1, 3, 4))
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	if result.Booking.Reference != "BKTEST000001" {
		t.Errorf("reference = %q", result.Booking.Reference)
	}
	if result.Booking.Status != model.BookingConfirmed {
		t.Errorf("status = %s, want CONFIRMED", result.Booking.Status)
	}
	if result.Booking.PaymentStatus != model.PaymentPending {
		t.Errorf("payment status = %s, want PENDING", result.Booking.PaymentStatus)
	}
	if !result.Booking.BookedAt.Equal(fixedClock()) {
		t.Errorf("booked at = %v", result.Booking.BookedAt)
	}

	// 500 + 200 + 200 base, 50% off the cheapest seat for 3 tickets
	if result.Pricing.BaseAmount != 900 {
		t.Errorf("base amount = %v, want 900", result.Pricing.BaseAmount)
	}
	if result.Pricing.DiscountAmount != 100 {
		t.Errorf("discount amount = %v, want 100", result.Pricing.DiscountAmount)
	}
	if result.Pricing.FinalAmount != 800 {
		t.Errorf("final amount = %v, want 800", result.Pricing.FinalAmount)
	}

	if len(result.Booking.Seats) != 3 {
		t.Fatalf("booking seats = %d, want 3", len(result.Booking.Seats))
	}
	if _, ok := ledger.bookings[result.Booking.Reference]; !ok {
		t.Error("booking was not recorded in the ledger")
	}
	available, _ := inv.Available(1)
	if available != 2 {
		t.Errorf("available = %d, want 2", available)
	}
}

func TestBook_AfternoonShowingGetsWindowDiscount(t *testing.T) {
	svc, _ := newTestService(newTestShowing(14), newFakeLedger())

	result, err := svc.Book(validRequest(3))
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	if result.Pricing.DiscountAmount != 40 {
		t.Errorf("discount amount = %v, want 40 (20%% of 200)", result.Pricing.DiscountAmount)
	}
	if result.Pricing.FinalAmount != 160 {
		t.Errorf("final amount = %v, want 160", result.Pricing.FinalAmount)
	}
}

func TestBook_SeatConflict(t *testing.T) {
	svc, _ := newTestService(newTestShowing(20), newFakeLedger())

	if _, err := svc.Book(validRequest(1, 2)); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := svc.Book(validRequest(2, 3))
	var unavailable *inventory.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("error = %v, want *inventory.UnavailableError", err)
	}
	if len(unavailable.SeatIDs) != 1 || unavailable.SeatIDs[0] != 2 {
		t.Errorf("conflicting seats = %v, want [2]", unavailable.SeatIDs)
	}
}

func TestBook_ReleasesSeatsWhenLedgerFails(t *testing.T) {
	ledger := newFakeLedger()
	ledger.recordErr = errors.New("database down")
	svc, inv := newTestService(newTestShowing(20), ledger)

	if _, err := svc.Book(validRequest(1, 2)); err == nil {
		t.Fatal("booking should fail when the ledger write fails")
	}

	available, _ := inv.Available(1)
	if available != 5 {
		t.Errorf("available = %d after compensation, want 5", available)
	}
	states, _ := inv.Snapshot(1)
	for _, st := range states {
		if st.Status != model.SeatAvailable {
			t.Errorf("seat %d status = %s, want AVAILABLE", st.SeatID, st.Status)
		}
	}
}

func TestBook_ShowingStateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *model.Showing)
	}{
		{"cancelled", func(s *model.Showing) { s.Status = model.ShowingCancelled }},
		{"completed", func(s *model.Showing) { s.Status = model.ShowingCompleted }},
		{"housefull", func(s *model.Showing) { s.Status = model.ShowingHousefull }},
		{"already started", func(s *model.Showing) {
			s.StartAt = fixedClock().Add(-time.Hour)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			showing := newTestShowing(20)
			tc.mutate(showing)
			svc, _ := newTestService(showing, newFakeLedger())

			_, err := svc.Book(validRequest(1))
			if !errors.Is(err, service.ErrBookingState) {
				t.Errorf("error = %v, want ErrBookingState", err)
			}
		})
	}
}

func TestBook_Validation(t *testing.T) {
	svc, _ := newTestService(newTestShowing(20), newFakeLedger())

	tooMany := make([]uint, inventory.MaxSeatsPerClaim+1)
	for i := range tooMany {
		tooMany[i] = uint(i + 1)
	}

	cases := []struct {
		name string
		req  BookRequest
	}{
		{"missing name", BookRequest{ShowingID: 1, CustomerEmail: "a@b.com", SeatIDs: []uint{1}}},
		{"bad email", BookRequest{ShowingID: 1, CustomerName: "Asha", CustomerEmail: "not-an-email", SeatIDs: []uint{1}}},
		{"no seats", BookRequest{ShowingID: 1, CustomerName: "Asha", CustomerEmail: "a@b.com"}},
		{"duplicate seats", validRequest(1, 1)},
		{"too many seats", BookRequest{ShowingID: 1, CustomerName: "Asha", CustomerEmail: "a@b.com", SeatIDs: tooMany}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Book(tc.req)
			if !errors.Is(err, service.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestBook_UnknownShowing(t *testing.T) {
	svc, _ := newTestService(newTestShowing(20), newFakeLedger())

	req := validRequest(1)
	req.ShowingID = 99
	if _, err := svc.Book(req); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCancel_ReleasesSeats(t *testing.T) {
	ledger := newFakeLedger()
	svc, inv := newTestService(newTestShowing(20), ledger)

	booked, err := svc.Book(validRequest(1, 2))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	cancelled, err := svc.Cancel(booked.Booking.Reference)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Booking.Status != model.BookingCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Booking.Status)
	}
	if cancelled.Booking.PaymentStatus != model.PaymentRefunded {
		t.Errorf("payment status = %s, want REFUNDED", cancelled.Booking.PaymentStatus)
	}

	available, _ := inv.Available(1)
	if available != 5 {
		t.Errorf("available = %d after cancel, want 5", available)
	}

	// the freed seats are claimable again
	if _, err := svc.Book(validRequest(1, 2)); err != nil {
		t.Errorf("rebooking freed seats failed: %v", err)
	}
}

func TestCancel_TerminalBookingRejected(t *testing.T) {
	svc, _ := newTestService(newTestShowing(20), newFakeLedger())

	booked, err := svc.Book(validRequest(1))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := svc.Cancel(booked.Booking.Reference); err != nil {
		t.Fatalf("first cancel: %v", err)
	}

	_, err = svc.Cancel(booked.Booking.Reference)
	if !errors.Is(err, service.ErrBookingState) {
		t.Errorf("second cancel error = %v, want ErrBookingState", err)
	}
}

func TestCancel_RetryReleasesSeatsAfterFailedRelease(t *testing.T) {
	ledger := newFakeLedger()
	showing := newTestShowing(20)
	flaky := &flakyInventory{Inventory: seedInventory(showing.ID)}
	showings := &fakeShowingService{showing: showing}
	svc := NewBookingService(showings, flaky, ledger, zap.NewNop().Sugar()).WithClock(fixedClock)

	booked, err := svc.Book(validRequest(1, 2))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	ref := booked.Booking.Reference

	// ledger commit succeeds, seat release fails
	flaky.failRelease = true
	if _, err := svc.Cancel(ref); err == nil {
		t.Fatal("cancel should surface the release failure")
	}
	if ledger.bookings[ref].Status != model.BookingCancelled {
		t.Fatalf("ledger status = %s, want CANCELLED", ledger.bookings[ref].Status)
	}
	states, _ := flaky.Snapshot(showing.ID)
	for _, st := range states[:2] {
		if st.Status != model.SeatBooked || st.BookingRef != ref {
			t.Fatalf("seat %d = %s ref %q before retry, want BOOKED under %q",
				st.SeatID, st.Status, st.BookingRef, ref)
		}
	}

	// the retry hits the already-cancelled path but must still free the seats
	flaky.failRelease = false
	_, err = svc.Cancel(ref)
	if !errors.Is(err, service.ErrBookingState) {
		t.Fatalf("retried cancel error = %v, want ErrBookingState", err)
	}

	available, _ := flaky.Available(showing.ID)
	if available != 5 {
		t.Errorf("available = %d after retried cancel, want 5", available)
	}
	states, _ = flaky.Snapshot(showing.ID)
	for _, st := range states[:2] {
		if st.Status != model.SeatAvailable || st.BookingRef != "" {
			t.Errorf("seat %d = %s ref %q, want AVAILABLE with no ref",
				st.SeatID, st.Status, st.BookingRef)
		}
	}
	if _, err := svc.Book(validRequest(1, 2)); err != nil {
		t.Errorf("rebooking freed seats failed: %v", err)
	}
}

func TestBook_DescribeFailureStillReturnsBooking(t *testing.T) {
	ledger := newFakeLedger()
	showing := newTestShowing(20)
	inv := seedInventory(showing.ID)
	showings := &fakeShowingService{showing: showing, describeErr: errors.New("catalog offline")}
	svc := NewBookingService(showings, inv, ledger, zap.NewNop().Sugar()).WithClock(fixedClock)

	result, err := svc.Book(validRequest(1))
	if err != nil {
		t.Fatalf("book should commit despite the describe failure: %v", err)
	}
	if result.Booking.Reference == "" {
		t.Fatal("reference missing from the result")
	}
	if _, ok := ledger.bookings[result.Booking.Reference]; !ok {
		t.Error("booking was not recorded in the ledger")
	}
	if result.Showing.ShowingID != showing.ID {
		t.Errorf("showing id = %d, want %d", result.Showing.ShowingID, showing.ID)
	}
	if !result.Showing.StartAt.Equal(showing.StartAt) {
		t.Errorf("start at = %v, want %v", result.Showing.StartAt, showing.StartAt)
	}
	if result.Showing.MovieTitle != "" {
		t.Errorf("movie title = %q, want degraded empty details", result.Showing.MovieTitle)
	}
}

func TestGetByReference(t *testing.T) {
	svc, _ := newTestService(newTestShowing(20), newFakeLedger())

	booked, err := svc.Book(validRequest(1, 3))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	got, err := svc.GetByReference(booked.Booking.Reference)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Pricing.FinalAmount != booked.Pricing.FinalAmount {
		t.Errorf("final amount = %v, want %v", got.Pricing.FinalAmount, booked.Pricing.FinalAmount)
	}
	if len(got.Seats) != 2 {
		t.Fatalf("seats = %d, want 2", len(got.Seats))
	}
	if got.Seats[0].Label != "A-1" || got.Seats[1].Label != "B-1" {
		t.Errorf("seat labels = %q, %q", got.Seats[0].Label, got.Seats[1].Label)
	}
	if got.Showing.MovieTitle != "Inception" {
		t.Errorf("movie title = %q", got.Showing.MovieTitle)
	}

	if _, err := svc.GetByReference("BKMISSING001"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("missing reference error = %v, want ErrNotFound", err)
	}
}
