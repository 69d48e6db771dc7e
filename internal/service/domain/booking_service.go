package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cinehall/booking/internal/inventory"
	"github.com/cinehall/booking/internal/model"
	"github.com/cinehall/booking/internal/pricing"
	"github.com/cinehall/booking/internal/service"
)

type BookRequest struct {
	ShowingID     uint
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	SeatIDs       []uint
}

// BookingResult bundles everything a caller needs to render a booking:
// the persisted record, the showing description and the price
// breakdown. For historical bookings the breakdown is reconstructed
// from the stored snapshot, never recomputed.
type BookingResult struct {
	Booking *model.Booking
	Showing *ShowingDetails
	Seats   []inventory.SeatState
	Pricing pricing.Result
}

type BookingService interface {
	Book(req BookRequest) (*BookingResult, error)
	GetByReference(reference string) (*BookingResult, error)
	Cancel(reference string) (*BookingResult, error)
}

// SeatInventory is what the booking transaction needs from the seat
// state engine.
type SeatInventory interface {
	Claim(showingID uint, ref string, seatIDs []uint) ([]inventory.SeatState, error)
	Release(showingID uint, ref string, seatIDs []uint) (int, error)
	Snapshot(showingID uint) ([]inventory.SeatState, error)
}

var _ SeatInventory = (*inventory.Inventory)(nil)

type bookingService struct {
	showings ShowingService
	inv      SeatInventory
	ledger   LedgerService
	logger   *zap.SugaredLogger
	now      func() time.Time
}

var _ BookingService = (*bookingService)(nil)

func NewBookingService(showings ShowingService, inv SeatInventory, ledger LedgerService, logger *zap.SugaredLogger) *bookingService {
	return &bookingService{
		showings: showings,
		inv:      inv,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock swaps the time source, for deterministic tests.
func (s *bookingService) WithClock(now func() time.Time) *bookingService {
	s.now = now
	return s
}

// Book runs the booking transaction: validate the showing, claim the
// seats atomically, price the claimed set, record the outcome. Any
// failure after the claim releases the seats before the error is
// surfaced, so a failed booking leaves no trace.
func (s *bookingService) Book(req BookRequest) (*BookingResult, error) {
	if err := validateBookRequest(req); err != nil {
		return nil, err
	}

	showing, err := s.showings.GetByID(req.ShowingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkShowingBookable(showing); err != nil {
		return nil, err
	}

	ref, err := s.ledger.MintReference()
	if err != nil {
		return nil, fmt.Errorf("mint booking reference: %w", err)
	}

	claimed, err := s.inv.Claim(showing.ID, ref, req.SeatIDs)
	if err != nil {
		if errors.Is(err, inventory.ErrUnknownShowing) || errors.Is(err, inventory.ErrUnknownSeat) {
			return nil, fmt.Errorf("%w: %v", service.ErrNotFound, err)
		}
		return nil, err
	}

	prices := make([]float64, len(claimed))
	for i, seat := range claimed {
		prices[i] = seat.Price
	}
	priced := pricing.Price(prices, showing.InDiscountWindow())

	booking := &model.Booking{
		Reference:           ref,
		ShowingID:           showing.ID,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		NumberOfSeats:       len(claimed),
		BaseAmount:          priced.BaseAmount,
		DiscountAmount:      priced.DiscountAmount,
		FinalAmount:         priced.FinalAmount,
		DiscountDescription: priced.DiscountDescription,
		Status:              model.BookingConfirmed,
		PaymentStatus:       model.PaymentPending,
		BookedAt:            s.now(),
	}
	for _, seat := range claimed {
		booking.Seats = append(booking.Seats, model.BookingSeat{
			ShowingID: showing.ID,
			SeatID:    seat.SeatID,
			Price:     seat.Price,
		})
	}

	if err := s.ledger.Record(booking); err != nil {
		if _, relErr := s.inv.Release(showing.ID, ref, req.SeatIDs); relErr != nil {
			s.logger.Errorw("failed to release seats after ledger write failure",
				"reference", ref, "showing_id", showing.ID, "error", relErr)
		}
		return nil, fmt.Errorf("record booking: %w", err)
	}

	s.logger.Infow("booking confirmed",
		"reference", ref,
		"showing_id", showing.ID,
		"seats", len(claimed),
		"final_amount", priced.FinalAmount,
	)

	return &BookingResult{
		Booking: booking,
		Showing: s.describeShowing(showing),
		Seats:   claimed,
		Pricing: priced,
	}, nil
}

// describeShowing never fails the request: once a booking has
// committed, the caller must get its reference back even when the
// catalog lookup for the showing description breaks.
func (s *bookingService) describeShowing(showing *model.Showing) *ShowingDetails {
	details, err := s.showings.Describe(showing)
	if err != nil {
		s.logger.Warnw("failed to describe showing for booking response",
			"showing_id", showing.ID, "error", err)
		return &ShowingDetails{
			ShowingID: showing.ID,
			StartAt:   showing.StartAt,
			EndAt:     showing.EndAt,
		}
	}
	return details
}

func (s *bookingService) GetByReference(reference string) (*BookingResult, error) {
	booking, err := s.ledger.FindByReference(reference)
	if err != nil {
		return nil, err
	}
	return s.buildResult(booking)
}

// Cancel marks the booking terminal and returns its seats to the
// inventory. The ledger commit is the point of no return; the seat
// release afterwards is idempotent, keyed to the booking reference and
// uses the same lock ordering as claims. If the release fails after
// the commit, retrying the cancel re-runs it: the already-cancelled
// path still releases any seats left holding this reference, so a
// failed release never strands seats past the next retry.
func (s *bookingService) Cancel(reference string) (*BookingResult, error) {
	booking, err := s.ledger.MarkCancelled(reference)
	if err != nil {
		if errors.Is(err, service.ErrBookingState) {
			s.releaseCancelledSeats(reference)
		}
		return nil, err
	}

	seatIDs := make([]uint, len(booking.Seats))
	for i, seat := range booking.Seats {
		seatIDs[i] = seat.SeatID
	}
	released, err := s.inv.Release(booking.ShowingID, reference, seatIDs)
	if err != nil {
		s.logger.Errorw("failed to release seats for cancelled booking",
			"reference", reference, "showing_id", booking.ShowingID, "error", err)
		return nil, fmt.Errorf("release seats for %s: %w", reference, err)
	}

	s.logger.Infow("booking cancelled",
		"reference", reference,
		"showing_id", booking.ShowingID,
		"seats_released", released,
	)
	return s.buildResult(booking)
}

// releaseCancelledSeats re-runs the seat release for a booking that is
// already CANCELLED. The release is keyed to the booking reference, so
// seats rebooked under another reference are left alone.
func (s *bookingService) releaseCancelledSeats(reference string) {
	booking, err := s.ledger.FindByReference(reference)
	if err != nil || booking.Status != model.BookingCancelled {
		return
	}
	seatIDs := make([]uint, len(booking.Seats))
	for i, seat := range booking.Seats {
		seatIDs[i] = seat.SeatID
	}
	if len(seatIDs) == 0 {
		return
	}
	if _, err := s.inv.Release(booking.ShowingID, reference, seatIDs); err != nil {
		s.logger.Errorw("failed to release seats for cancelled booking",
			"reference", reference, "showing_id", booking.ShowingID, "error", err)
	}
}

// buildResult reconstructs the price snapshot from the persisted
// record, keeping historical bookings stable under future offer
// changes.
func (s *bookingService) buildResult(booking *model.Booking) (*BookingResult, error) {
	showing, err := s.showings.GetByID(booking.ShowingID)
	if err != nil {
		return nil, err
	}
	details := s.describeShowing(showing)

	states, err := s.inv.Snapshot(booking.ShowingID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]inventory.SeatState, len(states))
	for _, st := range states {
		byID[st.SeatID] = st
	}
	seats := make([]inventory.SeatState, 0, len(booking.Seats))
	for _, bs := range booking.Seats {
		st := byID[bs.SeatID]
		st.Price = bs.Price
		seats = append(seats, st)
	}

	return &BookingResult{
		Booking: booking,
		Showing: details,
		Seats:   seats,
		Pricing: pricing.Result{
			BaseAmount:          booking.BaseAmount,
			DiscountAmount:      booking.DiscountAmount,
			FinalAmount:         booking.FinalAmount,
			DiscountDescription: booking.DiscountDescription,
			AppliedOffers:       []pricing.AppliedOffer{},
		},
	}, nil
}

func (s *bookingService) checkShowingBookable(showing *model.Showing) error {
	switch showing.Status {
	case model.ShowingCancelled:
		return service.NewBookingStateError("showing %d has been cancelled", showing.ID)
	case model.ShowingCompleted:
		return service.NewBookingStateError("showing %d has already completed", showing.ID)
	case model.ShowingHousefull:
		return service.NewBookingStateError("showing %d is housefull", showing.ID)
	}
	if showing.StartAt.Before(s.now()) {
		return service.NewBookingStateError("showing %d has already started", showing.ID)
	}
	return nil
}

func validateBookRequest(req BookRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return service.NewValidationError("customer name is required")
	}
	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" || !strings.Contains(email, "@") {
		return service.NewValidationError("a valid customer email is required")
	}
	if len(req.SeatIDs) == 0 {
		return service.NewValidationError("at least one seat must be selected")
	}
	if len(req.SeatIDs) > inventory.MaxSeatsPerClaim {
		return service.NewValidationError("you can book between 1 and %d seats", inventory.MaxSeatsPerClaim)
	}
	seen := make(map[uint]struct{}, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if _, dup := seen[id]; dup {
			return service.NewValidationError("seat %d selected more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
