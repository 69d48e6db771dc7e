package domain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinehall/booking/internal/model"
	"github.com/cinehall/booking/internal/repository"
	"github.com/cinehall/booking/internal/service"
)

// LedgerService issues booking references and owns every mutation of
// the booking history. Record and MarkCancelled are transactional: the
// booking row, its seat rows and the showing's available-seat counter
// commit together or not at all.
type LedgerService interface {
	MintReference() (string, error)
	Record(booking *model.Booking) error
	FindByReference(reference string) (*model.Booking, error)
	MarkCancelled(reference string) (*model.Booking, error)
}

type ledgerService struct {
	db       *gorm.DB
	bookings repository.BookingRepo
	showings repository.ShowingRepo
	newUUID  func() uuid.UUID
}

var _ LedgerService = (*ledgerService)(nil)

func NewLedgerService(db *gorm.DB, bookingRepo repository.BookingRepo, showingRepo repository.ShowingRepo) *ledgerService {
	return &ledgerService{
		db:       db,
		bookings: bookingRepo,
		showings: showingRepo,
		newUUID:  uuid.New,
	}
}

// WithRandom swaps the randomness source, for deterministic tests.
func (s *ledgerService) WithRandom(newUUID func() uuid.UUID) *ledgerService {
	s.newUUID = newUUID
	return s
}

const mintAttempts = 5

// MintReference draws crypto-random reference candidates and verifies
// each against the ledger before handing it out. Collisions are
// astronomically unlikely but the check makes uniqueness a guarantee
// rather than a probability.
func (s *ledgerService) MintReference() (string, error) {
	for range mintAttempts {
		ref := formatReference(s.newUUID())
		exists, err := s.bookings.ExistsByReference(ref)
		if err != nil {
			return "", fmt.Errorf("check reference uniqueness: %w", err)
		}
		if !exists {
			return ref, nil
		}
	}
	return "", errors.New("could not mint a unique booking reference")
}

func formatReference(id uuid.UUID) string {
	return "BK" + strings.ToUpper(hex.EncodeToString(id[:6]))
}

func (s *ledgerService) Record(booking *model.Booking) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.bookings.WithTx(tx).Create(booking); err != nil {
			return err
		}
		return s.showings.WithTx(tx).AdjustAvailableSeats(booking.ShowingID, -booking.NumberOfSeats)
	})
}

func (s *ledgerService) FindByReference(reference string) (*model.Booking, error) {
	booking, err := s.bookings.GetByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// MarkCancelled flips the booking to CANCELLED/REFUNDED and gives the
// seats back to the showing counter in one transaction. The terminal
// check is repeated inside the transaction so two racing cancellations
// cannot both commit.
func (s *ledgerService) MarkCancelled(reference string) (*model.Booking, error) {
	var cancelled *model.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookings.WithTx(tx).GetByReference(reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return service.ErrNotFound
			}
			return err
		}
		if booking.Terminal() {
			return service.NewBookingStateError("booking %s is already %s", reference, strings.ToLower(string(booking.Status)))
		}
		if err := s.bookings.WithTx(tx).UpdateStatus(booking.ID, model.BookingCancelled, model.PaymentRefunded); err != nil {
			return err
		}
		if err := s.showings.WithTx(tx).AdjustAvailableSeats(booking.ShowingID, booking.NumberOfSeats); err != nil {
			return err
		}
		booking.Status = model.BookingCancelled
		booking.PaymentStatus = model.PaymentRefunded
		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
