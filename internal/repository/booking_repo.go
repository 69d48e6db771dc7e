package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cinehall/booking/internal/model"
)

type BookingRepo interface {
	WithTx(tx *gorm.DB) BookingRepo
	Create(booking *model.Booking) error
	GetByReference(reference string) (*model.Booking, error)
	ExistsByReference(reference string) (bool, error)
	UpdateStatus(id uint, status model.BookingStatus, payment model.PaymentStatus) error
	ListByShowing(showingID uint) ([]model.Booking, error)
}

type bookingRepoGorm struct {
	db *gorm.DB
}

var _ BookingRepo = (*bookingRepoGorm)(nil)

func NewBookingRepoGorm(db *gorm.DB) *bookingRepoGorm {
	return &bookingRepoGorm{
		db: db,
	}
}

func (r *bookingRepoGorm) WithTx(tx *gorm.DB) BookingRepo {
	return &bookingRepoGorm{
		db: tx,
	}
}

// Create persists the booking together with its claimed seat rows.
func (r *bookingRepoGorm) Create(booking *model.Booking) error {
	return r.db.Create(booking).Error
}

func (r *bookingRepoGorm) GetByReference(reference string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.Preload("Seats").
		Where("reference = ?", reference).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepoGorm) ExistsByReference(reference string) (bool, error) {
	ctx := context.Background()
	count, err := gorm.G[model.Booking](r.db).
		Where("reference = ?", reference).
		Count(ctx, "id")
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepoGorm) UpdateStatus(id uint, status model.BookingStatus, payment model.PaymentStatus) error {
	return r.db.Model(&model.Booking{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":         status,
			"payment_status": payment,
		}).Error
}

func (r *bookingRepoGorm) ListByShowing(showingID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.Preload("Seats").
		Where("showing_id = ?", showingID).
		Find(&bookings).Error
	return bookings, err
}
