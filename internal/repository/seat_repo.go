package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cinehall/booking/internal/model"
)

type SeatRepo interface {
	WithTx(tx *gorm.DB) SeatRepo
	CreateBulk(seats []model.Seat) error
	GetByID(id uint) (*model.Seat, error)
	ListByScreen(screenID uint) ([]model.Seat, error)
	ListByIDs(ids []uint) ([]model.Seat, error)
}

type seatRepoGorm struct {
	db *gorm.DB
}

var _ SeatRepo = (*seatRepoGorm)(nil)

func NewSeatRepoGorm(db *gorm.DB) *seatRepoGorm {
	return &seatRepoGorm{
		db: db,
	}
}

func (r *seatRepoGorm) WithTx(tx *gorm.DB) SeatRepo {
	return &seatRepoGorm{
		db: tx,
	}
}

func (r *seatRepoGorm) CreateBulk(seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return r.db.Create(&seats).Error
}

func (r *seatRepoGorm) GetByID(id uint) (*model.Seat, error) {
	ctx := context.Background()
	seat, err := gorm.G[model.Seat](r.db).Where(&model.Seat{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *seatRepoGorm) ListByScreen(screenID uint) ([]model.Seat, error) {
	ctx := context.Background()
	return gorm.G[model.Seat](r.db).
		Where("screen_id = ?", screenID).
		Order(`"row", number`).
		Find(ctx)
}

func (r *seatRepoGorm) ListByIDs(ids []uint) ([]model.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx := context.Background()
	return gorm.G[model.Seat](r.db).Where("id IN ?", ids).Find(ctx)
}
