package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cinehall/booking/internal/model"
)

type ShowingRepo interface {
	WithTx(tx *gorm.DB) ShowingRepo
	Create(showing *model.Showing) error
	GetByID(id uint) (*model.Showing, error)
	ListByMovie(movieID uint) ([]model.Showing, error)
	ListByTheatres(theatreIDs []uint, from time.Time) ([]model.Showing, error)
	ListAll() ([]model.Showing, error)
	AdjustAvailableSeats(id uint, delta int) error
	UpdateStatus(id uint, status model.ShowingStatus) error
}

type showingRepoGorm struct {
	db *gorm.DB
}

var _ ShowingRepo = (*showingRepoGorm)(nil)

func NewShowingRepoGorm(db *gorm.DB) *showingRepoGorm {
	return &showingRepoGorm{
		db: db,
	}
}

func (r *showingRepoGorm) WithTx(tx *gorm.DB) ShowingRepo {
	return &showingRepoGorm{
		db: tx,
	}
}

func (r *showingRepoGorm) Create(showing *model.Showing) error {
	ctx := context.Background()
	return gorm.G[model.Showing](r.db).Create(ctx, showing)
}

func (r *showingRepoGorm) GetByID(id uint) (*model.Showing, error) {
	ctx := context.Background()
	showing, err := gorm.G[model.Showing](r.db).Where(&model.Showing{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &showing, nil
}

func (r *showingRepoGorm) ListByMovie(movieID uint) ([]model.Showing, error) {
	ctx := context.Background()
	return gorm.G[model.Showing](r.db).
		Where("movie_id = ?", movieID).
		Order("start_at").
		Find(ctx)
}

func (r *showingRepoGorm) ListByTheatres(theatreIDs []uint, from time.Time) ([]model.Showing, error) {
	if len(theatreIDs) == 0 {
		return nil, nil
	}
	ctx := context.Background()
	return gorm.G[model.Showing](r.db).
		Where("theatre_id IN ? AND start_at >= ?", theatreIDs, from).
		Order("start_at").
		Find(ctx)
}

func (r *showingRepoGorm) ListAll() ([]model.Showing, error) {
	ctx := context.Background()
	return gorm.G[model.Showing](r.db).Find(ctx)
}

func (r *showingRepoGorm) AdjustAvailableSeats(id uint, delta int) error {
	return r.db.Model(&model.Showing{}).
		Where("id = ?", id).
		UpdateColumn("available_seats", gorm.Expr("available_seats + ?", delta)).Error
}

func (r *showingRepoGorm) UpdateStatus(id uint, status model.ShowingStatus) error {
	return r.db.Model(&model.Showing{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
