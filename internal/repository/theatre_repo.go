package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cinehall/booking/internal/model"
)

type TheatreRepo interface {
	WithTx(tx *gorm.DB) TheatreRepo
	Create(theatre *model.Theatre) error
	GetByID(id uint) (*model.Theatre, error)
	ListByCity(city string) ([]model.Theatre, error)
	CreateScreen(screen *model.Screen) error
	GetScreenByID(id uint) (*model.Screen, error)
}

type theatreRepoGorm struct {
	db *gorm.DB
}

var _ TheatreRepo = (*theatreRepoGorm)(nil)

func NewTheatreRepoGorm(db *gorm.DB) *theatreRepoGorm {
	return &theatreRepoGorm{
		db: db,
	}
}

func (r *theatreRepoGorm) WithTx(tx *gorm.DB) TheatreRepo {
	return &theatreRepoGorm{
		db: tx,
	}
}

func (r *theatreRepoGorm) Create(theatre *model.Theatre) error {
	ctx := context.Background()
	return gorm.G[model.Theatre](r.db).Create(ctx, theatre)
}

func (r *theatreRepoGorm) GetByID(id uint) (*model.Theatre, error) {
	ctx := context.Background()
	theatre, err := gorm.G[model.Theatre](r.db).Where(&model.Theatre{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &theatre, nil
}

func (r *theatreRepoGorm) ListByCity(city string) ([]model.Theatre, error) {
	ctx := context.Background()
	return gorm.G[model.Theatre](r.db).Where("city = ?", city).Find(ctx)
}

func (r *theatreRepoGorm) CreateScreen(screen *model.Screen) error {
	ctx := context.Background()
	return gorm.G[model.Screen](r.db).Create(ctx, screen)
}

func (r *theatreRepoGorm) GetScreenByID(id uint) (*model.Screen, error) {
	ctx := context.Background()
	screen, err := gorm.G[model.Screen](r.db).Where(&model.Screen{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &screen, nil
}
