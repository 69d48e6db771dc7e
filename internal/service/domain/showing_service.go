package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cinehall/booking/internal/model"
	"github.com/cinehall/booking/internal/repository"
	"github.com/cinehall/booking/internal/service"
)

// ShowingDetails is the denormalized description of a showing used in
// booking responses and browse listings.
type ShowingDetails struct {
	ShowingID   uint
	MovieTitle  string
	TheatreName string
	ScreenName  string
	City        string
	StartAt     time.Time
	EndAt       time.Time
}

type ShowingService interface {
	GetByID(id uint) (*model.Showing, error)
	Describe(showing *model.Showing) (*ShowingDetails, error)
	// RefreshStatus escalates or relaxes the showing status based on the
	// current available-seat count. Terminal statuses are never touched.
	RefreshStatus(showingID uint, available int) (model.ShowingStatus, error)
}

type showingService struct {
	db       *gorm.DB
	showings repository.ShowingRepo
	movies   repository.MovieRepo
	theatres repository.TheatreRepo
}

var _ ShowingService = (*showingService)(nil)

func NewShowingService(db *gorm.DB, showingRepo repository.ShowingRepo, movieRepo repository.MovieRepo, theatreRepo repository.TheatreRepo) *showingService {
	return &showingService{
		db:       db,
		showings: showingRepo,
		movies:   movieRepo,
		theatres: theatreRepo,
	}
}

func (s *showingService) GetByID(id uint) (*model.Showing, error) {
	showing, err := s.showings.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return showing, nil
}

func (s *showingService) Describe(showing *model.Showing) (*ShowingDetails, error) {
	movie, err := s.movies.GetByID(showing.MovieID)
	if err != nil {
		return nil, err
	}
	theatre, err := s.theatres.GetByID(showing.TheatreID)
	if err != nil {
		return nil, err
	}
	screen, err := s.theatres.GetScreenByID(showing.ScreenID)
	if err != nil {
		return nil, err
	}
	return &ShowingDetails{
		ShowingID:   showing.ID,
		MovieTitle:  movie.Title,
		TheatreName: theatre.Name,
		ScreenName:  screen.Name,
		City:        theatre.City,
		StartAt:     showing.StartAt,
		EndAt:       showing.EndAt,
	}, nil
}

// almostFullPercent is the available-seat share at or below which a
// showing is flagged ALMOST_FULL.
const almostFullPercent = 10

func (s *showingService) RefreshStatus(showingID uint, available int) (model.ShowingStatus, error) {
	showing, err := s.GetByID(showingID)
	if err != nil {
		return "", err
	}
	switch showing.Status {
	case model.ShowingCancelled, model.ShowingCompleted:
		return showing.Status, nil
	}

	next := model.ShowingOpenForBooking
	switch {
	case available <= 0:
		next = model.ShowingHousefull
	case available*100 <= showing.TotalSeats*almostFullPercent:
		next = model.ShowingAlmostFull
	}
	if next == showing.Status {
		return next, nil
	}
	if err := s.showings.UpdateStatus(showingID, next); err != nil {
		return "", err
	}
	return next, nil
}
