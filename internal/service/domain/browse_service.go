package domain

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cinehall/booking/internal/cache"
	"github.com/cinehall/booking/internal/inventory"
	"github.com/cinehall/booking/internal/model"
	"github.com/cinehall/booking/internal/repository"
	"github.com/cinehall/booking/internal/service"
)

// ShowingSummary is one row of a browse listing.
type ShowingSummary struct {
	ShowingID      uint                `json:"showing_id"`
	MovieTitle     string              `json:"movie_title"`
	TheatreName    string              `json:"theatre_name"`
	ScreenName     string              `json:"screen_name"`
	City           string              `json:"city"`
	StartAt        time.Time           `json:"start_at"`
	Status         model.ShowingStatus `json:"status"`
	AvailableSeats int                 `json:"available_seats"`
	MinPrice       float64             `json:"min_price"`
}

// SeatMapView is the per-showing seat layout served to browsers. It is
// a snapshot: claims committing concurrently may lag by a moment.
type SeatMapView struct {
	ShowingID uint       `json:"showing_id"`
	Seats     []SeatView `json:"seats"`
}

type SeatView struct {
	SeatID   uint               `json:"seat_id"`
	Label    string             `json:"label"`
	Category model.SeatCategory `json:"category"`
	Status   model.SeatStatus   `json:"status"`
	Price    float64            `json:"price"`
}

type BrowseService interface {
	ListMovies() ([]model.Movie, error)
	ListShowings(city string, movieID uint) ([]ShowingSummary, error)
	SeatMap(showingID uint) (*SeatMapView, error)
}

type browseService struct {
	db       *gorm.DB
	cache    *cache.RedisCache
	inv      *inventory.Inventory
	movies   repository.MovieRepo
	theatres repository.TheatreRepo
	showings repository.ShowingRepo
	logger   *zap.SugaredLogger
	now      func() time.Time
}

var _ BrowseService = (*browseService)(nil)

func NewBrowseService(db *gorm.DB, redisCache *cache.RedisCache, inv *inventory.Inventory,
	movieRepo repository.MovieRepo, theatreRepo repository.TheatreRepo, showingRepo repository.ShowingRepo,
	logger *zap.SugaredLogger) *browseService {
	return &browseService{
		db:       db,
		cache:    redisCache,
		inv:      inv,
		movies:   movieRepo,
		theatres: theatreRepo,
		showings: showingRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *browseService) ListMovies() ([]model.Movie, error) {
	return s.movies.ListAll()
}

// ListShowings returns upcoming showings in a city, optionally filtered
// by movie. Availability is read from the cache-backed counters so
// browsing never waits on booking transactions.
func (s *browseService) ListShowings(city string, movieID uint) ([]ShowingSummary, error) {
	theatres, err := s.theatres.ListByCity(city)
	if err != nil {
		return nil, err
	}
	if len(theatres) == 0 {
		return []ShowingSummary{}, nil
	}
	theatreByID := make(map[uint]model.Theatre, len(theatres))
	ids := make([]uint, 0, len(theatres))
	for _, t := range theatres {
		theatreByID[t.ID] = t
		ids = append(ids, t.ID)
	}

	showings, err := s.showings.ListByTheatres(ids, s.now())
	if err != nil {
		return nil, err
	}

	summaries := make([]ShowingSummary, 0, len(showings))
	for _, sh := range showings {
		if movieID != 0 && sh.MovieID != movieID {
			continue
		}
		if sh.Status == model.ShowingCancelled || sh.Status == model.ShowingCompleted {
			continue
		}
		movie, err := s.movies.GetByID(sh.MovieID)
		if err != nil {
			return nil, err
		}
		screen, err := s.theatres.GetScreenByID(sh.ScreenID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ShowingSummary{
			ShowingID:      sh.ID,
			MovieTitle:     movie.Title,
			TheatreName:    theatreByID[sh.TheatreID].Name,
			ScreenName:     screen.Name,
			City:           city,
			StartAt:        sh.StartAt,
			Status:         sh.Status,
			AvailableSeats: s.availableSeats(&sh),
			MinPrice:       s.minAvailablePrice(sh.ID),
		})
	}
	return summaries, nil
}

// SeatMap serves the seat layout from the Redis snapshot when warm and
// rebuilds it from the live inventory otherwise.
func (s *browseService) SeatMap(showingID uint) (*SeatMapView, error) {
	var view SeatMapView
	if err := s.cache.GetSeatMap(showingID, &view); err == nil {
		return &view, nil
	}

	states, err := s.inv.Snapshot(showingID)
	if err != nil {
		if errors.Is(err, inventory.ErrUnknownShowing) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	view = SeatMapView{ShowingID: showingID, Seats: make([]SeatView, 0, len(states))}
	for _, st := range states {
		view.Seats = append(view.Seats, SeatView{
			SeatID:   st.SeatID,
			Label:    st.Label,
			Category: st.Category,
			Status:   st.Status,
			Price:    st.Price,
		})
	}
	if err := s.cache.SetSeatMap(showingID, &view); err != nil {
		s.logger.Warnw("failed to cache seat map", "showing_id", showingID, "error", err)
	}
	return &view, nil
}

func (s *browseService) availableSeats(sh *model.Showing) int {
	if n, err := s.cache.GetAvailable(sh.ID); err == nil {
		return n
	}
	if n, err := s.inv.Available(sh.ID); err == nil {
		return n
	}
	return sh.AvailableSeats
}

func (s *browseService) minAvailablePrice(showingID uint) float64 {
	states, err := s.inv.Snapshot(showingID)
	if err != nil {
		return 0
	}
	min := 0.0
	for _, st := range states {
		if st.Status != model.SeatAvailable {
			continue
		}
		if min == 0 || st.Price < min {
			min = st.Price
		}
	}
	return min
}
