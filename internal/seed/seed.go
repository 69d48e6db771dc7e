// Package seed populates a fresh database with a small catalog so the
// service is usable immediately after startup.
package seed

import (
	"time"

	"gorm.io/gorm"

	"github.com/cinehall/booking/internal/model"
	"github.com/cinehall/booking/internal/repository"
)

// Run seeds sample data when the movie catalog is empty. It is safe to
// call on every startup.
func Run(db *gorm.DB) error {
	movies := repository.NewMovieRepoGorm(db)
	existing, err := movies.ListAll()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	theatres := repository.NewTheatreRepoGorm(db)
	seats := repository.NewSeatRepoGorm(db)
	showings := repository.NewShowingRepoGorm(db)

	inception := &model.Movie{
		Title:       "Inception",
		Description: "A thief who steals corporate secrets through dream-sharing technology",
		Language:    "English",
		Genre:       "Sci-Fi",
		DurationMin: 148,
	}
	rrr := &model.Movie{
		Title:       "RRR",
		Description: "A tale of two legendary revolutionaries and their journey",
		Language:    "Telugu",
		Genre:       "Action",
		DurationMin: 187,
	}
	for _, m := range []*model.Movie{inception, rrr} {
		if err := movies.Create(m); err != nil {
			return err
		}
	}

	pvr := &model.Theatre{Name: "PVR Cinemas Phoenix", Address: "Lower Parel, Mumbai", City: "Mumbai"}
	inox := &model.Theatre{Name: "INOX Megaplex", Address: "Malad West, Mumbai", City: "Mumbai"}
	for _, t := range []*model.Theatre{pvr, inox} {
		if err := theatres.Create(t); err != nil {
			return err
		}
	}

	pvrScreen := &model.Screen{TheatreID: pvr.ID, Name: "Screen 1", TotalSeats: 100}
	inoxScreen := &model.Screen{TheatreID: inox.ID, Name: "Screen 1", TotalSeats: 100}
	for _, sc := range []*model.Screen{pvrScreen, inoxScreen} {
		if err := theatres.CreateScreen(sc); err != nil {
			return err
		}
		if err := seats.CreateBulk(buildSeats(sc.ID, 10, 10)); err != nil {
			return err
		}
	}

	today := time.Now().Truncate(24 * time.Hour)
	plan := []struct {
		movie  *model.Movie
		screen *model.Screen
		hour   int
		minute int
	}{
		{inception, pvrScreen, 9, 30},
		{inception, pvrScreen, 14, 0}, // afternoon, discount window
		{inception, pvrScreen, 18, 30},
		{rrr, inoxScreen, 15, 30}, // afternoon, discount window
		{rrr, inoxScreen, 20, 0},
	}
	for _, p := range plan {
		start := today.Add(24 * time.Hour).
			Add(time.Duration(p.hour)*time.Hour + time.Duration(p.minute)*time.Minute)
		theatreID := pvr.ID
		if p.screen == inoxScreen {
			theatreID = inox.ID
		}
		showing := &model.Showing{
			MovieID:        p.movie.ID,
			TheatreID:      theatreID,
			ScreenID:       p.screen.ID,
			StartAt:        start,
			EndAt:          start.Add(time.Duration(p.movie.DurationMin) * time.Minute),
			Status:         model.ShowingOpenForBooking,
			TotalSeats:     p.screen.TotalSeats,
			AvailableSeats: p.screen.TotalSeats,
		}
		if err := showings.Create(showing); err != nil {
			return err
		}
	}
	return nil
}

// buildSeats lays out rows A.. with tiered categories: first two rows
// VIP, next three Premium, the rest Regular.
func buildSeats(screenID uint, rows, perRow int) []model.Seat {
	out := make([]model.Seat, 0, rows*perRow)
	for row := 0; row < rows; row++ {
		label := string(rune('A' + row))
		category := model.SeatRegular
		price := 200.0
		switch {
		case row < 2:
			category = model.SeatVIP
			price = 500.0
		case row < 5:
			category = model.SeatPremium
			price = 350.0
		}
		for n := 1; n <= perRow; n++ {
			out = append(out, model.Seat{
				ScreenID:  screenID,
				Row:       label,
				Number:    n,
				Category:  category,
				BasePrice: price,
			})
		}
	}
	return out
}
