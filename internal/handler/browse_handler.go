package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cinehall/booking/internal/service"
	"github.com/cinehall/booking/internal/service/domain"
)

type BrowseHandler struct {
	browse domain.BrowseService
	logger *zap.SugaredLogger
}

func NewBrowseHandler(browse domain.BrowseService, logger *zap.SugaredLogger) *BrowseHandler {
	return &BrowseHandler{
		browse: browse,
		logger: logger,
	}
}

func (h *BrowseHandler) HandleListMovies(ctx *gin.Context) {
	movies, err := h.browse.ListMovies()
	if err != nil {
		h.logger.Errorw("failed to list movies", "error", err)
		ctx.JSON(500, gin.H{"error": "Internal server error"})
		return
	}
	ctx.JSON(200, gin.H{"movies": movies})
}

func (h *BrowseHandler) HandleListShowings(ctx *gin.Context) {
	city := ctx.Query("city")
	if city == "" {
		ctx.JSON(400, gin.H{
			"error":   "Invalid request",
			"message": "city query parameter is required",
		})
		return
	}

	var movieID uint
	if raw := ctx.Query("movie_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(400, gin.H{
				"error":   "Invalid request",
				"message": "movie_id must be a number",
			})
			return
		}
		movieID = uint(v)
	}

	showings, err := h.browse.ListShowings(city, movieID)
	if err != nil {
		h.logger.Errorw("failed to list showings", "city", city, "error", err)
		ctx.JSON(500, gin.H{"error": "Internal server error"})
		return
	}

	out := make([]gin.H, 0, len(showings))
	for _, s := range showings {
		out = append(out, gin.H{
			"showing_id":      s.ShowingID,
			"movie_title":     s.MovieTitle,
			"theatre_name":    s.TheatreName,
			"screen_name":     s.ScreenName,
			"city":            s.City,
			"start_at":        s.StartAt,
			"status":          displayShowingStatus(s.Status),
			"available_seats": s.AvailableSeats,
			"min_price":       s.MinPrice,
		})
	}
	ctx.JSON(200, gin.H{"showings": out})
}

func (h *BrowseHandler) HandleSeatMap(ctx *gin.Context) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(400, gin.H{
			"error":   "Invalid request",
			"message": "showing id must be a number",
		})
		return
	}

	view, err := h.browse.SeatMap(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(404, gin.H{
				"error":   "Not found",
				"message": "showing not found",
			})
			return
		}
		h.logger.Errorw("failed to load seat map", "showing_id", id, "error", err)
		ctx.JSON(500, gin.H{"error": "Internal server error"})
		return
	}
	ctx.JSON(200, view)
}
