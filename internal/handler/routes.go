package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the HTTP surface. The booking endpoints are the
// write path; everything else is read-only browsing.
func RegisterRoutes(r *gin.Engine, booking *BookingHandler, browse *BrowseHandler) {
	r.POST("/bookings", booking.HandleBook)
	r.GET("/bookings/:reference", booking.HandleGet)
	r.POST("/bookings/:reference/cancel", booking.HandleCancel)

	r.GET("/movies", browse.HandleListMovies)
	r.GET("/showings", browse.HandleListShowings)
	r.GET("/showings/:id/seats", browse.HandleSeatMap)
}
