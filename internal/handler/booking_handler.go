package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cinehall/booking/internal/inventory"
	"github.com/cinehall/booking/internal/pricing"
	"github.com/cinehall/booking/internal/service"
	"github.com/cinehall/booking/internal/service/domain"
)

// BookingFlow is what the handler needs from the booking side; the
// booking workflow satisfies it.
type BookingFlow interface {
	Book(req domain.BookRequest) (*domain.BookingResult, error)
	GetByReference(reference string) (*domain.BookingResult, error)
	Cancel(reference string) (*domain.BookingResult, error)
}

type BookingHandler struct {
	flow   BookingFlow
	logger *zap.SugaredLogger
}

func NewBookingHandler(flow BookingFlow, logger *zap.SugaredLogger) *BookingHandler {
	return &BookingHandler{
		flow:   flow,
		logger: logger,
	}
}

type BookRequest struct {
	ShowingID     uint   `json:"showing_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required"`
	CustomerPhone string `json:"customer_phone"`
	SeatIDs       []uint `json:"seat_ids" binding:"required"`
}

type BookingResponse struct {
	Reference     string         `json:"reference"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"payment_status"`
	BookedAt      string         `json:"booked_at"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone,omitempty"`
	Showing       ShowingDetails `json:"showing"`
	Seats         []SeatInfo     `json:"seats"`
	Pricing       PricingDetails `json:"pricing"`
}

type ShowingDetails struct {
	ShowingID   uint   `json:"showing_id"`
	MovieTitle  string `json:"movie_title"`
	TheatreName string `json:"theatre_name"`
	ScreenName  string `json:"screen_name"`
	City        string `json:"city"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type SeatInfo struct {
	SeatID   uint    `json:"seat_id"`
	Label    string  `json:"label"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type PricingDetails struct {
	BaseAmount          float64                `json:"base_amount"`
	DiscountAmount      float64                `json:"discount_amount"`
	DiscountDescription string                 `json:"discount_description"`
	FinalAmount         float64                `json:"final_amount"`
	AppliedOffers       []pricing.AppliedOffer `json:"applied_offers"`
}

func (h *BookingHandler) HandleBook(ctx *gin.Context) {
	var req BookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return
	}

	result, err := h.flow.Book(domain.BookRequest{
		ShowingID:     req.ShowingID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		SeatIDs:       req.SeatIDs,
	})
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	ctx.JSON(201, buildBookingResponse(result))
}

func (h *BookingHandler) HandleGet(ctx *gin.Context) {
	result, err := h.flow.GetByReference(ctx.Param("reference"))
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.JSON(200, buildBookingResponse(result))
}

func (h *BookingHandler) HandleCancel(ctx *gin.Context) {
	result, err := h.flow.Cancel(ctx.Param("reference"))
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.JSON(200, buildBookingResponse(result))
}

func (h *BookingHandler) renderError(ctx *gin.Context, err error) {
	var unavailable *inventory.UnavailableError
	switch {
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(404, gin.H{
			"error":   "Not found",
			"message": err.Error(),
		})
	case errors.As(err, &unavailable):
		ctx.JSON(409, gin.H{
			"error":   "Seats not available",
			"message": "Some of the selected seats are no longer available",
			"seats":   unavailable.SeatIDs,
		})
	case errors.Is(err, service.ErrBookingState):
		ctx.JSON(409, gin.H{
			"error":   "Booking not possible",
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrValidation), errors.Is(err, inventory.ErrInvalidSeatSet):
		ctx.JSON(400, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
	default:
		h.logger.Errorw("booking request failed", "error", err)
		ctx.JSON(500, gin.H{
			"error":   "Internal server error",
			"message": "Failed to process booking, please try again later",
		})
	}
}

const (
	dateLayout     = "02-01-2006"
	timeLayout     = "03:04 PM"
	dateTimeLayout = "02-01-2006 15:04:05"
)

func buildBookingResponse(result *domain.BookingResult) BookingResponse {
	seats := make([]SeatInfo, 0, len(result.Seats))
	for _, st := range result.Seats {
		seats = append(seats, SeatInfo{
			SeatID:   st.SeatID,
			Label:    st.Label,
			Category: displaySeatCategory(st.Category),
			Price:    st.Price,
		})
	}

	return BookingResponse{
		Reference:     result.Booking.Reference,
		Status:        displayBookingStatus(result.Booking.Status),
		PaymentStatus: displayPaymentStatus(result.Booking.PaymentStatus),
		BookedAt:      result.Booking.BookedAt.Format(dateTimeLayout),
		CustomerName:  result.Booking.CustomerName,
		CustomerEmail: result.Booking.CustomerEmail,
		CustomerPhone: result.Booking.CustomerPhone,
		Showing: ShowingDetails{
			ShowingID:   result.Showing.ShowingID,
			MovieTitle:  result.Showing.MovieTitle,
			TheatreName: result.Showing.TheatreName,
			ScreenName:  result.Showing.ScreenName,
			City:        result.Showing.City,
			Date:        result.Showing.StartAt.Format(dateLayout),
			Time:        result.Showing.StartAt.Format(timeLayout),
		},
		Seats: seats,
		Pricing: PricingDetails{
			BaseAmount:          result.Pricing.BaseAmount,
			DiscountAmount:      result.Pricing.DiscountAmount,
			DiscountDescription: result.Pricing.DiscountDescription,
			FinalAmount:         result.Pricing.FinalAmount,
			AppliedOffers:       result.Pricing.AppliedOffers,
		},
	}
}
