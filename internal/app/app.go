package app

import (
	"github.com/cinehall/booking/config"
	"github.com/cinehall/booking/internal/cache"
	"github.com/cinehall/booking/internal/inventory"
	"github.com/cinehall/booking/internal/model"
	"github.com/cinehall/booking/internal/mq"
	"github.com/cinehall/booking/internal/repository"
	"github.com/cinehall/booking/internal/service/domain"
	"github.com/cinehall/booking/internal/service/workflow"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config

	DB        *gorm.DB
	Cache     *cache.RedisCache
	Logger    *zap.SugaredLogger
	MQConn    *amqp.Connection
	Inventory *inventory.Inventory

	MovieRepo   repository.MovieRepo
	TheatreRepo repository.TheatreRepo
	SeatRepo    repository.SeatRepo
	ShowingRepo repository.ShowingRepo
	BookingRepo repository.BookingRepo

	ShowingService domain.ShowingService
	LedgerService  domain.LedgerService
	BookingService domain.BookingService
	BrowseService  domain.BrowseService

	BookingWorkflow       *workflow.BookingWorkflow
	ShowingStatusWorkflow *workflow.ShowingStatusWorkflow
}

func New(cfg *config.Config, db *gorm.DB, redisCache *cache.RedisCache, mqConn *amqp.Connection, logger *zap.SugaredLogger) *App {
	movieRepo := repository.NewMovieRepoGorm(db)
	theatreRepo := repository.NewTheatreRepoGorm(db)
	seatRepo := repository.NewSeatRepoGorm(db)
	showingRepo := repository.NewShowingRepoGorm(db)
	bookingRepo := repository.NewBookingRepoGorm(db)

	inv := inventory.New(cfg.ClaimTimeout)

	showingService := domain.NewShowingService(db, showingRepo, movieRepo, theatreRepo)
	ledgerService := domain.NewLedgerService(db, bookingRepo, showingRepo)
	bookingService := domain.NewBookingService(showingService, inv, ledgerService, logger)
	browseService := domain.NewBrowseService(db, redisCache, inv, movieRepo, theatreRepo, showingRepo, logger)

	bookingWorkflow := workflow.NewBookingWorkflow(bookingService, mqConn, logger)
	showingStatusWorkflow := workflow.NewShowingStatusWorkflow(redisCache, inv, showingService, logger)

	return &App{
		Config:                cfg,
		DB:                    db,
		Cache:                 redisCache,
		Logger:                logger,
		MQConn:                mqConn,
		Inventory:             inv,
		MovieRepo:             movieRepo,
		TheatreRepo:           theatreRepo,
		SeatRepo:              seatRepo,
		ShowingRepo:           showingRepo,
		BookingRepo:           bookingRepo,
		ShowingService:        showingService,
		LedgerService:         ledgerService,
		BookingService:        bookingService,
		BrowseService:         browseService,
		BookingWorkflow:       bookingWorkflow,
		ShowingStatusWorkflow: showingStatusWorkflow,
	}
}

func (app *App) Init() error {
	if err := app.hydrateInventory(); err != nil {
		return err
	}

	// seed redis counters from the live inventory
	showings, err := app.ShowingRepo.ListAll()
	if err != nil {
		return err
	}
	counters := make(map[uint]int, len(showings))
	for _, sh := range showings {
		available, err := app.Inventory.Available(sh.ID)
		if err != nil {
			continue
		}
		counters[sh.ID] = available
	}
	if err := app.Cache.Init(counters); err != nil {
		return err
	}

	if err := mq.InitQueues(app.MQConn); err != nil {
		return err
	}
	return app.ShowingStatusWorkflow.Start(app.MQConn)
}

// hydrateInventory rebuilds the in-memory seat state from the catalog
// and the set of confirmed bookings.
func (app *App) hydrateInventory() error {
	showings, err := app.ShowingRepo.ListAll()
	if err != nil {
		return err
	}
	for _, sh := range showings {
		seats, err := app.SeatRepo.ListByScreen(sh.ScreenID)
		if err != nil {
			return err
		}
		bookings, err := app.BookingRepo.ListByShowing(sh.ID)
		if err != nil {
			return err
		}
		bookedBy := make(map[uint]string)
		for _, b := range bookings {
			if b.Status != model.BookingConfirmed {
				continue
			}
			for _, bs := range b.Seats {
				bookedBy[bs.SeatID] = b.Reference
			}
		}

		states := make([]inventory.SeatState, 0, len(seats))
		for _, seat := range seats {
			st := inventory.SeatState{
				SeatID:   seat.ID,
				Label:    seat.Identifier(),
				Category: seat.Category,
				Status:   model.SeatAvailable,
				Price:    seat.BasePrice,
			}
			if ref, ok := bookedBy[seat.ID]; ok {
				st.Status = model.SeatBooked
				st.BookingRef = ref
			}
			states = append(states, st)
		}
		app.Inventory.Register(sh.ID, states)
	}
	return nil
}

func (app *App) Close() error {
	sqlDB, err := app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
