package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cinehall/booking/config"
	"github.com/cinehall/booking/internal/app"
	"github.com/cinehall/booking/internal/cache"
	"github.com/cinehall/booking/internal/handler"
	"github.com/cinehall/booking/internal/model"
	"github.com/cinehall/booking/internal/mq"
	"github.com/cinehall/booking/internal/seed"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}
	if err := db.AutoMigrate(
		&model.Movie{}, &model.Theatre{}, &model.Screen{}, &model.Seat{},
		&model.Showing{}, &model.Booking{}, &model.BookingSeat{},
	); err != nil {
		logger.Fatalw("failed to migrate database", "error", err)
	}

	if cfg.SeedData {
		if err := seed.Run(db); err != nil {
			logger.Fatalw("failed to seed data", "error", err)
		}
	}

	redisCache, err := cache.NewRedisCache(cfg.CacheURL)
	if err != nil {
		logger.Fatalw("failed to connect to redis", "error", err)
	}

	mqConn, err := mq.NewMQConn(cfg.MQURL)
	if err != nil {
		logger.Fatalw("failed to connect to rabbitmq", "error", err)
	}

	application := app.New(cfg, db, redisCache, mqConn, logger)
	if err := application.Init(); err != nil {
		logger.Fatalw("failed to init app", "error", err)
	}
	defer application.Close()

	bookingHandler := handler.NewBookingHandler(application.BookingWorkflow, logger)
	browseHandler := handler.NewBrowseHandler(application.BrowseService, logger)

	r := gin.Default()
	handler.RegisterRoutes(r, bookingHandler, browseHandler)

	logger.Infow("server starting", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}
