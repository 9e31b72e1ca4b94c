package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/BDorzho/shareit/internal/api"
	"github.com/BDorzho/shareit/internal/auth"
	"github.com/BDorzho/shareit/internal/booking"
	"github.com/BDorzho/shareit/internal/comment"
	"github.com/BDorzho/shareit/internal/file"
	"github.com/BDorzho/shareit/internal/item"
	"github.com/BDorzho/shareit/internal/itemrequest"
	"github.com/BDorzho/shareit/internal/itemview"
	"github.com/BDorzho/shareit/internal/pkg/storage"
	"github.com/BDorzho/shareit/internal/ratelimit"
	"github.com/BDorzho/shareit/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	DBPool         *pgxpool.Pool
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	StoragePath    string
	MaxUploadBytes int64

	// Redis is nil when rate limiting is disabled.
	Redis            redis.UniversalClient
	BookingRateLimit int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// File Module
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, store)

	// Item Module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, userService, itemService)

	// Item View Module (items with bookings and comments)
	commentRepo := comment.NewPgxRepository(cfg.DBPool)
	itemViewService := itemview.NewService(userService, itemService, bookingService, commentRepo)

	// Item Request Module
	itemRequestRepo := itemrequest.NewPgxRepository(cfg.DBPool)
	itemRequestService := itemrequest.NewService(itemRequestRepo, userService, itemService)

	// Booking creation rate limit
	var bookingLimiter ratelimit.Limiter
	if cfg.Redis != nil {
		limiter, err := ratelimit.NewFixedWindowLimiter(cfg.Redis, "shareit:ratelimit:bookings", cfg.BookingRateLimit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init booking rate limiter: %w", err)
		}
		bookingLimiter = limiter
	} else {
		slog.Info("booking rate limiting disabled, REDIS_ADDR not set")
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		UserService:        userService,
		ItemService:        itemService,
		ItemViewService:    itemViewService,
		ItemRequestService: itemRequestService,
		BookingService:     bookingService,
		FileService:        fileService,
		JWTManager:         jwtManager,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		BookingLimiter:     bookingLimiter,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
