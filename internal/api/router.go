package api

import (
	"strings"

	"github.com/BDorzho/shareit/internal/auth"
	"github.com/BDorzho/shareit/internal/booking"
	bookingHttp "github.com/BDorzho/shareit/internal/booking/http"
	"github.com/BDorzho/shareit/internal/file"
	fileHttp "github.com/BDorzho/shareit/internal/file/http"
	"github.com/BDorzho/shareit/internal/item"
	itemHttp "github.com/BDorzho/shareit/internal/item/http"
	"github.com/BDorzho/shareit/internal/itemrequest"
	itemRequestHttp "github.com/BDorzho/shareit/internal/itemrequest/http"
	"github.com/BDorzho/shareit/internal/itemview"
	itemViewHttp "github.com/BDorzho/shareit/internal/itemview/http"
	"github.com/BDorzho/shareit/internal/ratelimit"
	"github.com/BDorzho/shareit/internal/user"
	userHttp "github.com/BDorzho/shareit/internal/user/http"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Config carries the services the router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService        user.Service
	ItemService        item.Service
	ItemViewService    itemview.Service
	ItemRequestService itemrequest.Service
	BookingService     booking.Service
	FileService        file.Service
	JWTManager         *auth.JWTManager

	MaxUploadBytes int64
	// BookingLimiter is optional; nil disables rate limiting of booking creation.
	BookingLimiter ratelimit.Limiter
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (request ids, logging, CORS, auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - RequestID: Tags every request and response with X-Request-Id.
	// - RequestLogger: One structured log line per request.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestID(), RequestLogger(), gin.Recovery())
	// Production without PROD_ORIGINS serves same-origin clients only.
	if origins := allowedOrigins(cfg); len(origins) > 0 {
		r.Use(cors.New(corsConfig(origins)))
	}

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	var bookingGuards []gin.HandlerFunc
	if cfg.BookingLimiter != nil {
		bookingGuards = append(bookingGuards, RateLimit(cfg.BookingLimiter))
	}

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService, fileHandler, cfg.MaxUploadBytes)
	itemViewHandler := itemViewHttp.NewHandler(cfg.ItemViewService)
	itemRequestHandler := itemRequestHttp.NewHandler(cfg.ItemRequestService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		itemHttp.RegisterRoutes(v1, itemHandler, authMiddleware)
		itemViewHttp.RegisterRoutes(v1, itemViewHandler, authMiddleware)
		itemRequestHttp.RegisterRoutes(v1, itemRequestHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, bookingGuards...)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware)
	}

	return r
}

func allowedOrigins(cfg Config) []string {
	if !cfg.IsProduction {
		return []string{
			"http://localhost:8081", // Swagger
		}
	}
	var origins []string
	for _, origin := range strings.Split(cfg.ProdOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowOrigins = origins
	config.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	return config
}
