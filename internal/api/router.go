package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/handyhub/marketplace-system/internal/api/handler"
	"github.com/handyhub/marketplace-system/internal/api/middleware"
	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
	"github.com/handyhub/marketplace-system/internal/core/service"
	mongodb "github.com/handyhub/marketplace-system/internal/infrastructure/db/mongo"
	redisdb "github.com/handyhub/marketplace-system/internal/infrastructure/db/redis"
	"github.com/handyhub/marketplace-system/internal/infrastructure/queue"
)

// authRateLimit caps unauthenticated register/login attempts per client IP.
const authRateLimit = rate.Limit(10)

// Dependencies carries the external infrastructure the router wires the
// application to. Everything else (repositories, services, handlers) is
// constructed here.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Processor ports.PaymentProcessor
	Media     ports.MediaStore
	JWTSecret string
	TokenTTL  time.Duration
	Workers   int
	Log       zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the notification dispatcher. The caller starts the
// dispatcher and owns its lifecycle.
func NewRouter(deps Dependencies) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Repositories and adapters ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	requestRepo := mongodb.NewRequestRepository(deps.DB)
	paymentRepo := mongodb.NewPaymentRepository(deps.DB)
	notificationRepo := mongodb.NewNotificationRepository(deps.DB)
	intentLock := redisdb.NewIntentLock(deps.Redis)

	// --- Services ---
	notificationService := service.NewNotificationService(notificationRepo, deps.Log)
	dispatcher := queue.NewDispatcher(deps.Workers, notificationService, deps.Log)

	authService := service.NewAuthService(userRepo, deps.JWTSecret, deps.TokenTTL, deps.Log)
	userService := service.NewUserService(userRepo, requestRepo, deps.Log)
	requestService := service.NewRequestService(requestRepo, dispatcher, deps.Log)
	matchingService := service.NewMatchingService(requestRepo, userRepo, deps.Log)
	paymentService := service.NewPaymentService(paymentRepo, requestRepo, deps.Processor, intentLock, dispatcher, deps.Log)
	mediaService := service.NewMediaService(deps.Media, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService, matchingService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// --- Auth routes (rate-limited, no token required) ---
	auth := e.Group("/auth")
	auth.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(authRateLimit)))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	v1.POST("/service-requests", requestHandler.Create)
	v1.GET("/service-requests", requestHandler.List)
	v1.GET("/service-requests/available", requestHandler.Available,
		middleware.RequireRole(domain.RoleTechnician))
	v1.GET("/service-requests/:id", requestHandler.Get)
	v1.PATCH("/service-requests/:id", requestHandler.Update)

	v1.POST("/payments/create-intent", paymentHandler.CreateIntent)
	v1.POST("/payments/confirm", paymentHandler.Confirm)
	v1.GET("/payments/:service_request_id", paymentHandler.GetByRequest)

	v1.GET("/users/me", userHandler.Me)
	v1.PATCH("/users/me", userHandler.UpdateMe)
	v1.POST("/users/onboarding", userHandler.Onboard)

	v1.POST("/media/upload-url", mediaHandler.CreateUploadURL)
	v1.GET("/media/:key", mediaHandler.GetDownloadURL)

	v1.GET("/notifications", notificationHandler.List)

	return e, dispatcher
}
