package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	Reschedule(c *gin.Context)
	ListMine(c *gin.Context)
}

type CalendarHTTP interface {
	Calendar(c *gin.Context)
	Quote(c *gin.Context)
	SetOverride(c *gin.Context)
}

type PropertyHTTP interface {
	Create(c *gin.Context)
	ListMine(c *gin.Context)
	AddRoom(c *gin.Context)
	ListRooms(c *gin.Context)
	UploadRoomPhoto(c *gin.Context)
}

type MaintenanceHTTP interface {
	CreateTask(c *gin.Context)
	CompleteTask(c *gin.Context)
	ListTasks(c *gin.Context)
}

type MessagingHTTP interface {
	Post(c *gin.Context)
	ListThreads(c *gin.Context)
	GetThread(c *gin.Context)
}

type FinanceHTTP interface {
	Ledger(c *gin.Context)
}

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Booking        BookingHTTP
	Calendar       CalendarHTTP
	Property       PropertyHTTP
	Maintenance    MaintenanceHTTP
	Messaging      MessagingHTTP
	Finance        FinanceHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.POST("/bookings/:id/reschedule", h.Booking.Reschedule)
		api.GET("/me/bookings", h.Booking.ListMine)
	}
	if h.Calendar != nil {
		api.GET("/properties/:id/rooms/:roomID/calendar", h.Calendar.Calendar)
		api.GET("/properties/:id/rooms/:roomID/quote", h.Calendar.Quote)
		api.PUT("/properties/:id/rooms/:roomID/calendar", h.Calendar.SetOverride)
	}
	if h.Property != nil {
		api.POST("/properties", h.Property.Create)
		api.GET("/properties", h.Property.ListMine)
		api.POST("/properties/:id/rooms", h.Property.AddRoom)
		api.GET("/properties/:id/rooms", h.Property.ListRooms)
		api.POST("/properties/:id/rooms/:roomID/photos", h.Property.UploadRoomPhoto)
	}
	if h.Maintenance != nil {
		api.POST("/properties/:id/maintenance", h.Maintenance.CreateTask)
		api.GET("/properties/:id/maintenance", h.Maintenance.ListTasks)
		api.POST("/maintenance/:taskID/complete", h.Maintenance.CompleteTask)
	}
	if h.Messaging != nil {
		api.POST("/messages", h.Messaging.Post)
		api.GET("/messages/threads", h.Messaging.ListThreads)
		api.GET("/messages/threads/:id", h.Messaging.GetThread)
	}
	if h.Finance != nil {
		api.GET("/properties/:id/ledger", h.Finance.Ledger)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
