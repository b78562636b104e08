package handlers

import (
	"time"

	_ "task_tracker/docs" // registers the swagger document
	"task_tracker/internal/logger"
	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger

	exposeInternalErrors bool
	allowedOrigins       []string
	sessionInterval      time.Duration
}

// Option tunes a Handler.
type Option func(*Handler)

// WithExposeInternalErrors returns raw error text in 500 responses. Meant for development only.
func WithExposeInternalErrors(expose bool) Option {
	return func(h *Handler) { h.exposeInternalErrors = expose }
}

// WithAllowedOrigins restricts CORS and WebSocket origins. Empty allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) { h.allowedOrigins = origins }
}

// WithSessionInterval sets the default task snapshot interval of the session stream.
func WithSessionInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 && d <= maxInterval {
			h.sessionInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services:        services,
		log:             log,
		sessionInterval: defaultInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID, h.requestLogger, h.cors)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		h.registerAuthRoutes(api)

		protected := api.Group("", h.identityMiddleware)
		h.registerTaskRoutes(protected)
		h.registerUserRoutes(protected)
		h.registerAdminRoutes(protected)
	}

	// Session stream (HTTP upgrade) on the same port
	router.GET("/ws/session", h.identityMiddleware, h.wsSession)

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	api.POST("/register", h.register)
	api.POST("/login", h.login)
}

func (h *Handler) registerTaskRoutes(api *gin.RouterGroup) {
	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.listTasks)
		tasks.POST("", h.createTask)
		tasks.GET("/:id", h.getTask)
		tasks.PATCH("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
	}
}

func (h *Handler) registerUserRoutes(api *gin.RouterGroup) {
	api.GET("/user/me", h.me)
}

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", RequireRoles(models.RoleAdmin))
	{
		admin.GET("/all-tasks", h.allTasks)
	}
}
