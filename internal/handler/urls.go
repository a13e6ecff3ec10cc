package handlers

import (
	"time"

	"Disastrous/internal/broadcast"
	"Disastrous/internal/models"
	"Disastrous/pkg/cache"
	"Disastrous/pkg/config"
	"Disastrous/pkg/llm"
	"Disastrous/pkg/metrics"
	"Disastrous/pkg/middleware"
	"Disastrous/pkg/sse"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	db           *gorm.DB
	dispatcher   *broadcast.Dispatcher
	hub          *sse.Hub
	assistant    llm.LLM // nil when the upstream is not configured
	pageCache    cache.Cache
	translations cache.Cache
}

func NewHandlers(db *gorm.DB, dispatcher *broadcast.Dispatcher, hub *sse.Hub, assistant llm.LLM) *Handlers {
	return &Handlers{
		db:           db,
		dispatcher:   dispatcher,
		hub:          hub,
		assistant:    assistant,
		pageCache:    cache.NewGoCache(5*time.Minute, 10*time.Minute),
		translations: cache.NewLRUCache(512, time.Hour),
	}
}

func (h *Handlers) Register(engine *gin.Engine) {
	// Register Global Singleton DB
	engine.Use(middleware.InjectDB(h.db))

	h.registerAPIRoutes(engine)
	h.registerAuthRoutes(engine)
	h.registerRescueRoutes(engine)
	h.registerStreamRoutes(engine)
	h.registerSystemRoutes(engine)
}

// Citizen-facing API
func (h *Handlers) registerAPIRoutes(engine *gin.Engine) {
	api := engine.Group("/api")
	api.Use(middleware.CORS())
	{
		api.POST("/sos", h.handleCreateSOS)

		api.GET("/preferences", h.handleGetPreferences)

		api.POST("/preferences", h.handleSavePreferences)

		api.GET("/forecasts", h.handleForecasts)

		api.GET("/emergency-alerts", h.handleEmergencyAlerts)

		api.GET("/disaster-locations", h.handleDisasterLocations)

		api.GET("/rescue-resources", h.handleRescueResources)

		api.GET("/guidelines", h.handleGuidelines)

		api.GET("/contacts", h.handleContacts)

		api.GET("/languages", h.handleLanguages)
	}

	// Assistant proxy is rate limited to protect upstream quota
	assistant := api.Group("")
	assistant.Use(middleware.RateLimiter(config.GlobalConfig.AssistantRate))
	{
		assistant.POST("/chat", h.handleChat)

		assistant.POST("/translate", h.handleTranslate)
	}
}

// Authority account module
func (h *Handlers) registerAuthRoutes(engine *gin.Engine) {
	auth := engine.Group("/auth")
	{
		// rescue account self-registration
		auth.POST("/register", h.handleUserSignup)

		auth.POST("/login", h.handleUserSignin)

		auth.GET("/logout", models.AuthRequired, h.handleUserLogout)

		auth.GET("/info", models.AuthRequired, h.handleUserInfo)

		auth.PUT("/profile", models.AuthRequired, h.handleUserProfileUpdate)
	}
}

// Rescue personnel dashboard
func (h *Handlers) registerRescueRoutes(engine *gin.Engine) {
	rescue := engine.Group("/rescue")
	rescue.Use(models.RoleRequired(models.RoleRescue))
	{
		rescue.GET("/sos-requests", h.handleListSOSRequests)

		rescue.POST("/sos-requests/:id/status", h.handleUpdateSOSStatus)
	}
}

// Push streams (long lived)
func (h *Handlers) registerStreamRoutes(engine *gin.Engine) {
	engine.GET("/sse/sos-updates", models.RoleRequired(models.RoleRescue), h.handleSOSStream)

	engine.GET("/ws/sos-updates", models.RoleRequired(models.RoleRescue), h.handleSOSStreamWS)
}

func (h *Handlers) registerSystemRoutes(engine *gin.Engine) {
	engine.GET("/health", h.HealthCheck)

	engine.GET("/health/system", models.RoleRequired(models.RoleAdmin), h.SystemHealth)

	engine.GET("/metrics", metrics.Handler())
}
