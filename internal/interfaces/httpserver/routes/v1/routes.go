package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/config"
	"wavesprint/intake-api/internal/interfaces/httpserver/handlers"
	"wavesprint/intake-api/internal/interfaces/httpserver/middlewares"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
	cfg      *config.Config
	log      zerolog.Logger
}

func NewRoutes(provider *handlers.Provider, cfg *config.Config, log zerolog.Logger) *Routes {
	return &Routes{handlers: provider, cfg: cfg, log: log}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.POST("/intake", r.handlers.Intake.Turn)
	group.POST("/chat/requirements", r.handlers.Requirements.Chat)
	group.POST("/contact", r.handlers.Contact.Submit)

	admin := group.Group("/admin", middlewares.RequireAdminKey(r.cfg.AdminKey, r.log))
	admin.GET("/leads", r.handlers.Admin.ListLeads)
	admin.GET("/leads/:id", r.handlers.Admin.GetLead)
	admin.PATCH("/leads/:id", r.handlers.Admin.UpdateLead)
	admin.GET("/leads/:id/activities", r.handlers.Admin.ListActivities)
	admin.POST("/leads/:id/activities", r.handlers.Admin.CreateActivity)
	admin.GET("/sessions", r.handlers.Admin.ListSessions)
	admin.GET("/sessions/:id", r.handlers.Admin.GetSession)
	admin.GET("/stats", r.handlers.Admin.Stats)
	admin.GET("/pipeline", r.handlers.Admin.Pipeline)
}
