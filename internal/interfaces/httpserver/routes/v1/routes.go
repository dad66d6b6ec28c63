package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/health-assistant/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{handlers: handlerProvider}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.POST("/chat", r.handlers.Chat.Ask)
	group.GET("/chat/messages", r.handlers.Chat.Messages)
	group.GET("/tools", r.handlers.Tool.List)
	group.GET("/sleep/recent", r.handlers.Sleep.Recent)
	group.GET("/status", r.handlers.Status.Status)

	if r.handlers.Sync != nil {
		group.POST("/sync/:source", r.handlers.Sync.Run)
	}
}
