package api

import (
	"github.com/gin-gonic/gin"

	"reviewdesk-backend-go/internal/core"
	"reviewdesk-backend-go/internal/middleware"
)

// clientMeta collects what the request tells us about the client device and locale.
func clientMeta(c *gin.Context) core.ClientMeta {
	return core.ClientMeta{
		UserAgent:      c.Request.UserAgent(),
		AcceptLanguage: c.GetHeader("Accept-Language"),
		TimeZone:       c.GetHeader(middleware.TimeZoneHeader),
		ClientIP:       c.ClientIP(),
	}
}
