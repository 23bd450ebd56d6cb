package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdesk-backend-go/internal/config"
	"reviewdesk-backend-go/internal/core"
)

func metaRouter(t *testing.T, cfg config.Config, got *core.ClientMeta) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(cfg.TrustedProxyList()))
	r.GET("/meta", func(c *gin.Context) {
		*got = clientMeta(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func requestFrom(r http.Handler, remoteAddr, forwardedFor string) {
	req := httptest.NewRequest(http.MethodGet, "/meta", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Time-Zone", "Europe/Lisbon")
	r.ServeHTTP(httptest.NewRecorder(), req)
}

func TestClientMeta_IgnoresForwardedForWithoutTrustedProxies(t *testing.T) {
	var got core.ClientMeta
	r := metaRouter(t, config.Config{}, &got)

	requestFrom(r, "203.0.113.9:51000", "8.8.8.8")
	assert.Equal(t, "203.0.113.9", got.ClientIP)
	assert.Equal(t, "Europe/Lisbon", got.TimeZone)
}

func TestClientMeta_HonoursForwardedForFromTrustedProxy(t *testing.T) {
	var got core.ClientMeta
	r := metaRouter(t, config.Config{TrustedProxies: "10.0.0.0/8"}, &got)

	requestFrom(r, "10.1.2.3:443", "8.8.8.8")
	assert.Equal(t, "8.8.8.8", got.ClientIP)

	requestFrom(r, "203.0.113.9:51000", "8.8.8.8")
	assert.Equal(t, "203.0.113.9", got.ClientIP)
}
