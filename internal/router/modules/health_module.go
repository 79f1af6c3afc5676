package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bath-journal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthModule struct {
	Store Pinger
}

func NewHealthModule(store Pinger) *HealthModule { return &HealthModule{Store: store} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := m.Store.Ping(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"status": "ok"})
	})
}
