package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/bath-journal/internal/interface/http"
	"github.com/oksasatya/bath-journal/pkg/contract"
)

// BathModule mounts the bath journal routes from the shared route table,
// all behind the per-IP limiter. Mutating routes also pass WriteLimiter.
type BathModule struct {
	Handler      *handlers.BathHandler
	Limiter      gin.HandlerFunc
	WriteLimiter gin.HandlerFunc
}

func NewBathModule(h *handlers.BathHandler, limiter, writeLimiter gin.HandlerFunc) *BathModule {
	return &BathModule{Handler: h, Limiter: limiter, WriteLimiter: writeLimiter}
}

func (m *BathModule) Register(rg *gin.RouterGroup) {
	byName := map[string]gin.HandlerFunc{
		contract.ListBaths.Name:   m.Handler.List,
		contract.BathStats.Name:   m.Handler.Stats,
		contract.SearchBaths.Name: m.Handler.Search,
		contract.GetBath.Name:     m.Handler.Get,
		contract.CreateBath.Name:  m.Handler.Create,
		contract.UpdateBath.Name:  m.Handler.Update,
		contract.DeleteBath.Name:  m.Handler.Delete,
	}
	for _, route := range contract.Routes {
		h, ok := byName[route.Name]
		if !ok {
			panic("no handler for route " + route.Name)
		}
		chain := make([]gin.HandlerFunc, 0, 3)
		if m.Limiter != nil {
			chain = append(chain, m.Limiter)
		}
		if m.WriteLimiter != nil && route.Method != http.MethodGet {
			chain = append(chain, m.WriteLimiter)
		}
		rg.Handle(route.Method, route.Relative(), append(chain, h)...)
	}
}
