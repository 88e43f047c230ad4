package interfaces

import (
	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/interfaces/handler"
	"VillageRaid/internal/raid/interfaces/handler/http"
	ws2 "VillageRaid/internal/raid/interfaces/handler/ws"
	"VillageRaid/internal/shared/session"
	transporthttp "VillageRaid/internal/shared/transport/http"
	"VillageRaid/internal/shared/transport/ws"
	"VillageRaid/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(rt handler.Runtime, svc *app.RaidService, s session.Manager, log logx.Logger) *Module {
	raid := handler.NewRaid(rt, svc, s, log)
	return &Module{
		wsHandler:   ws2.NewWsHandler(raid),
		httpHandler: http.NewHttpHandler(raid),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
