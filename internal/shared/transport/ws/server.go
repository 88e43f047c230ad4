package ws

import (
	"net/http"

	"VillageRaid/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	router     *Router
	log        logx.Logger
	needSecret bool
	upgrader   websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger, needSecret bool) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router:     r,
		log:        l,
		needSecret: needSecret,
		upgrader: websocket.Upgrader{
			// 允许所有跨域请求
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	wsServer := NewWsServer(wsConn, s.log, s.needSecret)
	wsServer.Router(s.router)
	// 先握手再开读写循环，保证客户端第一帧就能加密
	wsServer.handshake()
	wsServer.Run()
}
