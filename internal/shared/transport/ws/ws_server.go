package ws

import (
	"fmt"
	"sync"
	"time"

	"VillageRaid/internal/shared/utils"
	"VillageRaid/modules/kit/logx"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	outQueueSize = 256
	secretLen    = 16
)

// WsServer 是一条 ws 连接：读循环解帧并分发，写循环串行加密下发。
type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	done       chan struct{}
	closeOnce  sync.Once
	log        logx.Logger
	needSecret bool
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger, needSecret bool) *WsServer {
	if l == nil {
		l = logx.Nop()
	}
	return &WsServer{
		conn:       wsConn,
		outChan:    make(chan *WsMsgResp, outQueueSize),
		property:   make(map[string]any),
		done:       make(chan struct{}),
		log:        l.With(zap.String("remote", wsConn.RemoteAddr().String())),
		needSecret: needSecret,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 服务端主动推送，连接已关闭时丢弃。
func (s *WsServer) Push(name string, data any) {
	s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(msg *WsMsgResp) {
	select {
	case <-s.done:
	case s.outChan <- msg:
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) secret() string {
	key, _ := s.GetProperty(SecretKey).(string)
	return key
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("ws read closed", zap.Error(err))
			return
		}

		reqBody, err := decodeFrame(data, s.secret())
		if err != nil {
			// 解不开就重新握手，客户端拿到 key 后重发
			s.log.Warn("ws decode frame failed", zap.Error(err))
			s.handshake()
			continue
		}

		// req 和 resp 的 Seq 必须一致
		resp := &WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.log.Debug("ws read msg", zap.String("name", reqBody.Name), zap.Int64("seq", reqBody.Seq))
			s.router.Dispatch(&WsMsgReq{Body: reqBody, Conn: s}, resp)
		}
		s.enqueue(resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) {
	frame, err := encodeFrame(msg.Body, s.secret())
	if err != nil {
		s.log.Error("ws encode frame failed", zap.String("name", msg.Body.Name), zap.Error(err))
		return
	}
	// 压缩后的密文是二进制，必须走 BinaryMessage
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		s.log.Error("ws write failed", zap.Error(err))
	}
}

// handshake 下发本连接的 AES 密钥，已有则复用；不加密时下发空 key。
func (s *WsServer) handshake() {
	key := s.secret()
	if key == "" && s.needSecret {
		key = utils.RandSeq(secretLen)
		s.SetProperty(SecretKey, key)
	}
	frame, err := encodeHandshake(key)
	if err != nil {
		s.log.Error("ws handshake encode failed", zap.Error(err))
		return
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		s.log.Error("ws handshake write failed", zap.Error(err))
	}
}
