package ws

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

var ErrClientClosed = errors.New("ws client closed")

// Client 是 ws 协议的调用端，供联调工具和集成测试使用。
// 请求按 seq 与响应配对，seq 为 0 的帧是服务端推送。
type Client struct {
	conn    *websocket.Conn
	seq     atomic.Int64
	wmu     sync.Mutex
	mu      sync.Mutex
	key     string
	pending map[int64]chan *RespBody
	pushes  chan *RespBody
	done    chan struct{}
	once    sync.Once
}

// Dial 建立连接并等待握手帧拿到密钥。
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	var hs struct {
		Name string    `json:"name"`
		Msg  Handshake `json:"msg"`
	}
	if err := open(data, "", &hs); err != nil || hs.Name != HandshakeMsg {
		_ = conn.Close()
		return nil, errors.New("ws client: handshake expected")
	}

	c := &Client{
		conn:    conn,
		key:     hs.Msg.Key,
		pending: make(map[int64]chan *RespBody),
		pushes:  make(chan *RespBody, outQueueSize),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Call 发送一个请求并等待同 seq 的响应。
func (c *Client) Call(ctx context.Context, name string, msg any) (*RespBody, error) {
	seq := c.seq.Add(1)
	ch := make(chan *RespBody, 1)

	c.mu.Lock()
	c.pending[seq] = ch
	key := c.key
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
	}()

	frame, err := seal(&ReqBody{Seq: seq, Name: name, Msg: msg}, key)
	if err != nil {
		return nil, err
	}
	c.wmu.Lock()
	err = c.conn.WriteMessage(websocket.BinaryMessage, frame)
	c.wmu.Unlock()
	if err != nil {
		return nil, err
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-c.done:
		return nil, ErrClientClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pushes 服务端推送，读循环退出后关闭。
func (c *Client) Pushes() <-chan *RespBody {
	return c.pushes
}

func (c *Client) Close() {
	c.once.Do(func() {
		_ = c.conn.Close()
		close(c.done)
	})
}

func (c *Client) readLoop() {
	defer close(c.pushes)
	defer c.Close()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.mu.Lock()
		key := c.key
		c.mu.Unlock()

		var body RespBody
		if err := open(data, key, &body); err != nil {
			// 服务端解不开上行帧时会重新握手
			var hs struct {
				Name string    `json:"name"`
				Msg  Handshake `json:"msg"`
			}
			if open(data, "", &hs) == nil && hs.Name == HandshakeMsg {
				c.mu.Lock()
				c.key = hs.Msg.Key
				c.mu.Unlock()
			}
			continue
		}

		if body.Seq == 0 {
			select {
			case c.pushes <- &body:
			default:
			}
			continue
		}
		c.mu.Lock()
		ch := c.pending[body.Seq]
		c.mu.Unlock()
		if ch != nil {
			ch <- &body
		}
	}
}
