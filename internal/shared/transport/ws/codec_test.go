package ws

import (
	"encoding/json"
	"testing"

	"VillageRaid/internal/shared/security"
)

const testKey = "0123456789abcdef"

func TestFrame_加密压缩后能还原(t *testing.T) {
	frame, err := encodeFrame(&RespBody{Seq: 3, Name: "raid.begin", Code: 0, Msg: map[string]any{"k": "v"}}, testKey)
	if err != nil {
		t.Fatalf("encode err=%v", err)
	}
	// 客户端上行与下行同格式，直接按请求体解回来
	body, err := decodeFrame(frame, testKey)
	if err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if body.Seq != 3 || body.Name != "raid.begin" {
		t.Fatalf("期望 seq=3 name=raid.begin，got=%+v", body)
	}
	if _, err := decodeFrame(frame, "fedcba9876543210"); err == nil {
		t.Fatalf("期望错误密钥解码失败")
	}
}

func TestFrame_不加密时只压缩(t *testing.T) {
	frame, err := encodeFrame(&RespBody{Name: "raid.result", Msg: 1}, "")
	if err != nil {
		t.Fatalf("encode err=%v", err)
	}
	raw, err := security.UnZip(frame)
	if err != nil || !json.Valid(raw) {
		t.Fatalf("期望解压后是明文 json，raw=%q err=%v", raw, err)
	}
	body, err := decodeFrame(frame, "")
	if err != nil || body.Name != "raid.result" {
		t.Fatalf("期望还原 raid.result，got=%+v err=%v", body, err)
	}
	if _, err := decodeFrame([]byte("not gzip"), ""); err == nil {
		t.Fatalf("期望非 gzip 数据报错")
	}
}

func TestHandshake_只压缩不加密(t *testing.T) {
	frame, err := encodeHandshake(testKey)
	if err != nil {
		t.Fatalf("encode err=%v", err)
	}
	raw, err := security.UnZip(frame)
	if err != nil {
		t.Fatalf("unzip err=%v", err)
	}
	var body struct {
		Name string    `json:"name"`
		Msg  Handshake `json:"msg"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("握手帧应为明文 json，err=%v", err)
	}
	if body.Name != HandshakeMsg || body.Msg.Key != testKey {
		t.Fatalf("期望握手下发密钥，got=%+v", body)
	}
}
