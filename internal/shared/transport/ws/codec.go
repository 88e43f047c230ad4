package ws

import (
	"encoding/json"

	"VillageRaid/internal/shared/security"
)

// 帧格式：gzip(AES-CBC(json))，key 为空时不加密只压缩。握手帧总是明文压缩。
// 上下行同格式，服务端和 Client 共用 seal/open。

func decodeFrame(data []byte, key string) (*ReqBody, error) {
	var body ReqBody
	if err := open(data, key, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

func encodeFrame(body *RespBody, key string) ([]byte, error) {
	return seal(body, key)
}

func encodeHandshake(key string) ([]byte, error) {
	return seal(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}}, "")
}

func seal(v any, key string) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if raw, err = security.AesCBCEncrypt(raw, []byte(key), []byte(key)); err != nil {
			return nil, err
		}
	}
	return security.Zip(raw)
}

func open(data []byte, key string, dst any) error {
	plain, err := security.UnZip(data)
	if err != nil {
		return err
	}
	if key != "" {
		if plain, err = security.AesCBCDecrypt(plain, []byte(key), []byte(key)); err != nil {
			return err
		}
	}
	return json.Unmarshal(plain, dst)
}
