package security

import (
	"bytes"
	"io"

	"github.com/go-think/openssl"
	"github.com/klauspost/compress/gzip"
)

// AesCBCEncrypt ws 帧加密，客户端约定 key 与 iv 相同、零填充。
func AesCBCEncrypt(src, key, iv []byte) ([]byte, error) {
	return openssl.AesCBCEncrypt(src, key, iv, openssl.ZEROS_PADDING)
}

// AesCBCDecrypt 解密后去掉尾部零填充。
func AesCBCDecrypt(src, key, iv []byte) ([]byte, error) {
	out, err := openssl.AesCBCDecrypt(src, key, iv, openssl.ZEROS_PADDING)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(out, "\x00"), nil
}

func Zip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnZip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
