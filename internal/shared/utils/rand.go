package utils

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"time"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandSeq 生成 n 位字母数字串，用作 ws 会话密钥。
func RandSeq(n int) string {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(letters)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			b[i] = letters[mrand.Intn(len(letters))]
			continue
		}
		b[i] = letters[idx.Int64()]
	}
	return string(b)
}

// NewRand 返回带种子的随机源。seed 为 0 时取当前时间，返回实际使用的种子，便于回放。
func NewRand(seed int64) (*mrand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return mrand.New(mrand.NewSource(seed)), seed
}
