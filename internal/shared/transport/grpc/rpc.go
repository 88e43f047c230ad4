package grpc

import (
	"fmt"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial 建立带 trace 透传的 grpc 连接，extra 追加在默认选项之后。
func Dial(target string, extra ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	opts := []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
		gogrpc.WithChainStreamInterceptor(StreamClientTraceInterceptor()),
	}
	// NewClient 不会立即建连，首个 RPC 时才解析地址
	conn, err := gogrpc.NewClient(target, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", target, err)
	}
	return conn, nil
}

// NewServer 创建挂好 trace 提取拦截器的 grpc server。
func NewServer(extra ...gogrpc.ServerOption) *gogrpc.Server {
	opts := []gogrpc.ServerOption{
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor()),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	}
	return gogrpc.NewServer(append(opts, extra...)...)
}
