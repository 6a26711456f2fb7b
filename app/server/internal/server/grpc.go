package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	ggrpc "google.golang.org/grpc"

	"github.com/iWorld-y/cine_mind/app/server/internal/conf"
)

// maxRecvMsgSize 分析结果是纯文本，4MB 足够
const maxRecvMsgSize = 4 << 20

// NewGRPCServer gRPC 端口只暴露框架自带的健康检查与反射服务
func NewGRPCServer(c *conf.Server, logger log.Logger) *grpc.Server {
	var opts = []grpc.ServerOption{
		grpc.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		grpc.Options(ggrpc.MaxRecvMsgSize(maxRecvMsgSize)),
	}
	if c.Grpc != nil && c.Grpc.Addr != "" {
		opts = append(opts, grpc.Address(c.Grpc.Addr))
	}
	if c.Grpc != nil && c.Grpc.Timeout != "" {
		if d, err := time.ParseDuration(c.Grpc.Timeout); err == nil {
			opts = append(opts, grpc.Timeout(d))
		}
	}
	return grpc.NewServer(opts...)
}
