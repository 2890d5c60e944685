package grpc

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"Warfront/modules/kit/logx"
)

// ArenaService 健康检查里的服务名。
const ArenaService = "warfront.arena"

// HealthServer 只暴露标准 grpc health 服务，供编排系统探活。
type HealthServer struct {
	srv    *gogrpc.Server
	health *health.Server
	lis    net.Listener
	log    logx.Logger
}

func NewHealthServer(addr string, l logx.Logger) (*HealthServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	if l == nil {
		l = logx.NewZapLogger(nil)
	}
	srv := gogrpc.NewServer(
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor(l)),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ArenaService, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{srv: srv, health: hs, lis: lis, log: l}, nil
}

func (s *HealthServer) Addr() string {
	return s.lis.Addr().String()
}

// Start 阻塞直到 Stop。
func (s *HealthServer) Start() error {
	s.log.Info("grpc health server listening", zap.String("addr", s.Addr()))
	return s.srv.Serve(s.lis)
}

// SetServing 标记 arena 是否可以接受新对局。
func (s *HealthServer) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ArenaService, st)
	s.health.SetServingStatus("", st)
}

func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

// DialHealth 建立带 trace 注入的客户端连接。
func DialHealth(target string) (*gogrpc.ClientConn, healthpb.HealthClient, error) {
	opts := []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
		gogrpc.WithChainStreamInterceptor(StreamClientTraceInterceptor()),
	}
	conn, err := gogrpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial health service failed: %w", err)
	}
	return conn, healthpb.NewHealthClient(conn), nil
}
