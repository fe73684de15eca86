package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/artmart-next/internal/metrics"
)

const readHeaderTimeout = 10 * time.Second

// HTTPService HTTP 服务封装
type HTTPService struct {
	name   string
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(name, addr string, handler http.Handler) *HTTPService {
	return &HTTPService{
		name: name,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// NewMetricsService 独立端口暴露 Prometheus 指标
func NewMetricsService(addr, path string) *HTTPService {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	return NewHTTPService("metrics", addr, mux)
}

// Name 服务名称
func (s *HTTPService) Name() string {
	if s == nil || s.name == "" {
		return "http"
	}
	return s.name
}

// Start 启动服务
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止服务
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
