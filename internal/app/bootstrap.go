package app

import (
	"errors"
	"net"
	"strings"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/provider"
	"github.com/artmart-next/internal/router"
	"github.com/artmart-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, container *provider.Container, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService("http", listenAddr(cfg.Server), engine))

		if cfg.Metrics.Enabled && strings.TrimSpace(cfg.Metrics.Addr) != "" {
			services = append(services, NewMetricsService(strings.TrimSpace(cfg.Metrics.Addr), cfg.Metrics.MetricsPath()))
		}
	}

	// 初始化 Worker 服务
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container := provider.NewContainer(opts.Config)
	defer container.Close()

	runner, err := BuildRunner(opts.Config, container, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config.Server), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

func listenAddr(server config.ServerConfig) string {
	port := strings.TrimSpace(server.Port)
	if port == "" {
		port = "8080"
	}
	return net.JoinHostPort(strings.TrimSpace(server.Host), port)
}
