package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service 服务接口
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 服务运行器
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}

	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 启动全部服务，任一服务失败或 ctx 结束时统一停止
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, logger *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	for _, svc := range r.services {
		if svc == nil {
			return errors.New("service is nil")
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, svc := range r.services {
		service := svc
		group.Go(func() error {
			logger.Infow("service_start", "service", service.Name())
			err := service.Start(groupCtx)
			logger.Infow("service_exit", "service", service.Name(), "error", err)
			return err
		})
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-groupCtx.Done()
		r.stopAll(stopTimeout, logger)
	}()

	runErr := group.Wait()
	<-stopped

	if runErr == nil || errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func (r *Runner) stopAll(stopTimeout time.Duration, logger *zap.SugaredLogger) {
	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	for _, svc := range r.services {
		if err := svc.Stop(stopCtx); err != nil {
			logger.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
}
