package worker

import (
	"context"
	"errors"
	"time"

	"github.com/florist-erp/internal/config"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	staleSweepInterval = time.Minute
	printJobStaleAfter = 10 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.PrintService != nil {
		go s.runStaleSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runStaleSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.PrintService == nil {
		return
	}
	log := logger.Named("print_job_sweep")
	runOnce := func() {
		failed, err := s.consumer.PrintService.FailStale(ctx, printJobStaleAfter)
		if err != nil {
			log.Warnw("worker_print_job_sweep_failed", "error", err)
			return
		}
		if failed > 0 {
			log.Infow("worker_print_job_sweep_done", "failed", failed, "stale_after", printJobStaleAfter.String())
		}
	}
	runOnce()

	ticker := time.NewTicker(staleSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
