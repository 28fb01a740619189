package worker

import (
	"context"
	"errors"

	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/provider"
	"github.com/florist-erp/internal/queue"
	"github.com/florist-erp/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskLabelPrint, c.handleLabelPrint)
}

func (c *Consumer) handleLabelPrint(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_label_print_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseLabelPrintPayload(task)
	if err != nil {
		logger.Warnw("worker_label_print_unmarshal_failed", "error", err)
		return err
	}
	if payload.PrintJobID == 0 {
		logger.Debugw("worker_label_print_skip_invalid_payload", "job_no", payload.JobNo)
		return nil
	}
	if c.PrintService == nil {
		logger.Warnw("worker_label_print_skip_print_service_nil", "print_job_id", payload.PrintJobID)
		return nil
	}

	job, err := c.PrintService.Render(ctx, payload.PrintJobID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_label_print_skip_job_not_found", "print_job_id", payload.PrintJobID)
			return nil
		case job != nil:
			// 数据本身无法渲染，任务已标记失败，不再重试
			logger.Warnw("worker_label_print_render_failed",
				"print_job_id", payload.PrintJobID,
				"job_no", payload.JobNo,
				"error", err,
			)
			return nil
		default:
			logger.Warnw("worker_label_print_failed", "print_job_id", payload.PrintJobID, "error", err)
			return err
		}
	}
	logger.Infow("worker_label_print_rendered",
		"print_job_id", job.ID,
		"job_no", job.JobNo,
		"order_id", job.OrderID,
	)
	return nil
}
