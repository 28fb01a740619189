package service

import (
	"context"
	"strings"
	"time"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/label"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/queue"
	"github.com/florist-erp/internal/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// PrintJobQueue 打印任务投递
type PrintJobQueue interface {
	Enabled() bool
	EnqueueLabelPrint(payload queue.LabelPrintPayload, opts ...asynq.Option) error
}

// PrintRequest 留言卡打印/预览请求，零值字段沿用默认设置
type PrintRequest struct {
	LabelType       string  `json:"label_type"`
	StartPosition   int     `json:"start_position"`
	MessageFont     string  `json:"message_font"`
	MessageFontSize int     `json:"message_font_size"`
	SenderFont      string  `json:"sender_font"`
	SenderFontSize  int     `json:"sender_font_size"`
	Message         *string `json:"message"`
	Sender          *string `json:"sender"`
	Editing         bool    `json:"editing"`
	PersistMessage  bool    `json:"persist_message"`
}

// PrintService 留言卡打印服务
type PrintService struct {
	orders   repository.OrderRepository
	jobs     repository.PrintJobRepository
	settings *SettingService
	queue    PrintJobQueue
}

// NewPrintService 创建打印服务
func NewPrintService(orders repository.OrderRepository, jobs repository.PrintJobRepository, settings *SettingService, q PrintJobQueue) *PrintService {
	return &PrintService{orders: orders, jobs: jobs, settings: settings, queue: q}
}

// LabelTypes 标签纸规格目录
func (s *PrintService) LabelTypes() []label.Geometry {
	return label.Catalog()
}

// Preview 预览留言卡排版
func (s *PrintService) Preview(ctx context.Context, orderID uint, req PrintRequest) (label.Sheet, error) {
	engine, _, err := s.buildEngine(ctx, orderID, req)
	if err != nil {
		return label.Sheet{}, err
	}
	return engine.Preview()
}

// Submit 生成打印数据并投递渲染任务
func (s *PrintService) Submit(ctx context.Context, orderID uint, req PrintRequest, actorID uint) (*models.PrintJob, error) {
	engine, order, err := s.buildEngine(ctx, orderID, req)
	if err != nil {
		return nil, err
	}
	payload, err := engine.BuildPrintPayload()
	if err != nil {
		return nil, err
	}
	if s.queue == nil || !s.queue.Enabled() {
		return nil, ErrPrintQueueUnavailable
	}

	if req.PersistMessage {
		content := label.JoinMessage(payload.MessageContent, payload.SenderName)
		if content != order.MessageContent {
			if err := s.orders.UpdateMessage(order.ID, content); err != nil {
				logger.Errorw("print_persist_message_failed", "order_id", order.ID, "error", err)
				return nil, apperr.Backend("order.update_message", err)
			}
		}
	}

	body, err := encodeJSONMap(payload)
	if err != nil {
		return nil, err
	}
	job := &models.PrintJob{
		JobNo:     "PJ-" + strings.ToUpper(uuid.NewString()),
		OrderID:   order.ID,
		LabelType: payload.LabelType,
		Payload:   body,
		Status:    constants.PrintJobStatusQueued,
		CreatedBy: actorID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		logger.Errorw("print_job_create_failed", "order_id", order.ID, "error", err)
		return nil, apperr.Backend("print_job.create", err)
	}

	if err := s.queue.EnqueueLabelPrint(queue.LabelPrintPayload{PrintJobID: job.ID, JobNo: job.JobNo}); err != nil {
		logger.Errorw("print_job_enqueue_failed", "print_job_id", job.ID, "job_no", job.JobNo, "error", err)
		s.markFailed(ctx, job, err.Error())
		return job, ErrPrintQueueUnavailable
	}
	logger.Infow("print_job_queued",
		"print_job_id", job.ID,
		"job_no", job.JobNo,
		"order_id", order.ID,
		"label_type", payload.LabelType,
		"start_position", payload.StartPosition,
	)
	return job, nil
}

// GetJob 获取打印任务
func (s *PrintService) GetJob(ctx context.Context, id uint) (*models.PrintJob, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Backend("print_job.get", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// ListJobs 订单下的打印任务
func (s *PrintService) ListJobs(ctx context.Context, orderID uint) ([]models.PrintJob, error) {
	jobs, err := s.jobs.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apperr.Backend("print_job.list", err)
	}
	return jobs, nil
}

// Render 渲染整页 HTML 并更新任务状态（由队列消费者调用）
func (s *PrintService) Render(ctx context.Context, id uint) (*models.PrintJob, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status == constants.PrintJobStatusRendered {
		return job, nil
	}
	var payload label.PrintPayload
	if err := decodeSettingValue(job.Payload, &payload); err != nil {
		s.markFailed(ctx, job, err.Error())
		return job, err
	}
	html, err := label.RenderSheetHTML(payload)
	if err != nil {
		s.markFailed(ctx, job, err.Error())
		return job, err
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":      constants.PrintJobStatusRendered,
		"sheet_html":  string(html),
		"error":       "",
		"rendered_at": now,
	}
	if err := s.jobs.UpdateFields(ctx, job.ID, fields); err != nil {
		logger.Errorw("print_job_update_failed", "print_job_id", job.ID, "error", err)
		return nil, apperr.Backend("print_job.update", err)
	}
	job.Status = constants.PrintJobStatusRendered
	job.SheetHTML = string(html)
	job.Error = ""
	job.RenderedAt = &now
	return job, nil
}

// FailStale 将长时间未被消费的排队任务标记为失败
func (s *PrintService) FailStale(ctx context.Context, olderThan time.Duration) (int, error) {
	jobs, err := s.jobs.ListStaleQueued(ctx, time.Now().Add(-olderThan), 100)
	if err != nil {
		return 0, apperr.Backend("print_job.list_stale", err)
	}
	for i := range jobs {
		s.markFailed(ctx, &jobs[i], "render timeout")
	}
	return len(jobs), nil
}

// Sheet 已渲染任务的整页 HTML
func (s *PrintService) Sheet(ctx context.Context, id uint) ([]byte, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != constants.PrintJobStatusRendered || job.SheetHTML == "" {
		return nil, ErrPrintJobNotReady
	}
	return []byte(job.SheetHTML), nil
}

func (s *PrintService) markFailed(ctx context.Context, job *models.PrintJob, reason string) {
	fields := map[string]interface{}{
		"status": constants.PrintJobStatusFailed,
		"error":  reason,
	}
	if err := s.jobs.UpdateFields(ctx, job.ID, fields); err != nil {
		logger.Warnw("print_job_mark_failed_error", "print_job_id", job.ID, "error", err)
		return
	}
	job.Status = constants.PrintJobStatusFailed
	job.Error = reason
}

func (s *PrintService) buildEngine(ctx context.Context, orderID uint, req PrintRequest) (*label.Engine, *models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, nil, apperr.Backend("order.get", err)
	}
	if order == nil {
		return nil, nil, ErrNotFound
	}
	opts, err := s.settings.LabelOptions(ctx)
	if err != nil {
		return nil, nil, err
	}

	engine := label.NewEngine(opts)
	engine.Load(order.ID, order.MessageContent, order.OrdererName)
	if err := applyPrintRequest(engine, req); err != nil {
		return nil, nil, err
	}
	return engine, order, nil
}

func applyPrintRequest(engine *label.Engine, req PrintRequest) error {
	if strings.TrimSpace(req.LabelType) != "" {
		if err := engine.SelectLabelType(strings.TrimSpace(req.LabelType)); err != nil {
			return err
		}
	}
	if req.StartPosition != 0 {
		if err := engine.SetStartPosition(req.StartPosition); err != nil {
			return err
		}
	}
	if req.MessageFont != "" || req.MessageFontSize != 0 {
		family := req.MessageFont
		if family == "" {
			family = engine.MessageFont().Family
		}
		if err := engine.SetMessageFont(family, req.MessageFontSize); err != nil {
			return err
		}
	}
	if req.SenderFont != "" || req.SenderFontSize != 0 {
		family := req.SenderFont
		if family == "" {
			family = engine.SenderFont().Family
		}
		if err := engine.SetSenderFont(family, req.SenderFontSize); err != nil {
			return err
		}
	}
	if req.Message != nil {
		engine.SetMessage(*req.Message)
	}
	if req.Sender != nil {
		engine.SetSender(*req.Sender)
	}
	if req.Editing != engine.Editing() {
		engine.ToggleEdit()
	}
	return nil
}
