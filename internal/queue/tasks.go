package queue

import (
	"encoding/json"
	"errors"

	"github.com/florist-erp/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskLabelPrint 留言卡整页渲染任务
const TaskLabelPrint = constants.TaskLabelPrint

// ErrQueueDisabled 队列未启用
var ErrQueueDisabled = errors.New("queue disabled")

// LabelPrintPayload 留言卡渲染任务载荷
type LabelPrintPayload struct {
	PrintJobID uint   `json:"print_job_id"`
	JobNo      string `json:"job_no"`
}

// NewLabelPrintTask 创建留言卡渲染任务
func NewLabelPrintTask(payload LabelPrintPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLabelPrint, body), nil
}

// ParseLabelPrintPayload 解析留言卡渲染任务载荷
func ParseLabelPrintPayload(task *asynq.Task) (LabelPrintPayload, error) {
	var payload LabelPrintPayload
	if task == nil {
		return payload, errors.New("task is nil")
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
