package queue

import (
	"errors"
	"testing"

	"github.com/florist-erp/internal/config"
)

func TestLabelPrintTaskRoundTrip(t *testing.T) {
	task, err := NewLabelPrintTask(LabelPrintPayload{PrintJobID: 7, JobNo: "PJ-7"})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskLabelPrint {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	payload, err := ParseLabelPrintPayload(task)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.PrintJobID != 7 || payload.JobNo != "PJ-7" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDisabledClientRejectsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueLabelPrint(LabelPrintPayload{PrintJobID: 1}); !errors.Is(err, ErrQueueDisabled) {
		t.Fatalf("expected ErrQueueDisabled, got %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency %d", cfg.Concurrency)
	}
	if cfg.Queues[CriticalQueue] <= cfg.Queues[DefaultQueue] {
		t.Fatalf("critical queue should outrank default: %+v", cfg.Queues)
	}
}
