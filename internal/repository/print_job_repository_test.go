package repository

import (
	"context"
	"testing"
	"time"

	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/models"
)

func TestPrintJobRepositoryStaleQueued(t *testing.T) {
	db := openTestDB(t)
	repo := NewPrintJobRepository(db)
	ctx := context.Background()

	old := time.Now().Add(-2 * time.Hour)
	jobs := []models.PrintJob{
		{JobNo: "PJ-1", OrderID: 1, LabelType: "formtec-3107", Status: constants.PrintJobStatusQueued, CreatedAt: old},
		{JobNo: "PJ-2", OrderID: 1, LabelType: "formtec-3107", Status: constants.PrintJobStatusRendered, CreatedAt: old},
		{JobNo: "PJ-3", OrderID: 2, LabelType: "formtec-3108", Status: constants.PrintJobStatusQueued},
	}
	for i := range jobs {
		if err := repo.Create(ctx, &jobs[i]); err != nil {
			t.Fatalf("create job failed: %v", err)
		}
	}

	stale, err := repo.ListStaleQueued(ctx, time.Now().Add(-time.Hour), 0)
	if err != nil {
		t.Fatalf("list stale failed: %v", err)
	}
	if len(stale) != 1 || stale[0].JobNo != "PJ-1" {
		t.Fatalf("unexpected stale jobs: %+v", stale)
	}

	if err := repo.UpdateFields(ctx, jobs[0].ID, map[string]interface{}{"status": constants.PrintJobStatusFailed}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := repo.GetByID(ctx, jobs[0].ID)
	if err != nil || got == nil || got.Status != constants.PrintJobStatusFailed {
		t.Fatalf("unexpected job after update: %+v err=%v", got, err)
	}

	byOrder, err := repo.ListByOrder(ctx, 1)
	if err != nil {
		t.Fatalf("list by order failed: %v", err)
	}
	if len(byOrder) != 2 || byOrder[0].JobNo != "PJ-2" {
		t.Fatalf("expected newest first, got %+v", byOrder)
	}

	missing, err := repo.GetByID(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing job, got %+v err=%v", missing, err)
	}
}
