package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/queue"
	"github.com/florist-erp/internal/repository"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

// failingDeleteRepo 第 failAt 次删除起返回错误
type failingDeleteRepo struct {
	repository.DeliveryFeeRepository
	deletes int
	failAt  int
}

func (r *failingDeleteRepo) DeleteByID(ctx context.Context, id uint) (bool, error) {
	r.deletes++
	if r.deletes >= r.failAt {
		return false, errors.New("connection reset by peer")
	}
	return r.DeliveryFeeRepository.DeleteByID(ctx, id)
}

type recordingQueue struct {
	payloads []queue.LabelPrintPayload
}

func (q *recordingQueue) Enabled() bool { return true }

func (q *recordingQueue) EnqueueLabelPrint(payload queue.LabelPrintPayload, _ ...asynq.Option) error {
	q.payloads = append(q.payloads, payload)
	return nil
}

func addDistrict(t *testing.T, r *gin.Engine, token, district string, fee int64) uint {
	t.Helper()
	resp := doJSON(t, r, http.MethodPost, "/api/v1/admin/delivery-fees", token, gin.H{
		"district": district,
		"fee":      fee,
	})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var data struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.ID
}

func TestMergeDuplicatesAndDeleteConfirmation(t *testing.T) {
	r, c := newRouterFixture(t)
	createUser(t, c, "manager@florist.test", constants.UserRoleManager)
	token := login(t, r, "manager@florist.test")

	first := addDistrict(t, r, token, "마포구", 6000)
	second := addDistrict(t, r, token, "마포구", 7000)
	other := addDistrict(t, r, token, "용산구", 5000)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/admin/delivery-fees/merge-duplicates", token, gin.H{"policy": "cheapest"})
	require.Equal(t, 400, resp.StatusCode)

	resp = doJSON(t, r, http.MethodPost, "/api/v1/admin/delivery-fees/merge-duplicates", token, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var merged service.MergeResult
	require.NoError(t, json.Unmarshal(resp.Data, &merged))
	require.Equal(t, service.RetainFirst, merged.Policy)
	require.Equal(t, []uint{first}, merged.Kept)
	require.Equal(t, []uint{second}, merged.Removed)
	require.Len(t, merged.Records, 2)

	// 再次整理无重复，结果不变
	resp = doJSON(t, r, http.MethodPost, "/api/v1/admin/delivery-fees/merge-duplicates", token, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	require.NoError(t, json.Unmarshal(resp.Data, &merged))
	require.Zero(t, merged.Groups)
	require.Empty(t, merged.Removed)

	path := fmt.Sprintf("/api/v1/admin/delivery-fees/%d?confirm_district=%s", other, url.QueryEscape("마포구"))
	resp = doJSON(t, r, http.MethodDelete, path, token, nil)
	require.Equal(t, 400, resp.StatusCode)

	path = fmt.Sprintf("/api/v1/admin/delivery-fees/%d?confirm_district=%s", other, url.QueryEscape("용산구"))
	resp = doJSON(t, r, http.MethodDelete, path, token, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var list struct {
		Items []models.DeliveryFee `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list.Items, 1)
	require.Equal(t, first, list.Items[0].ID)
}

func TestMergeDuplicatesPartialFailureReturnsResult(t *testing.T) {
	r, c := newRouterFixture(t)
	createUser(t, c, "manager@florist.test", constants.UserRoleManager)
	token := login(t, r, "manager@florist.test")

	first := addDistrict(t, r, token, "노원구", 9000)
	second := addDistrict(t, r, token, "노원구", 9000)
	addDistrict(t, r, token, "노원구", 9500)

	repo := &failingDeleteRepo{DeliveryFeeRepository: c.DeliveryFeeRepo, failAt: 2}
	c.DeliveryFeeService = service.NewDeliveryFeeService(repo, c.SettingService, service.DeliveryFeeOptions{})

	resp := doJSON(t, r, http.MethodPost, "/api/v1/admin/delivery-fees/merge-duplicates", token, nil)
	require.Equal(t, 503, resp.StatusCode)
	var data struct {
		Result service.MergeResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Equal(t, []uint{first}, data.Result.Kept)
	require.Equal(t, []uint{second}, data.Result.Removed)

	list := doJSON(t, r, http.MethodGet, "/api/v1/admin/delivery-fees/duplicates", token, nil)
	require.Equal(t, 0, list.StatusCode, list.Msg)
	var groups struct {
		Groups []service.DuplicateGroup `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(list.Data, &groups))
	require.Len(t, groups.Groups, 1)
	require.Equal(t, 2, groups.Groups[0].Count)
}

func TestMessagePrintPreviewAndSubmit(t *testing.T) {
	r, c := newRouterFixture(t)
	createUser(t, c, "staff@florist.test", constants.UserRoleEmployee)
	token := login(t, r, "staff@florist.test")

	order, err := c.OrderService.Create(context.Background(), service.CreateOrderInput{
		OrdererName: "김화원",
		ReceiptType: constants.OrderReceiptPickup,
		Subtotal:    45000,
		Message:     "개업을 축하드립니다",
		Sender:      "한빛상사 일동",
	})
	require.NoError(t, err)
	previewPath := fmt.Sprintf("/api/v1/admin/orders/%d/message-print/preview", order.ID)
	submitPath := fmt.Sprintf("/api/v1/admin/orders/%d/message-print", order.ID)

	resp := doJSON(t, r, http.MethodPost, previewPath, token, gin.H{
		"label_type":     "formtec-3109",
		"start_position": 12,
	})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var sheet struct {
		Grid struct {
			Cells []struct {
				Position int  `json:"position"`
				Filled   bool `json:"filled"`
			} `json:"cells"`
		} `json:"grid"`
		Card struct {
			Message string `json:"message"`
			Sender  string `json:"sender"`
		} `json:"card"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &sheet))
	require.Len(t, sheet.Grid.Cells, 12)
	require.True(t, sheet.Grid.Cells[11].Filled)
	require.False(t, sheet.Grid.Cells[0].Filled)
	require.Equal(t, "개업을 축하드립니다", sheet.Card.Message)
	require.Equal(t, "한빛상사 일동", sheet.Card.Sender)

	resp = doJSON(t, r, http.MethodPost, previewPath, token, gin.H{
		"label_type":     "formtec-3107",
		"start_position": 7,
	})
	require.Equal(t, 400, resp.StatusCode)

	// 队列未启用
	resp = doJSON(t, r, http.MethodPost, submitPath, token, gin.H{"label_type": "formtec-3108"})
	require.Equal(t, 503, resp.StatusCode)

	q := &recordingQueue{}
	c.PrintService = service.NewPrintService(c.OrderRepo, c.PrintJobRepo, c.SettingService, q)
	resp = doJSON(t, r, http.MethodPost, submitPath, token, gin.H{
		"label_type":     "formtec-3108",
		"start_position": 3,
	})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var job models.PrintJob
	require.NoError(t, json.Unmarshal(resp.Data, &job))
	require.Equal(t, constants.PrintJobStatusQueued, job.Status)
	require.Equal(t, "formtec-3108", job.LabelType)
	require.Len(t, q.payloads, 1)
	require.Equal(t, job.ID, q.payloads[0].PrintJobID)
}

func TestAdminTunesRolePolicies(t *testing.T) {
	r, c := newRouterFixture(t)
	createUser(t, c, "owner@florist.test", constants.UserRoleAdmin)
	createUser(t, c, "staff@florist.test", constants.UserRoleEmployee)
	adminToken := login(t, r, "owner@florist.test")
	staffToken := login(t, r, "staff@florist.test")

	exportPolicy := gin.H{"role": "employee", "object": "/admin/materials/export", "action": "GET"}

	resp := doJSON(t, r, http.MethodPost, "/api/v1/admin/authz/policies", staffToken, exportPolicy)
	require.Equal(t, 403, resp.StatusCode)

	resp = doJSON(t, r, http.MethodPost, "/api/v1/admin/authz/policies", adminToken, exportPolicy)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = doJSON(t, r, http.MethodGet, "/api/v1/admin/authz/roles/employee/policies", adminToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	require.Contains(t, string(resp.Data), "/admin/materials/export")

	resp = doJSON(t, r, http.MethodGet, "/api/v1/admin/authz/roles/courier/policies", adminToken, nil)
	require.Equal(t, 404, resp.StatusCode)

	resp = doJSON(t, r, http.MethodPost, "/api/v1/admin/authz/policies", adminToken, gin.H{
		"role": "employee", "object": "/metrics", "action": "GET",
	})
	require.Equal(t, 400, resp.StatusCode)

	resp = doJSON(t, r, http.MethodDelete, "/api/v1/admin/authz/policies", adminToken, gin.H{
		"role": "employee", "object": "/admin/orders", "action": "GET",
	})
	require.Equal(t, 409, resp.StatusCode)

	resp = doJSON(t, r, http.MethodDelete, "/api/v1/admin/authz/policies", adminToken, exportPolicy)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = doJSON(t, r, http.MethodPost, "/api/v1/admin/authz/policies/reload", adminToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = doJSON(t, r, http.MethodGet, "/api/v1/admin/authz/audit-logs?action=policy_grant", adminToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var logs []models.AuthzAuditLog
	require.NoError(t, json.Unmarshal(resp.Data, &logs))
	require.Len(t, logs, 1)
	require.Equal(t, "role:employee", logs[0].Role)
	require.Equal(t, "/admin/materials/export", logs[0].Object)
	require.Equal(t, "GET", logs[0].Method)
	require.Equal(t, "owner@florist.test", logs[0].OperatorEmail)

	resp = doJSON(t, r, http.MethodGet, "/api/v1/admin/authz/audit-logs?action=policy_revoke", adminToken, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	require.NoError(t, json.Unmarshal(resp.Data, &logs))
	require.Len(t, logs, 1)
}
