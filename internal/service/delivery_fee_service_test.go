package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeFeeStore 记录调用顺序的内存配送费存储
type fakeFeeStore struct {
	mu     sync.Mutex
	rows   []models.DeliveryFee
	nextID uint
	calls  []string
	fail   map[string]error
}

func newFakeFeeStore(rows ...models.DeliveryFee) *fakeFeeStore {
	store := &fakeFeeStore{fail: map[string]error{}}
	for _, row := range rows {
		store.nextID++
		if row.ID == 0 {
			row.ID = store.nextID
		} else if row.ID > store.nextID {
			store.nextID = row.ID
		}
		store.rows = append(store.rows, row)
	}
	return store
}

func (f *fakeFeeStore) record(call string) error {
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeFeeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFeeStore) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeFeeStore) ListAll(ctx context.Context) ([]models.DeliveryFee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return append([]models.DeliveryFee(nil), f.rows...), nil
}

func (f *fakeFeeStore) GetByID(ctx context.Context, id uint) (*models.DeliveryFee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get"); err != nil {
		return nil, err
	}
	for _, row := range f.rows {
		if row.ID == id {
			r := row
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeFeeStore) FindByDistrict(ctx context.Context, district string) ([]models.DeliveryFee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("find"); err != nil {
		return nil, err
	}
	var out []models.DeliveryFee
	for _, row := range f.rows {
		if row.District == district {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeFeeStore) Insert(ctx context.Context, district string, fee int64) (uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("insert"); err != nil {
		return 0, err
	}
	f.nextID++
	now := time.Now()
	f.rows = append(f.rows, models.DeliveryFee{ID: f.nextID, District: district, Fee: fee, CreatedAt: now, UpdatedAt: now})
	return f.nextID, nil
}

func (f *fakeFeeStore) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update"); err != nil {
		return false, err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			if fee, ok := fields["fee"].(int64); ok {
				f.rows[i].Fee = fee
			}
			f.rows[i].UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFeeStore) DeleteByID(ctx context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete"); err != nil {
		return false, err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type staticPolicy struct {
	policy DeliveryPolicy
	err    error
}

func (p staticPolicy) DeliveryPolicy(ctx context.Context) (DeliveryPolicy, error) {
	return p.policy, p.err
}

func fee(id uint, district string, amount int64) models.DeliveryFee {
	return models.DeliveryFee{ID: id, District: district, Fee: amount}
}

func districts(rows []models.DeliveryFee) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.District)
	}
	return out
}

func ids(rows []models.DeliveryFee) []uint {
	out := make([]uint, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func TestListSortsByKoreanCollationWithIDTieBreak(t *testing.T) {
	store := newFakeFeeStore(
		fee(1, "송파구", 4000),
		fee(2, "강남구", 5000),
		fee(3, "서초구", 4500),
		fee(4, "강남구", 5200),
		fee(5, "강동구", 3000),
	)
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"강남구", "강남구", "강동구", "서초구", "송파구"}, districts(rows))
	assert.Equal(t, []uint{2, 4, 5, 3, 1}, ids(rows))
	assert.Equal(t, rows, svc.Snapshot())
}

func TestListReplacesSnapshotWholesale(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000), fee(2, "서초구", 4000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	store.rows = []models.DeliveryFee{fee(3, "마포구", 3000)}
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids(svc.Snapshot()))
}

func TestSnapshotIsACopy(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})
	_, err := svc.List(context.Background())
	require.NoError(t, err)
	snap := svc.Snapshot()
	snap[0].Fee = 1
	assert.Equal(t, int64(5000), svc.Snapshot()[0].Fee)
}

func TestUpdateFeeRejectsNegativeWithoutStoreCalls(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	_, err := svc.UpdateFee(context.Background(), 1, -5)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, store.Calls())
}

func TestUpdateFeeIssuesOneUpdateThenOneList(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000), fee(2, "서초구", 4000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	rows, err := svc.UpdateFee(context.Background(), 1, 1500)
	require.NoError(t, err)
	assert.Equal(t, []string{"update", "list"}, store.Calls())
	assert.Equal(t, int64(1500), rows[0].Fee)
	assert.Equal(t, int64(1500), svc.Snapshot()[0].Fee)
}

func TestUpdateFeeAllowsZero(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})
	rows, err := svc.UpdateFee(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows[0].Fee)
}

func TestUpdateFeeMissingRecord(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	_, err := svc.UpdateFee(context.Background(), 42, 1000)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"update"}, store.Calls())
}

func TestAddDistrictValidation(t *testing.T) {
	store := newFakeFeeStore()
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	_, _, err := svc.AddDistrict(context.Background(), "   ", 3000)
	assert.True(t, apperr.IsValidation(err))
	_, _, err = svc.AddDistrict(context.Background(), "강남구", -1)
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, store.Calls())
}

func TestAddDistrictAllowsDuplicatesByDefault(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	id, rows, err := svc.AddDistrict(context.Background(), " 강남구 ", 4500)
	require.NoError(t, err)
	assert.Equal(t, uint(2), id)
	assert.Equal(t, []string{"insert", "list"}, store.Calls())
	require.Len(t, rows, 2)
	groups := DetectDuplicates(rows)
	require.Len(t, groups, 1)
	assert.Equal(t, "강남구", groups[0].District)
}

func TestAddDistrictRejectsDuplicatesWhenConfigured(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{RejectDuplicateDistrict: true})

	_, _, err := svc.AddDistrict(context.Background(), "강남구", 4500)
	assert.ErrorIs(t, err, ErrDistrictExists)
	assert.Equal(t, []string{"find"}, store.Calls())

	store.ResetCalls()
	_, _, err = svc.AddDistrict(context.Background(), "서초구", 4500)
	require.NoError(t, err)
	assert.Equal(t, []string{"find", "insert", "list"}, store.Calls())
}

func TestDeleteDistrictRequiresMatchingConfirmation(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000), fee(2, "서초구", 4000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	_, err := svc.DeleteDistrict(context.Background(), 1, "")
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, store.Calls())

	_, err = svc.DeleteDistrict(context.Background(), 1, "서초구")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, []string{"get"}, store.Calls())

	store.ResetCalls()
	rows, err := svc.DeleteDistrict(context.Background(), 1, "강남구")
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "delete", "list"}, store.Calls())
	assert.Equal(t, []string{"서초구"}, districts(rows))

	_, err = svc.DeleteDistrict(context.Background(), 1, "강남구")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetectDuplicates(t *testing.T) {
	rows := []models.DeliveryFee{
		fee(1, "서초구", 4000),
		fee(2, "강남구", 5000),
		fee(3, "서초구", 4200),
		fee(4, "마포구", 3000),
		fee(5, "강남구", 5100),
		fee(6, "강남구", 5200),
		fee(7, "강남구 ", 5300),
	}
	before := append([]models.DeliveryFee(nil), rows...)
	groups := DetectDuplicates(rows)

	require.Len(t, groups, 2)
	assert.Equal(t, "서초구", groups[0].District)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, []uint{1, 3}, ids(groups[0].Items))
	assert.Equal(t, "강남구", groups[1].District)
	assert.Equal(t, 3, groups[1].Count)
	assert.Equal(t, []uint{2, 5, 6}, ids(groups[1].Items))
	assert.Equal(t, before, rows)
}

func TestDetectDuplicatesCleanState(t *testing.T) {
	groups := DetectDuplicates([]models.DeliveryFee{fee(1, "강남구", 1), fee(2, "서초구", 2)})
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
	assert.Empty(t, DetectDuplicates(nil))
}

func TestMergeDuplicatesKeepsFirstAndIsIdempotent(t *testing.T) {
	store := newFakeFeeStore(
		fee(1, "서초구", 4000),
		fee(2, "강남구", 5000),
		fee(3, "서초구", 4200),
		fee(4, "강남구", 4800),
		fee(5, "마포구", 3000),
	)
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	result, err := svc.MergeDuplicates(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, RetainFirst, result.Policy)
	assert.Equal(t, 2, result.Groups)
	assert.Equal(t, []uint{2, 1}, result.Kept)
	assert.Equal(t, []uint{4, 3}, result.Removed)
	assert.Equal(t, []string{"list", "delete", "delete", "list"}, store.Calls())
	assert.Empty(t, DetectDuplicates(result.Records))
	assert.Equal(t, []string{"강남구", "마포구", "서초구"}, districts(result.Records))

	store.ResetCalls()
	again, err := svc.MergeDuplicates(context.Background(), "first")
	require.NoError(t, err)
	assert.Empty(t, again.Removed)
	assert.Equal(t, []string{"list"}, store.Calls())
	assert.Equal(t, ids(result.Records), ids(again.Records))
}

func TestMergeDuplicatesPolicies(t *testing.T) {
	now := time.Now()
	seed := func() *fakeFeeStore {
		return newFakeFeeStore(
			models.DeliveryFee{ID: 1, District: "강남구", Fee: 5000, UpdatedAt: now.Add(-2 * time.Hour)},
			models.DeliveryFee{ID: 2, District: "강남구", Fee: 4000, UpdatedAt: now.Add(-3 * time.Hour)},
			models.DeliveryFee{ID: 3, District: "강남구", Fee: 4500, UpdatedAt: now},
		)
	}

	cases := []struct {
		policy string
		kept   uint
	}{
		{"first", 1},
		{"latest_updated", 3},
		{"lowest_fee", 2},
		{" LOWEST_FEE ", 2},
	}
	for _, tc := range cases {
		store := seed()
		svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})
		result, err := svc.MergeDuplicates(context.Background(), tc.policy)
		require.NoError(t, err, tc.policy)
		assert.Equal(t, []uint{tc.kept}, result.Kept, tc.policy)
		assert.Equal(t, []uint{tc.kept}, ids(result.Records), tc.policy)
	}
}

func TestMergeDuplicatesUsesConfiguredDefaultPolicy(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000), fee(2, "강남구", 4000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{MergePolicy: "lowest_fee"})
	result, err := svc.MergeDuplicates(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, RetainLowestFee, result.Policy)
	assert.Equal(t, []uint{2}, result.Kept)
}

func TestMergeDuplicatesRejectsUnknownPolicy(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000), fee(2, "강남구", 4000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})
	_, err := svc.MergeDuplicates(context.Background(), "random")
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, store.Calls())
}

func TestBackendFailureLeavesSnapshotUntouched(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	store.fail["list"] = errors.New("connection refused")
	_, err = svc.List(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsBackend(err))
	assert.Equal(t, []uint{1}, ids(svc.Snapshot()))

	delete(store.fail, "list")
	store.fail["update"] = errors.New("permission denied")
	_, err = svc.UpdateFee(context.Background(), 1, 100)
	assert.True(t, apperr.IsBackend(err))
	assert.Equal(t, int64(5000), svc.Snapshot()[0].Fee)
}

func TestMergeDuplicatesStopsOnDeleteFailure(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000), fee(2, "강남구", 4000), fee(3, "강남구", 4100))
	store.fail["delete"] = errors.New("quota exceeded")
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	result, err := svc.MergeDuplicates(context.Background(), "first")
	require.Error(t, err)
	assert.True(t, apperr.IsBackend(err))
	assert.Empty(t, result.Removed)
	assert.Equal(t, []string{"list", "delete"}, store.Calls())
}

func TestStats(t *testing.T) {
	stats := Stats([]models.DeliveryFee{
		fee(1, "강남구", 1000),
		fee(2, "강남구", 2000),
		fee(3, "서초구", 2000),
	})
	assert.Equal(t, 3, stats.RecordCount)
	assert.Equal(t, int64(1667), stats.AverageFee)
	assert.Equal(t, 1, stats.DuplicateDistricts)
	assert.Equal(t, 2, stats.DuplicateItems)

	half := Stats([]models.DeliveryFee{fee(1, "a", 1000), fee(2, "b", 2001)})
	assert.Equal(t, int64(1501), half.AverageFee)

	assert.Equal(t, FeeStats{}, Stats(nil))
}

func TestQuoteFee(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000), fee(2, "강남구", 5500))
	policy := staticPolicy{policy: DeliveryPolicy{DefaultFee: 3000, FreeThreshold: 50000}}
	svc := NewDeliveryFeeService(store, policy, DeliveryFeeOptions{})
	ctx := context.Background()

	quote, err := svc.QuoteFee(ctx, "강남구", 30000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), quote.Fee)
	assert.Equal(t, FeeSourceRegistry, quote.Source)
	assert.True(t, quote.Duplicated)

	quote, err = svc.QuoteFee(ctx, "제주시", 30000)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), quote.Fee)
	assert.Equal(t, FeeSourceDefault, quote.Source)

	quote, err = svc.QuoteFee(ctx, "강남구", 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Fee)
	assert.Equal(t, FeeSourceFreeThreshold, quote.Source)

	_, err = svc.QuoteFee(ctx, "강남구", -1)
	assert.True(t, apperr.IsValidation(err))
}

func TestConcurrentUpdatesKeepSnapshotConsistent(t *testing.T) {
	store := newFakeFeeStore(fee(1, "강남구", 5000), fee(2, "서초구", 4000))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(v int64) {
			defer wg.Done()
			_, _ = svc.UpdateFee(context.Background(), 1, v)
		}(int64(i * 100))
		go func() {
			defer wg.Done()
			_, _ = svc.List(context.Background())
		}()
	}
	wg.Wait()

	final, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, final, svc.Snapshot())
}

func TestExportMarksDuplicates(t *testing.T) {
	store := newFakeFeeStore(fee(1, "서초구", 4000), fee(2, "강남구", 5000), fee(3, "강남구", 5200))
	svc := NewDeliveryFeeService(store, nil, DeliveryFeeOptions{})

	buf, filename, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Contains(t, filename, "delivery_fees_")

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("배송비")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, []string{"지역", "배송비", "중복", "수정일"}, rows[0])
	assert.Equal(t, "강남구", rows[1][0])
	assert.Equal(t, "5000", rows[1][1])
	assert.Equal(t, "중복", rows[1][2])
	assert.Equal(t, "서초구", rows[3][0])
	assert.Equal(t, "", rows[3][2])
}
