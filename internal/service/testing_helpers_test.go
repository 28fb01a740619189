package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/florist-erp/internal/config"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/label"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/queue"
	"github.com/florist-erp/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{SecretKey: "florist-test-secret-0123456789", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
	}
}

func testSystemDefaults() SystemConfig {
	return SystemConfig{
		BrandName:             "florist",
		DefaultDeliveryFee:    constants.DefaultDeliveryFee,
		FreeDeliveryThreshold: constants.DefaultFreeDeliveryThreshold,
		DefaultLabelType:      label.TypeFormtec3107,
		AvailableFonts:        label.DefaultFonts,
	}
}

func newTestSettingService(db *gorm.DB) *SettingService {
	return NewSettingService(repository.NewSettingRepository(db), nil, testSystemDefaults())
}

// fakeRoleBinder 记录角色绑定
type fakeRoleBinder struct {
	roles   map[uint]string
	removed []uint
}

func newFakeRoleBinder() *fakeRoleBinder {
	return &fakeRoleBinder{roles: map[uint]string{}}
}

func (f *fakeRoleBinder) SetUserRole(userID uint, role string) error {
	f.roles[userID] = role
	return nil
}

func (f *fakeRoleBinder) GetUserRoles(userID uint) ([]string, error) {
	if role, ok := f.roles[userID]; ok {
		return []string{role}, nil
	}
	return nil, nil
}

func (f *fakeRoleBinder) RemoveUser(userID uint) error {
	delete(f.roles, userID)
	f.removed = append(f.removed, userID)
	return nil
}

// fakePrintQueue 记录投递的打印任务
type fakePrintQueue struct {
	mu       sync.Mutex
	enabled  bool
	err      error
	payloads []queue.LabelPrintPayload
}

func (q *fakePrintQueue) Enabled() bool {
	return q != nil && q.enabled
}

func (q *fakePrintQueue) EnqueueLabelPrint(payload queue.LabelPrintPayload, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, payload)
	return nil
}
