package main

import (
	"os"

	"github.com/florist-erp/internal/config"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// 서울 25개 구 기본 배송비
var seoulDeliveryFees = []models.DeliveryFee{
	{District: "강남구", Fee: 5000},
	{District: "강동구", Fee: 7000},
	{District: "강북구", Fee: 8000},
	{District: "강서구", Fee: 8000},
	{District: "관악구", Fee: 6000},
	{District: "광진구", Fee: 6000},
	{District: "구로구", Fee: 7000},
	{District: "금천구", Fee: 7000},
	{District: "노원구", Fee: 9000},
	{District: "도봉구", Fee: 9000},
	{District: "동대문구", Fee: 6000},
	{District: "동작구", Fee: 5000},
	{District: "마포구", Fee: 6000},
	{District: "서대문구", Fee: 6000},
	{District: "서초구", Fee: 5000},
	{District: "성동구", Fee: 5000},
	{District: "성북구", Fee: 7000},
	{District: "송파구", Fee: 6000},
	{District: "양천구", Fee: 8000},
	{District: "영등포구", Fee: 6000},
	{District: "용산구", Fee: 5000},
	{District: "은평구", Fee: 8000},
	{District: "종로구", Fee: 6000},
	{District: "중구", Fee: 6000},
	{District: "중랑구", Fee: 8000},
}

var sampleMaterials = []models.Material{
	{Name: "장미(레드)", MainCategory: "생화", MidCategory: "장미", Price: 1500, Supplier: "양재꽃시장", Size: "60cm", Color: "레드", Branch: "강남점", Stock: 200},
	{Name: "안개꽃", MainCategory: "생화", MidCategory: "필러", Price: 8000, Supplier: "양재꽃시장", Size: "단", Color: "화이트", Branch: "강남점", Stock: 30},
	{Name: "포장지(크라프트)", MainCategory: "부자재", MidCategory: "포장", Price: 300, Supplier: "고속터미널 부자재", Size: "58x58", Color: "브라운", Branch: "강남점", Stock: 500},
	{Name: "리본(새틴 2.5cm)", MainCategory: "부자재", MidCategory: "리본", Price: 4500, Supplier: "고속터미널 부자재", Size: "롤", Color: "아이보리", Branch: "서초점", Stock: 40},
}

var sampleCustomers = []models.Customer{
	{Name: "김민지", Contact: "010-2345-6789", Company: "", Grade: "VIP", Branch: "강남점"},
	{Name: "박서준", Contact: "010-3456-7890", Company: "한빛상사", Grade: "일반", Branch: "강남점"},
	{Name: "이하은", Contact: "010-4567-8901", Grade: "일반", Branch: "서초점"},
}

var samplePartners = []models.Partner{
	{Name: "양재꽃시장 12호", Type: "생화", Contact: "02-571-0000", ContactPerson: "정사장", Address: "서울 서초구 강남대로 27"},
	{Name: "고속터미널 부자재", Type: "부자재", Contact: "02-535-0000", ContactPerson: "한실장", Address: "서울 서초구 신반포로 194"},
	{Name: "빠른꽃배달", Type: "배송", Contact: "1588-0000", ContactPerson: "오팀장"},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 管理员
	if err := models.InitDefaultAdmin(os.Getenv("FL_DEFAULT_ADMIN_EMAIL"), os.Getenv("FL_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Printf("Failed to init admin: %v", err)
	}
	seedStaff(stdLog.Printf)

	// 配送费（按地区名去重，已存在则跳过）
	for _, fee := range seoulDeliveryFees {
		var count int64
		models.DB.Model(&models.DeliveryFee{}).Where("district = ?", fee.District).Count(&count)
		if count > 0 {
			stdLog.Printf("Delivery fee already exists: %s", fee.District)
			continue
		}
		item := fee
		if err := models.DB.Create(&item).Error; err != nil {
			stdLog.Printf("Failed to create delivery fee %s: %v", fee.District, err)
		}
	}

	for _, material := range sampleMaterials {
		var count int64
		models.DB.Model(&models.Material{}).Where("name = ? AND branch = ?", material.Name, material.Branch).Count(&count)
		if count > 0 {
			continue
		}
		item := material
		if err := models.DB.Create(&item).Error; err != nil {
			stdLog.Printf("Failed to create material %s: %v", material.Name, err)
		}
	}

	for _, customer := range sampleCustomers {
		var count int64
		models.DB.Model(&models.Customer{}).Where("name = ? AND contact = ?", customer.Name, customer.Contact).Count(&count)
		if count > 0 {
			continue
		}
		item := customer
		if err := models.DB.Create(&item).Error; err != nil {
			stdLog.Printf("Failed to create customer %s: %v", customer.Name, err)
		}
	}

	for _, partner := range samplePartners {
		var count int64
		models.DB.Model(&models.Partner{}).Where("name = ?", partner.Name).Count(&count)
		if count > 0 {
			continue
		}
		item := partner
		if err := models.DB.Create(&item).Error; err != nil {
			stdLog.Printf("Failed to create partner %s: %v", partner.Name, err)
		}
	}

	stdLog.Printf("Seed completed: %d districts, %d materials, %d customers, %d partners",
		len(seoulDeliveryFees), len(sampleMaterials), len(sampleCustomers), len(samplePartners))
}

// seedStaff 演示用店长与店员账号，授权绑定在服务启动时补齐
func seedStaff(printf func(string, ...interface{})) {
	staff := []struct {
		Email    string
		Role     string
		Name     string
		Position string
	}{
		{"manager@florist.local", constants.UserRoleManager, "최점장", "점장"},
		{"staff@florist.local", constants.UserRoleEmployee, "정직원", "플로리스트"},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("florist1234"), bcrypt.DefaultCost)
	if err != nil {
		printf("Failed to hash staff password: %v", err)
		return
	}
	for _, s := range staff {
		var count int64
		models.DB.Model(&models.User{}).Where("email = ?", s.Email).Count(&count)
		if count > 0 {
			continue
		}
		user := models.User{
			Email:        s.Email,
			PasswordHash: string(hash),
			Role:         s.Role,
			Franchise:    "강남점",
			Status:       constants.UserStatusActive,
			Employee:     &models.Employee{Name: s.Name, Position: s.Position},
		}
		if err := models.DB.Create(&user).Error; err != nil {
			printf("Failed to create staff %s: %v", s.Email, err)
		}
	}
}
