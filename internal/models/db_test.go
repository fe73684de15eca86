package models

import (
	"testing"
	"time"
)

func TestInitDBKeepsSharedMemoryDatabaseWithZeroPool(t *testing.T) {
	prev := DB
	t.Cleanup(func() { DB = prev })

	if err := InitDB("sqlite", "file:TestInitDBZeroPool?mode=memory&cache=shared", DBPoolConfig{}); err != nil {
		t.Fatalf("init db failed: %v", err)
	}
	if err := AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	// 迁移后的表在后续语句中仍然可见
	var count int64
	if err := DB.Model(&User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if err := DB.Create(&User{Name: "Ada Obi", Email: "ada@example.com", PasswordHash: "x"}).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := DB.Model(&User{}).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("users want 1 got %d err=%v", count, err)
	}
}

func TestOrderTimestampsSavedInUTC(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	at := time.Date(2026, 3, 10, 10, 30, 0, 0, lagos)
	order := &Order{CreatedAt: at, UpdatedAt: at}

	if err := order.BeforeSave(nil); err != nil {
		t.Fatalf("before save failed: %v", err)
	}
	if order.CreatedAt.Location() != time.UTC || order.UpdatedAt.Location() != time.UTC {
		t.Fatalf("timestamps want UTC got %v / %v", order.CreatedAt.Location(), order.UpdatedAt.Location())
	}
	if !order.CreatedAt.Equal(at) || order.CreatedAt.Hour() != 9 {
		t.Fatalf("created_at want 09:30Z got %v", order.CreatedAt)
	}
}
