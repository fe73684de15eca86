package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDiscountIsValid(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	five := 5
	ten := 10

	cases := []struct {
		name string
		d    Discount
		want bool
	}{
		{"active in window", Discount{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}, true},
		{"inactive", Discount{IsActive: false, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}, false},
		{"not started", Discount{IsActive: true, StartDate: now.Add(time.Minute), EndDate: now.Add(time.Hour)}, false},
		{"ended", Discount{IsActive: true, StartDate: now.Add(-2 * time.Hour), EndDate: now.Add(-time.Hour)}, false},
		{"starts exactly now", Discount{IsActive: true, StartDate: now, EndDate: now.Add(time.Hour)}, true},
		{"ends exactly now", Discount{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now}, true},
		{"uses exhausted", Discount{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), MaxUses: &five, UsedCount: 5}, false},
		{"uses remaining", Discount{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), MaxUses: &ten, UsedCount: 5}, true},
		{"unlimited uses", Discount{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), UsedCount: 1000}, true},
	}
	for _, tc := range cases {
		if got := tc.d.IsValid(now); got != tc.want {
			t.Fatalf("%s: isValid want %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestKoboConversion(t *testing.T) {
	if got := KoboFromNaira(decimal.RequireFromString("1500.50")); got != 150050 {
		t.Fatalf("kobo want 150050 got %d", got)
	}
	if got := NairaFromKobo(150050).StringFixed(2); got != "1500.50" {
		t.Fatalf("naira want 1500.50 got %s", got)
	}
	if got := PercentOfKobo(250000, decimal.NewFromInt(10)); got != 25000 {
		t.Fatalf("fee want 25000 got %d", got)
	}
	if got := PercentOfKobo(0, decimal.NewFromInt(10)); got != 0 {
		t.Fatalf("fee of zero want 0 got %d", got)
	}
	if got := FormatNaira(99); got != "0.99" {
		t.Fatalf("format want 0.99 got %s", got)
	}
}

func TestOpenDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := openDialector("oracle", "x"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	for _, driver := range []string{"", "sqlite", "postgres", "mysql"} {
		if _, err := openDialector(driver, "dsn"); err != nil {
			t.Fatalf("driver %q should be supported: %v", driver, err)
		}
	}
}
