package domain

import (
	"testing"
	"time"
)

func TestIsLastDayOfMonth(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2026-01-31", true},
		{"2026-02-28", true},
		{"2024-02-29", true},
		{"2024-02-28", false},
		{"2026-04-30", true},
		{"2026-04-29", false},
		{"2026-06-30", true},
		{"2026-09-30", true},
		{"2026-11-30", true},
		{"2026-12-31", true},
		{"2026-12-01", false},
		{"2026-07-15", false},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := IsLastDayOfMonth(d); got != tc.want {
			t.Errorf("IsLastDayOfMonth(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestBillingPeriod(t *testing.T) {
	d := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	if got := BillingPeriod(d); got != "2026-08" {
		t.Errorf("BillingPeriod = %q, want 2026-08", got)
	}
}

func TestPaymentTypeAmount(t *testing.T) {
	cases := []struct {
		tier PaymentType
		want int64
	}{
		{SmallMeter, 5000},
		{MediumMeter, 10000},
		{LargeMeter, 15000},
		{PaymentType(""), 5000},
		{PaymentType("GIGANTIC_METER"), 5000},
	}
	for _, tc := range cases {
		if got := tc.tier.Amount(); got != tc.want {
			t.Errorf("Amount(%q) = %d, want %d", tc.tier, got, tc.want)
		}
	}
}
