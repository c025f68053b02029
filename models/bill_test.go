package models

import (
	"testing"
	"time"
)

func TestEffectiveStatusDerivesOverdue(t *testing.T) {
	dueDate := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		now    time.Time
		want   string
	}{
		{"unpaid before due", ShareStatusUnpaid, dueDate.AddDate(0, 0, -1), ShareStatusUnpaid},
		{"unpaid on due date", ShareStatusUnpaid, dueDate, ShareStatusUnpaid},
		{"unpaid evening of due date", ShareStatusUnpaid, dueDate.Add(22 * time.Hour), ShareStatusUnpaid},
		{"unpaid past due", ShareStatusUnpaid, dueDate.AddDate(0, 0, 1), ShareStatusOverdue},
		{"pending approval past due", ShareStatusPendingApproval, dueDate.AddDate(0, 0, 5), ShareStatusPendingApproval},
		{"paid past due", ShareStatusPaid, dueDate.AddDate(0, 1, 0), ShareStatusPaid},
	}
	for _, tt := range tests {
		share := BillShare{Status: tt.status}
		if got := share.EffectiveStatus(dueDate, tt.now); got != tt.want {
			t.Errorf("%s: EffectiveStatus = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsValidBillCategory(t *testing.T) {
	for _, c := range BillCategories {
		if !IsValidBillCategory(c) {
			t.Errorf("category %q should be valid", c)
		}
	}
	if IsValidBillCategory("groceries") {
		t.Error("groceries is not a bill category")
	}
	if IsValidBillCategory("") {
		t.Error("empty category must be invalid")
	}
}
