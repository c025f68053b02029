package settlement

import (
	"testing"

	"billkhata-backend/models"
)

func TestPriorityActionsEmpty(t *testing.T) {
	actions := PriorityActions(
		[]models.KhataMember{{UserID: priya, Status: models.MemberStatusApproved}},
		[]models.Expense{{Amount: 100, Status: models.ApprovalApproved}},
		nil,
	)
	if len(actions) != 0 {
		t.Errorf("actions = %d, want 0", len(actions))
	}
}

func TestPriorityActionsGrouping(t *testing.T) {
	members := []models.KhataMember{
		{UserID: priya, Status: models.MemberStatusPending},
		{UserID: ravi, Status: models.MemberStatusApproved},
	}
	expenses := []models.Expense{
		{Amount: 120.50, Status: models.ApprovalPending},
		{Amount: 79.50, Status: models.ApprovalPending},
		{Amount: 500, Status: models.ApprovalApproved},
	}
	deposits := []models.Deposit{
		{Amount: 1000, Status: models.ApprovalPending},
	}

	actions := PriorityActions(members, expenses, deposits)
	if len(actions) != 3 {
		t.Fatalf("actions = %d, want 3", len(actions))
	}

	byType := make(map[string]Action)
	for _, a := range actions {
		byType[a.Type] = a
	}

	join := byType["join_requests"]
	if join.Count != 1 || join.Target != "/members" {
		t.Errorf("join action = %+v", join)
	}
	if join.Title != "1 join request awaiting approval" {
		t.Errorf("join title = %q", join.Title)
	}

	exp := byType["expense_approvals"]
	if exp.Count != 2 {
		t.Errorf("expense count = %d, want 2", exp.Count)
	}
	approx(t, "expense total", exp.TotalAmount, 200)

	dep := byType["deposit_approvals"]
	if dep.Count != 1 {
		t.Errorf("deposit count = %d, want 1", dep.Count)
	}
	approx(t, "deposit total", dep.TotalAmount, 1000)
}
