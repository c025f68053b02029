package settlement

import (
	"fmt"

	"billkhata-backend/models"
)

// Action is one manager-facing to-do item derived from pending records.
type Action struct {
	Type        string  `json:"type"` // join_requests, expense_approvals, deposit_approvals
	Title       string  `json:"title"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount,omitempty"`
	Target      string  `json:"target"` // client navigation target
}

// PriorityActions builds the manager's action list: pending join
// requests, pending shopping expenses and pending deposits, each grouped
// into a single actionable item. An empty slice means nothing is waiting.
func PriorityActions(members []models.KhataMember, expenses []models.Expense, deposits []models.Deposit) []Action {
	var actions []Action

	joinCount := 0
	for _, m := range members {
		if m.Status == models.MemberStatusPending {
			joinCount++
		}
	}
	if joinCount > 0 {
		actions = append(actions, Action{
			Type:   "join_requests",
			Title:  fmt.Sprintf("%d join %s awaiting approval", joinCount, plural(joinCount, "request")),
			Count:  joinCount,
			Target: "/members",
		})
	}

	expCount, expTotal := 0, 0.0
	for _, e := range expenses {
		if e.Status == models.ApprovalPending {
			expCount++
			expTotal += e.Amount
		}
	}
	if expCount > 0 {
		actions = append(actions, Action{
			Type:        "expense_approvals",
			Title:       fmt.Sprintf("%d shopping %s pending (BDT %.2f)", expCount, plural(expCount, "expense"), expTotal),
			Count:       expCount,
			TotalAmount: roundTwo(expTotal),
			Target:      "/shopping",
		})
	}

	depCount, depTotal := 0, 0.0
	for _, d := range deposits {
		if d.Status == models.ApprovalPending {
			depCount++
			depTotal += d.Amount
		}
	}
	if depCount > 0 {
		actions = append(actions, Action{
			Type:        "deposit_approvals",
			Title:       fmt.Sprintf("%d %s pending (BDT %.2f)", depCount, plural(depCount, "deposit"), depTotal),
			Count:       depCount,
			TotalAmount: roundTwo(depTotal),
			Target:      "/deposits",
		})
	}

	return actions
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
