// Package settlement computes per-member and room-wide financial
// summaries from a khata's bills, meals, shopping expenses and deposits.
// Every page that needs these numbers (dashboard, history, reports,
// shopping) calls this package with its own period and filter instead of
// re-deriving the math.
//
// All computation is pure: same inputs always produce the same Result,
// and nothing here touches storage.
package settlement

import (
	"math"
	"time"

	"billkhata-backend/models"

	"github.com/google/uuid"
)

// Input carries the raw collections for one khata plus the scoping
// parameters. Bills must have their Shares loaded.
type Input struct {
	Bills    []models.Bill
	Meals    []models.Meal
	Expenses []models.Expense
	Deposits []models.Deposit
	Period   Period

	// MemberFilter restricts PerMember and Punctuality to one member.
	// uuid.Nil means all members. Rate and RoomTotals stay room-wide
	// regardless.
	MemberFilter uuid.UUID
}

// MemberSummary is one member's position for the period.
type MemberSummary struct {
	BillsDue   float64 `json:"bills_due"`
	Paid       float64 `json:"paid"`
	Pending    float64 `json:"pending"`
	Due        float64 `json:"due"` // BillsDue - Paid - Pending
	TotalMeals int     `json:"total_meals"`
	MealCost   float64 `json:"meal_cost"`   // Rate * TotalMeals
	Refundable float64 `json:"refundable"`  // approved deposits - MealCost
	Deposited  float64 `json:"deposited"`   // approved deposits
}

// RoomTotals aggregates the whole khata for the period.
type RoomTotals struct {
	TotalBillAmount      float64 `json:"total_bill_amount"`
	TotalApprovedExpense float64 `json:"total_approved_expense"`
	TotalApprovedDeposit float64 `json:"total_approved_deposit"`
	FundHealth           float64 `json:"fund_health"` // deposits - (bills + expenses)
}

// Result is the output of ComputeSettlement.
type Result struct {
	Rate           float64                         `json:"rate"` // approved shopping spend per meal
	PerMember      map[uuid.UUID]MemberSummary     `json:"per_member"`
	RoomTotals     RoomTotals                      `json:"room_totals"`
	Punctuality    map[uuid.UUID]float64           `json:"punctuality"` // % of shares paid by due date
	SkippedRecords int                             `json:"skipped_records"`
}

// ComputeSettlement derives the full settlement for a period.
//
// The meal rate is room-wide: approved shopping spend divided by total
// meals logged, shared by every member. Records with a missing date or a
// non-positive amount are skipped and counted in SkippedRecords rather
// than aborting the whole computation.
func ComputeSettlement(in Input) Result {
	res := Result{
		PerMember:   make(map[uuid.UUID]MemberSummary),
		Punctuality: make(map[uuid.UUID]float64),
	}

	summaries := make(map[uuid.UUID]*MemberSummary)
	summary := func(userID uuid.UUID) *MemberSummary {
		s, ok := summaries[userID]
		if !ok {
			s = &MemberSummary{}
			summaries[userID] = s
		}
		return s
	}

	// Punctuality counters: shares due in the period per member, and how
	// many of those were paid on or before the due date.
	dueCount := make(map[uuid.UUID]int)
	onTimeCount := make(map[uuid.UUID]int)

	var totalMeals int
	var totalExpense, totalDeposit, totalBills float64

	for _, bill := range in.Bills {
		if bill.DueDate.IsZero() || bill.TotalAmount <= 0 {
			res.SkippedRecords++
			continue
		}
		if !in.Period.Contains(bill.DueDate) {
			continue
		}

		totalBills += bill.TotalAmount
		dueDay := dateOf(bill.DueDate)

		for _, share := range bill.Shares {
			s := summary(share.UserID)
			s.BillsDue += share.Amount

			switch share.Status {
			case models.ShareStatusPaid:
				s.Paid += share.Amount
			case models.ShareStatusPendingApproval:
				s.Pending += share.Amount
			}

			dueCount[share.UserID]++
			// Paid exactly on the due date counts as on-time. A paid
			// share without a timestamp counts as late, not skipped.
			if share.Status == models.ShareStatusPaid && share.PaidAt != nil &&
				!dateOf(*share.PaidAt).After(dueDay) {
				onTimeCount[share.UserID]++
			}
		}
	}

	for _, meal := range in.Meals {
		if meal.Date.IsZero() {
			res.SkippedRecords++
			continue
		}
		if !in.Period.Contains(meal.Date) {
			continue
		}
		count := meal.Breakfast + meal.Lunch + meal.Dinner
		totalMeals += count
		summary(meal.UserID).TotalMeals += count
	}

	for _, exp := range in.Expenses {
		if exp.CreatedAt.IsZero() || exp.Amount <= 0 {
			res.SkippedRecords++
			continue
		}
		if !in.Period.Contains(exp.CreatedAt) || exp.Status != models.ApprovalApproved {
			continue
		}
		totalExpense += exp.Amount
	}

	for _, dep := range in.Deposits {
		if dep.CreatedAt.IsZero() || dep.Amount <= 0 {
			res.SkippedRecords++
			continue
		}
		if !in.Period.Contains(dep.CreatedAt) || dep.Status != models.ApprovalApproved {
			continue
		}
		totalDeposit += dep.Amount
		summary(dep.UserID).Deposited += dep.Amount
	}

	// Rate is 0 when nobody logged a meal, never NaN.
	if totalMeals > 0 {
		res.Rate = roundTwo(totalExpense / float64(totalMeals))
	}

	for userID, s := range summaries {
		if in.MemberFilter != uuid.Nil && userID != in.MemberFilter {
			continue
		}
		s.BillsDue = roundTwo(s.BillsDue)
		s.Paid = roundTwo(s.Paid)
		s.Pending = roundTwo(s.Pending)
		s.Due = roundTwo(s.BillsDue - s.Paid - s.Pending)
		s.Deposited = roundTwo(s.Deposited)
		s.MealCost = roundTwo(res.Rate * float64(s.TotalMeals))
		s.Refundable = roundTwo(s.Deposited - s.MealCost)
		res.PerMember[userID] = *s
	}

	for userID, due := range dueCount {
		if in.MemberFilter != uuid.Nil && userID != in.MemberFilter {
			continue
		}
		res.Punctuality[userID] = roundTwo(100 * float64(onTimeCount[userID]) / float64(due))
	}

	res.RoomTotals = RoomTotals{
		TotalBillAmount:      roundTwo(totalBills),
		TotalApprovedExpense: roundTwo(totalExpense),
		TotalApprovedDeposit: roundTwo(totalDeposit),
		FundHealth:           roundTwo(totalDeposit - (totalBills + totalExpense)),
	}

	return res
}

// Punctuality computes only the on-time payment percentages over a
// trailing window ending at now. Shorthand for the dashboard's
// last 1/3/6/12/24 month selector.
func Punctuality(bills []models.Bill, now time.Time, months int) map[uuid.UUID]float64 {
	res := ComputeSettlement(Input{Bills: bills, Period: TrailingWindow(now, months)})
	return res.Punctuality
}

func roundTwo(val float64) float64 {
	return math.Round(val*100) / 100
}
