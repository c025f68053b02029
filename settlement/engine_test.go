package settlement

import (
	"math"
	"reflect"
	"testing"
	"time"

	"billkhata-backend/models"

	"github.com/google/uuid"
)

var (
	priya = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	ravi  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	amit  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ts(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func june() Period {
	return Period{Start: date(2025, time.June, 1), End: date(2025, time.July, 1)}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestRateZeroWhenNoMeals(t *testing.T) {
	res := ComputeSettlement(Input{
		Expenses: []models.Expense{
			{UserID: priya, Amount: 500, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 10, 12)},
		},
		Period: june(),
	})

	if res.Rate != 0 {
		t.Errorf("rate = %v, want 0", res.Rate)
	}
	if math.IsNaN(res.Rate) || math.IsInf(res.Rate, 0) {
		t.Errorf("rate must be finite, got %v", res.Rate)
	}
}

func TestUnpaidBillScenario(t *testing.T) {
	// One 1200 bill split three ways, nobody has paid.
	bill := models.Bill{
		TotalAmount: 1200,
		DueDate:     date(2025, time.June, 15),
		Shares: []models.BillShare{
			{UserID: priya, Amount: 400, Status: models.ShareStatusUnpaid},
			{UserID: ravi, Amount: 400, Status: models.ShareStatusUnpaid},
			{UserID: amit, Amount: 400, Status: models.ShareStatusUnpaid},
		},
	}

	res := ComputeSettlement(Input{Bills: []models.Bill{bill}, Period: june()})

	var paid, pending, due float64
	for _, s := range res.PerMember {
		paid += s.Paid
		pending += s.Pending
		due += s.Due
	}
	approx(t, "paid", paid, 0)
	approx(t, "pending", pending, 0)
	approx(t, "due", due, 1200)
	approx(t, "total bill amount", res.RoomTotals.TotalBillAmount, 1200)
}

func TestMarkingSharePaidOnlyMovesThatMember(t *testing.T) {
	mkBill := func(priyaStatus string) models.Bill {
		return models.Bill{
			TotalAmount: 1200,
			DueDate:     date(2025, time.June, 15),
			Shares: []models.BillShare{
				{UserID: priya, Amount: 400, Status: priyaStatus},
				{UserID: ravi, Amount: 400, Status: models.ShareStatusUnpaid},
				{UserID: amit, Amount: 400, Status: models.ShareStatusUnpaid},
			},
		}
	}

	before := ComputeSettlement(Input{Bills: []models.Bill{mkBill(models.ShareStatusUnpaid)}, Period: june()})
	after := ComputeSettlement(Input{Bills: []models.Bill{mkBill(models.ShareStatusPaid)}, Period: june()})

	approx(t, "priya due before", before.PerMember[priya].Due, 400)
	approx(t, "priya due after", after.PerMember[priya].Due, 0)
	approx(t, "priya paid after", after.PerMember[priya].Paid, 400)

	for _, id := range []uuid.UUID{ravi, amit} {
		if before.PerMember[id] != after.PerMember[id] {
			t.Errorf("member %s changed: before %+v, after %+v", id, before.PerMember[id], after.PerMember[id])
		}
	}
}

func TestDueIdentity(t *testing.T) {
	bill := models.Bill{
		TotalAmount: 999.99,
		DueDate:     date(2025, time.June, 5),
		Shares: []models.BillShare{
			{UserID: priya, Amount: 333.33, Status: models.ShareStatusPaid},
			{UserID: ravi, Amount: 333.33, Status: models.ShareStatusPendingApproval},
			{UserID: amit, Amount: 333.33, Status: models.ShareStatusUnpaid},
		},
	}

	res := ComputeSettlement(Input{Bills: []models.Bill{bill}, Period: june()})

	for id, s := range res.PerMember {
		approx(t, "due identity for "+id.String(), s.Due, s.BillsDue-s.Paid-s.Pending)
	}
	approx(t, "pending", res.PerMember[ravi].Pending, 333.33)
}

func TestRefundableExample(t *testing.T) {
	// 56 meals against 2548 of approved shopping gives a 45.50 rate;
	// a 2000 deposit leaves the member owing 548.
	var meals []models.Meal
	for day := 1; day <= 28; day++ {
		meals = append(meals, models.Meal{
			UserID: priya, Date: date(2025, time.June, day), Breakfast: 1, Dinner: 1,
		})
	}

	res := ComputeSettlement(Input{
		Meals: meals,
		Expenses: []models.Expense{
			{UserID: priya, Amount: 2548, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 20, 10)},
		},
		Deposits: []models.Deposit{
			{UserID: priya, Amount: 2000, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 2, 10)},
		},
		Period: june(),
	})

	approx(t, "rate", res.Rate, 45.50)
	s := res.PerMember[priya]
	if s.TotalMeals != 56 {
		t.Errorf("total meals = %d, want 56", s.TotalMeals)
	}
	approx(t, "meal cost", s.MealCost, 2548)
	approx(t, "refundable", s.Refundable, -548)
}

func TestPendingAndRejectedExcludedFromTotals(t *testing.T) {
	res := ComputeSettlement(Input{
		Meals: []models.Meal{{UserID: priya, Date: date(2025, time.June, 3), Lunch: 1}},
		Expenses: []models.Expense{
			{UserID: priya, Amount: 100, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 5, 9)},
			{UserID: priya, Amount: 999, Status: models.ApprovalPending, CreatedAt: ts(2025, time.June, 6, 9)},
			{UserID: priya, Amount: 999, Status: models.ApprovalRejected, CreatedAt: ts(2025, time.June, 7, 9)},
		},
		Deposits: []models.Deposit{
			{UserID: priya, Amount: 300, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 5, 9)},
			{UserID: priya, Amount: 999, Status: models.ApprovalPending, CreatedAt: ts(2025, time.June, 6, 9)},
		},
		Period: june(),
	})

	approx(t, "approved expense", res.RoomTotals.TotalApprovedExpense, 100)
	approx(t, "approved deposit", res.RoomTotals.TotalApprovedDeposit, 300)
	approx(t, "rate", res.Rate, 100)
	approx(t, "deposited", res.PerMember[priya].Deposited, 300)
}

func TestFundHealthReconciliation(t *testing.T) {
	// With no bills in the period, fund health equals the sum of member
	// refundable balances.
	res := ComputeSettlement(Input{
		Meals: []models.Meal{
			{UserID: priya, Date: date(2025, time.June, 1), Breakfast: 1, Lunch: 1},
			{UserID: ravi, Date: date(2025, time.June, 1), Breakfast: 2, Lunch: 1, Dinner: 1},
		},
		Expenses: []models.Expense{
			{UserID: ravi, Amount: 300, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 2, 9)},
		},
		Deposits: []models.Deposit{
			{UserID: priya, Amount: 100, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 1, 9)},
			{UserID: ravi, Amount: 150, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 1, 9)},
		},
		Period: june(),
	})

	var refundableSum float64
	for _, s := range res.PerMember {
		refundableSum += s.Refundable
	}
	approx(t, "fund health", res.RoomTotals.FundHealth, refundableSum)
	approx(t, "fund health value", res.RoomTotals.FundHealth, -50)
}

func TestPeriodBoundariesHalfOpen(t *testing.T) {
	p := june()

	res := ComputeSettlement(Input{
		Meals: []models.Meal{
			{UserID: priya, Date: p.Start, Lunch: 1},                      // included
			{UserID: priya, Date: p.End, Lunch: 1},                       // excluded
			{UserID: priya, Date: p.End.Add(-24 * time.Hour), Dinner: 1}, // included
			{UserID: priya, Date: p.Start.Add(-24 * time.Hour), Lunch: 1}, // excluded
		},
		Period: p,
	})

	if got := res.PerMember[priya].TotalMeals; got != 2 {
		t.Errorf("meals in period = %d, want 2", got)
	}
}

func TestMonthlySumsMatchYearForAdditiveFields(t *testing.T) {
	var bills []models.Bill
	var meals []models.Meal
	var deposits []models.Deposit
	for m := time.January; m <= time.December; m++ {
		bills = append(bills, models.Bill{
			TotalAmount: 500,
			DueDate:     date(2025, m, 10),
			Shares:      []models.BillShare{{UserID: priya, Amount: 500, Status: models.ShareStatusUnpaid}},
		})
		meals = append(meals, models.Meal{UserID: priya, Date: date(2025, m, 5), Breakfast: 1, Lunch: 1, Dinner: 1})
		deposits = append(deposits, models.Deposit{
			UserID: priya, Amount: 200, Status: models.ApprovalApproved, CreatedAt: ts(2025, m, 15, 8),
		})
	}

	year := ComputeSettlement(Input{
		Bills: bills, Meals: meals, Deposits: deposits,
		Period: Period{Start: date(2025, time.January, 1), End: date(2026, time.January, 1)},
	})

	var billsDue, deposited float64
	var totalMeals int
	for m := time.January; m <= time.December; m++ {
		res := ComputeSettlement(Input{
			Bills: bills, Meals: meals, Deposits: deposits,
			Period: Month(2025, m, time.UTC),
		})
		billsDue += res.PerMember[priya].BillsDue
		deposited += res.PerMember[priya].Deposited
		totalMeals += res.PerMember[priya].TotalMeals
	}

	approx(t, "bills due", billsDue, year.PerMember[priya].BillsDue)
	approx(t, "deposited", deposited, year.PerMember[priya].Deposited)
	if totalMeals != year.PerMember[priya].TotalMeals {
		t.Errorf("meals = %d, want %d", totalMeals, year.PerMember[priya].TotalMeals)
	}
}

func TestMalformedRecordsSkippedAndCounted(t *testing.T) {
	res := ComputeSettlement(Input{
		Bills: []models.Bill{
			{TotalAmount: 100, Shares: []models.BillShare{{UserID: priya, Amount: 100}}}, // zero due date
			{TotalAmount: 0, DueDate: date(2025, time.June, 1)},                          // zero amount
		},
		Meals: []models.Meal{
			{UserID: priya, Lunch: 1}, // zero date
			{UserID: priya, Date: date(2025, time.June, 3), Lunch: 1},
		},
		Expenses: []models.Expense{
			{UserID: priya, Amount: -5, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 4, 9)},
		},
		Deposits: []models.Deposit{
			{UserID: priya, Amount: 50, Status: models.ApprovalApproved}, // zero created at
		},
		Period: june(),
	})

	if res.SkippedRecords != 5 {
		t.Errorf("skipped = %d, want 5", res.SkippedRecords)
	}
	if got := res.PerMember[priya].TotalMeals; got != 1 {
		t.Errorf("meals = %d, want 1", got)
	}
	approx(t, "bills due", res.PerMember[priya].BillsDue, 0)
}

func TestIdempotence(t *testing.T) {
	in := Input{
		Bills: []models.Bill{{
			TotalAmount: 600,
			DueDate:     date(2025, time.June, 10),
			Shares: []models.BillShare{
				{UserID: priya, Amount: 300, Status: models.ShareStatusPaid},
				{UserID: ravi, Amount: 300, Status: models.ShareStatusUnpaid},
			},
		}},
		Meals: []models.Meal{{UserID: priya, Date: date(2025, time.June, 2), Dinner: 1}},
		Expenses: []models.Expense{
			{UserID: priya, Amount: 90, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 3, 9)},
		},
		Period: june(),
	}

	first := ComputeSettlement(in)
	second := ComputeSettlement(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestMemberFilter(t *testing.T) {
	in := Input{
		Meals: []models.Meal{
			{UserID: priya, Date: date(2025, time.June, 2), Lunch: 1},
			{UserID: ravi, Date: date(2025, time.June, 2), Lunch: 1, Dinner: 1},
		},
		Expenses: []models.Expense{
			{UserID: ravi, Amount: 300, Status: models.ApprovalApproved, CreatedAt: ts(2025, time.June, 3, 9)},
		},
		Period:       june(),
		MemberFilter: priya,
	}

	res := ComputeSettlement(in)

	if len(res.PerMember) != 1 {
		t.Fatalf("per member entries = %d, want 1", len(res.PerMember))
	}
	if _, ok := res.PerMember[priya]; !ok {
		t.Fatal("filtered member missing from result")
	}
	// Rate stays room-wide: 300 spend over 3 meals, not over priya's 1.
	approx(t, "rate", res.Rate, 100)
	approx(t, "priya meal cost", res.PerMember[priya].MealCost, 100)
}

func TestPunctuality(t *testing.T) {
	paidOnDue := ts(2025, time.June, 10, 18) // evening of the due date
	paidLate := ts(2025, time.June, 12, 9)
	paidEarly := ts(2025, time.June, 8, 9)

	bills := []models.Bill{
		{
			TotalAmount: 300, DueDate: date(2025, time.June, 10),
			Shares: []models.BillShare{
				{UserID: priya, Amount: 100, Status: models.ShareStatusPaid, PaidAt: &paidOnDue},
				{UserID: ravi, Amount: 100, Status: models.ShareStatusPaid, PaidAt: &paidLate},
				{UserID: amit, Amount: 100, Status: models.ShareStatusPaid, PaidAt: &paidEarly},
			},
		},
		{
			TotalAmount: 200, DueDate: date(2025, time.June, 20),
			Shares: []models.BillShare{
				{UserID: priya, Amount: 100, Status: models.ShareStatusPaid, PaidAt: &paidEarly},
				{UserID: ravi, Amount: 100, Status: models.ShareStatusUnpaid}, // overdue, counts against
			},
		},
	}

	res := ComputeSettlement(Input{Bills: bills, Period: june()})

	approx(t, "priya punctuality", res.Punctuality[priya], 100) // on due date counts as on time
	approx(t, "ravi punctuality", res.Punctuality[ravi], 0)
	approx(t, "amit punctuality", res.Punctuality[amit], 100)
}

func TestTrailingWindowPunctuality(t *testing.T) {
	now := ts(2025, time.June, 30, 12)
	paidAt := ts(2025, time.May, 9, 10)

	bills := []models.Bill{
		{
			TotalAmount: 100, DueDate: date(2025, time.May, 10),
			Shares: []models.BillShare{{UserID: priya, Amount: 100, Status: models.ShareStatusPaid, PaidAt: &paidAt}},
		},
		{
			// Eight months back: outside a 6 month window, inside 12.
			TotalAmount: 100, DueDate: date(2024, time.October, 10),
			Shares: []models.BillShare{{UserID: priya, Amount: 100, Status: models.ShareStatusUnpaid}},
		},
	}

	sixMonths := Punctuality(bills, now, 6)
	approx(t, "6 month window", sixMonths[priya], 100)

	twelveMonths := Punctuality(bills, now, 12)
	approx(t, "12 month window", twelveMonths[priya], 50)
}
