package handlers

import (
	"billkhata-backend/database"
	"billkhata-backend/models"
	"billkhata-backend/services"
	"billkhata-backend/settlement"
	"billkhata-backend/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettlementResponse wraps the engine result with resolved member names
// so clients don't need a second lookup.
type SettlementResponse struct {
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	MemberNames map[string]string    `json:"member_names"`
	Result      settlement.Result    `json:"result"`
}

// DashboardResponse is the manager's landing view.
type DashboardResponse struct {
	Settlement SettlementResponse  `json:"settlement"`
	Actions    []settlement.Action `json:"priority_actions"`
}

// GET /api/khatas/:id/settlement?month=YYYY-MM | start=&end= , member=
//
// The one settlement operation: dashboard, history, reports and shopping
// all call this with their own period and filter. Responses are cached
// per (khata, period, member) and invalidated on any relevant write.
func GetSettlement(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isMember(khataID, userID) && !isManagerOf(khataID, userID) {
		utils.Unauthorized(c, "You are not a member of this khata")
		return
	}

	period, err := parsePeriod(c)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	memberFilter := uuid.Nil
	if member := c.Query("member"); member != "" {
		memberFilter, err = uuid.Parse(member)
		if err != nil {
			utils.BadRequest(c, "Invalid member ID")
			return
		}
	}

	result := computeKhataSettlement(khataID, period, memberFilter)
	utils.SuccessResponse(c, http.StatusOK, "", buildSettlementResponse(khataID, period, result))
}

// GET /api/khatas/:id/punctuality?months=1|3|6|12|24
func GetPunctuality(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isMember(khataID, userID) && !isManagerOf(khataID, userID) {
		utils.Unauthorized(c, "You are not a member of this khata")
		return
	}

	months := 6
	switch c.Query("months") {
	case "1":
		months = 1
	case "3":
		months = 3
	case "12":
		months = 12
	case "24":
		months = 24
	}

	bills := loadBillsWithShares(khataID)
	punctuality := settlement.Punctuality(bills, time.Now(), months)

	names := make(map[string]string)
	for id := range punctuality {
		var user models.User
		if err := database.DB.First(&user, id).Error; err == nil {
			names[id.String()] = user.Name
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"months":       months,
		"punctuality":  punctuality,
		"member_names": names,
	})
}

// GET /api/khatas/:id/dashboard — manager overview for the current month
func GetDashboard(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isManagerOf(khataID, userID) {
		utils.Forbidden(c, "Only the manager can view the dashboard")
		return
	}

	now := time.Now()
	period := settlement.Month(now.Year(), now.Month(), now.Location())
	result := computeKhataSettlement(khataID, period, uuid.Nil)

	var members []models.KhataMember
	database.DB.Where("khata_id = ?", khataID).Find(&members)
	var expenses []models.Expense
	database.DB.Where("khata_id = ? AND status = ?", khataID, models.ApprovalPending).Find(&expenses)
	var deposits []models.Deposit
	database.DB.Where("khata_id = ? AND status = ?", khataID, models.ApprovalPending).Find(&deposits)

	utils.SuccessResponse(c, http.StatusOK, "", DashboardResponse{
		Settlement: buildSettlementResponse(khataID, period, result),
		Actions:    settlement.PriorityActions(members, expenses, deposits),
	})
}

// parsePeriod reads either month=YYYY-MM or start/end dates (end
// exclusive). Defaults to the current calendar month.
func parsePeriod(c *gin.Context) (settlement.Period, error) {
	if month := c.Query("month"); month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return settlement.Period{}, err
		}
		return settlement.Month(t.Year(), t.Month(), time.UTC), nil
	}

	start := c.Query("start")
	end := c.Query("end")
	if start != "" && end != "" {
		startT, err := time.Parse("2006-01-02", start)
		if err != nil {
			return settlement.Period{}, err
		}
		endT, err := time.Parse("2006-01-02", end)
		if err != nil {
			return settlement.Period{}, err
		}
		return settlement.Period{Start: startT, End: endT}, nil
	}

	now := time.Now()
	return settlement.Month(now.Year(), now.Month(), now.Location()), nil
}

// computeKhataSettlement loads the khata's collections and runs the
// engine, going through the Redis cache when available.
func computeKhataSettlement(khataID uuid.UUID, period settlement.Period, memberFilter uuid.UUID) settlement.Result {
	cacheKey := services.SettlementCacheKey(khataID, period, memberFilter)
	if cached, ok := services.GetCachedSettlement(cacheKey); ok {
		return *cached
	}

	var meals []models.Meal
	database.DB.Where("khata_id = ?", khataID).Find(&meals)
	var expenses []models.Expense
	database.DB.Where("khata_id = ?", khataID).Find(&expenses)
	var deposits []models.Deposit
	database.DB.Where("khata_id = ?", khataID).Find(&deposits)

	result := settlement.ComputeSettlement(settlement.Input{
		Bills:        loadBillsWithShares(khataID),
		Meals:        meals,
		Expenses:     expenses,
		Deposits:     deposits,
		Period:       period,
		MemberFilter: memberFilter,
	})

	services.CacheSettlement(khataID, cacheKey, result)
	return result
}

func loadBillsWithShares(khataID uuid.UUID) []models.Bill {
	var bills []models.Bill
	database.DB.Where("khata_id = ?", khataID).Preload("Shares").Find(&bills)
	return bills
}

func buildSettlementResponse(khataID uuid.UUID, period settlement.Period, result settlement.Result) SettlementResponse {
	names := make(map[string]string)
	for id := range result.PerMember {
		var user models.User
		if err := database.DB.First(&user, id).Error; err == nil {
			names[id.String()] = user.Name
		}
	}

	return SettlementResponse{
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		MemberNames: names,
		Result:      result,
	}
}
