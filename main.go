package main

import (
	"billkhata-backend/config"
	"billkhata-backend/database"
	"billkhata-backend/handlers"
	"billkhata-backend/middleware"
	"billkhata-backend/services"
	"log"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Firebase push notifications (optional)
	services.InitNotificationService()

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// User
		api.GET("/users/me", handlers.GetProfile)
		api.PUT("/users/me", handlers.UpdateProfile)
		api.PUT("/users/me/fcm-token", handlers.UpdateFCMToken)

		// Khatas
		api.POST("/khatas", handlers.CreateKhata)
		api.GET("/khatas/mine", handlers.GetMyKhata)
		api.POST("/khatas/join", handlers.JoinKhata)
		api.POST("/khatas/:id/members/:uid/approve", middleware.ManagerRequired(), handlers.ApproveJoin)
		api.POST("/khatas/:id/members/:uid/deny", middleware.ManagerRequired(), handlers.DenyJoin)
		api.DELETE("/khatas/:id/members/:uid", handlers.RemoveMember)
		api.POST("/khatas/:id/invite", middleware.ManagerRequired(), handlers.InviteToKhataHandler)

		// Bills
		api.POST("/khatas/:id/bills", middleware.ManagerRequired(), handlers.CreateBill)
		api.GET("/khatas/:id/bills", handlers.GetBills)
		api.GET("/bills/:id", handlers.GetBill)
		api.PUT("/bills/:id", middleware.ManagerRequired(), handlers.UpdateBill)
		api.DELETE("/bills/:id", middleware.ManagerRequired(), handlers.DeleteBill)
		api.POST("/bills/:id/mark-paid", handlers.MarkSharePaid)
		api.POST("/bills/:id/shares/:uid/approve", middleware.ManagerRequired(), handlers.ApprovePayment)
		api.POST("/bills/:id/shares/:uid/deny", middleware.ManagerRequired(), handlers.DenyPayment)

		// Meals
		api.POST("/khatas/:id/meals", handlers.UpsertMeal)
		api.GET("/khatas/:id/meals", handlers.GetMeals)
		api.POST("/khatas/:id/meals/finalize", middleware.ManagerRequired(), handlers.FinalizeDay)
		api.POST("/khatas/:id/meals/override", middleware.ManagerRequired(), handlers.OverrideMeal)
		api.GET("/meal-requests", handlers.GetMealEditRequests)
		api.POST("/meal-requests/:id/approve", handlers.ApproveMealEdit)
		api.POST("/meal-requests/:id/deny", handlers.DenyMealEdit)

		// Shopping expenses
		api.POST("/khatas/:id/expenses", handlers.CreateExpense)
		api.GET("/khatas/:id/expenses", handlers.GetExpenses)
		api.POST("/expenses/:id/approve", middleware.ManagerRequired(), handlers.ApproveExpense)
		api.POST("/expenses/:id/reject", middleware.ManagerRequired(), handlers.RejectExpense)

		// Deposits
		api.POST("/khatas/:id/deposits", handlers.CreateDeposit)
		api.GET("/khatas/:id/deposits", handlers.GetDeposits)
		api.POST("/deposits/:id/approve", middleware.ManagerRequired(), handlers.ApproveDeposit)
		api.POST("/deposits/:id/reject", middleware.ManagerRequired(), handlers.RejectDeposit)

		// Settlement
		api.GET("/khatas/:id/settlement", handlers.GetSettlement)
		api.GET("/khatas/:id/punctuality", handlers.GetPunctuality)
		api.GET("/khatas/:id/dashboard", middleware.ManagerRequired(), handlers.GetDashboard)

		// Activity
		api.GET("/activity", handlers.GetActivity)
		api.GET("/khatas/:id/activity", handlers.GetKhataActivity)
	}

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	log.Printf("🚀 Listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
