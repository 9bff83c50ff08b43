package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/perejack/canadaman/config"
	"github.com/perejack/canadaman/handlers/applications"
	"github.com/perejack/canadaman/handlers/auth"
	"github.com/perejack/canadaman/handlers/jobs"
	"github.com/perejack/canadaman/handlers/payments"
	"github.com/perejack/canadaman/migrations"
	"github.com/perejack/canadaman/seed"
	"github.com/perejack/canadaman/swiftpay"
	"github.com/perejack/canadaman/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	cfg := config.Load()
	utils.InitializeLogger(cfg.IsProduction())

	if cfg.SwiftPayAPIKey == "" || cfg.SwiftPayTillID == "" {
		log.Fatal("SWIFTPAY_API_KEY and SWIFTPAY_TILL_ID must be set in environment variables")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set in the environment")
	}

	db := utils.ConnectDatabase(cfg.DatabaseURL)

	migrations.MigrateApplications(db)
	migrations.MigratePayments(db)
	migrations.MigrateUsers(db)
	migrations.MigrateJobs(db)

	if err := seed.SeedJobs(db); err != nil {
		log.Fatalf("Failed to seed job catalog: %v", err)
	}

	gateway := swiftpay.NewClient(
		cfg.SwiftPayAPIKey,
		cfg.SwiftPayTillID,
		cfg.SwiftPayBackendURL,
		cfg.MpesaProxyURL,
		cfg.MpesaProxyAPIKey,
	)

	mailer := utils.Mailer{
		Host:   cfg.SMTPHost,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPass,
		Sender: cfg.SMTPSender,
	}
	wati := utils.WatiNotifier{BaseURL: cfg.WatiURL, APIKey: cfg.WatiAPIKey}

	authHandler := auth.NewHandler(db, []byte(cfg.JWTSecret))

	applicationsHandler := applications.NewHandler(db)
	applicationsHandler.Mailer = mailer

	paymentsHandler := payments.NewHandler(db, gateway)
	paymentsHandler.JWTSecret = []byte(cfg.JWTSecret)
	paymentsHandler.AdminToken = cfg.AdminToken
	paymentsHandler.IsProduction = cfg.IsProduction()
	paymentsHandler.Mailer = mailer
	paymentsHandler.Wati = wati

	jobsHandler := jobs.NewHandler(db)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Admin-Token"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/auth-signup", authHandler.Signup)
		api.POST("/auth-login", authHandler.Login)

		api.GET("/jobs", jobsHandler.ListJobs)
		api.POST("/submit-application", applicationsHandler.SubmitApplication)

		api.POST("/initiate-payment", paymentsHandler.InitiatePayment)
		api.POST("/payment-callback", paymentsHandler.PaymentCallback)
		api.GET("/payment-status", paymentsHandler.PaymentStatus)

		api.GET("/transactions",
			auth.AdminAuthMiddleware(cfg.AdminToken, cfg.IsProduction()),
			paymentsHandler.ListTransactions)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
