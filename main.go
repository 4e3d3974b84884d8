package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifefashion/internal/auth"
	"lifefashion/internal/config"
	"lifefashion/internal/database"
	"lifefashion/internal/handlers"
	"lifefashion/internal/ledger"
	"lifefashion/internal/mailer"
	"lifefashion/internal/middleware"
	"lifefashion/internal/payments"
)

func main() {
	config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}
	db := client.Database(config.AppEnv.DBName)
	logger.Info("mongodb connected", zap.String("db", db.Name()))

	if err := database.EnsureUserIndexes(db); err != nil {
		logger.Warn("user index warning", zap.Error(err))
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		logger.Warn("order index warning", zap.Error(err))
	}
	if err := database.EnsureReturnIndexes(db); err != nil {
		logger.Warn("return index warning", zap.Error(err))
	}
	if err := database.EnsureEmployeeIndexes(db); err != nil {
		logger.Warn("employee index warning", zap.Error(err))
	}
	if err := database.EnsureDepartmentIndexes(db); err != nil {
		logger.Warn("department index warning", zap.Error(err))
	}

	tokens := auth.NewService(config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL)

	var mail mailer.Sender
	if config.AppEnv.SMTPHost == "" {
		logger.Warn("smtp not configured, emails will be skipped")
		mail = mailer.Noop{Logger: logger}
	} else {
		mail, err = mailer.New(mailer.Config{
			Host:         config.AppEnv.SMTPHost,
			Port:         config.AppEnv.SMTPPort,
			Username:     config.AppEnv.SMTPUser,
			Password:     config.AppEnv.SMTPPassword,
			NotifyEmail:  config.AppEnv.NotifyEmail,
			DashboardURL: config.AppEnv.DashboardURL,
			OrderListURL: config.AppEnv.OrderListURL,
		}, logger)
		if err != nil {
			logger.Fatal("smtp client failed", zap.Error(err))
		}
	}

	eventLedger := ledger.New(config.AppEnv.RedisAddr, config.AppEnv.RedisPassword, config.AppEnv.RedisDB, logger)
	defer eventLedger.Close()

	orderDeps := handlers.OrderDeps{
		DB:       db,
		Mail:     mail,
		Stripe:   payments.NewStripeGateway(config.AppEnv.StripeSecretKey, config.AppEnv.StripeWebhookSecret, logger),
		Razorpay: payments.NewRazorpayGateway(config.AppEnv.RazorpayKeyID, config.AppEnv.RazorpayKeySecret, logger),
		Ledger:   eventLedger,
	}

	images := handlers.ImageStore{Root: config.AppEnv.UploadDir}

	adminCreds := handlers.AdminCredentials{
		AdminEmail:         config.AppEnv.AdminEmail,
		AdminPassword:      config.AppEnv.AdminPassword,
		StockAdminEmail:    config.AppEnv.StockAdminEmail,
		StockAdminPassword: config.AppEnv.StockAdminPassword,
	}

	anyAdmin := []string{auth.RoleMainAdmin, auth.RoleStockAdmin, auth.RoleEmployee}

	r := gin.Default()
	r.Static("/uploads", config.AppEnv.UploadDir)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "API Working")
	})

	user := r.Group("/api/user")
	{
		user.POST("/register", handlers.RegisterUser(db, tokens, mail))
		user.POST("/login", handlers.LoginUser(db, tokens))
		user.POST("/admin", handlers.AdminLogin(db, tokens, adminCreds))
		user.POST("/forgot-password/send-otp", handlers.SendResetOTP(db, mail))
		user.POST("/forgot-password/verify-otp", handlers.VerifyOTP(db))
		user.POST("/forgot-password/reset", handlers.ResetPassword(db))
	}

	r.POST("/api/admin/login", handlers.AdminLogin(db, tokens, adminCreds))

	product := r.Group("/api/product")
	{
		product.GET("/list", handlers.ListProducts(db))
		product.POST("/single", handlers.SingleProduct(db))
		product.POST("/add", middleware.AuthGuard(tokens, anyAdmin...), handlers.AddProduct(db, images))
		product.POST("/update", middleware.AuthGuard(tokens, anyAdmin...), handlers.UpdateProduct(db, images))
		product.POST("/remove", middleware.AuthGuard(tokens, anyAdmin...), handlers.RemoveProduct(db, images))
	}

	cart := r.Group("/api/cart", middleware.UserAuth(tokens))
	{
		cart.POST("/get", handlers.GetCart(db))
		cart.POST("/add", handlers.AddToCart(db))
		cart.POST("/update", handlers.UpdateCart(db))
	}

	order := r.Group("/api/order")
	{
		order.POST("/webhook/stripe", handlers.StripeWebhook(orderDeps))

		order.POST("/place", middleware.UserAuth(tokens), handlers.PlaceOrder(orderDeps))
		order.POST("/stripe", middleware.UserAuth(tokens), handlers.PlaceStripe(orderDeps))
		order.POST("/razorpay", middleware.UserAuth(tokens), handlers.PlaceRazorpay(orderDeps))
		order.POST("/verifyStripe", middleware.UserAuth(tokens), handlers.VerifyStripe(orderDeps))
		order.POST("/verifyRazorpay", middleware.UserAuth(tokens), handlers.VerifyRazorpay(orderDeps))
		order.POST("/userorders", middleware.UserAuth(tokens), handlers.UserOrders(db))
		order.PUT("/update/:orderId", middleware.UserAuth(tokens), handlers.UpdateOrderByUser(db))

		stockAdmin := middleware.AuthGuard(tokens, auth.RoleMainAdmin, auth.RoleStockAdmin)
		order.GET("/list", stockAdmin, handlers.AllOrders(db))
		order.POST("/status", stockAdmin, handlers.UpdateOrderStatus(db))
		order.POST("/delete", stockAdmin, handlers.DeleteOrder(db))
	}

	delivery := r.Group("/api/deliverys", middleware.AuthGuard(tokens, anyAdmin...))
	{
		delivery.GET("", handlers.ListDeliveries(db))
		delivery.POST("", handlers.CreateDelivery(db, mail))
		delivery.GET("/:id", handlers.GetDelivery(db))
		delivery.PUT("/:id", handlers.UpdateDelivery(db))
		delivery.DELETE("/:id", handlers.DeleteDelivery(db))
		delivery.POST("/:id/resend-email", handlers.ResendDeliveryEmail(db, mail))
	}

	employee := r.Group("/api/employee", middleware.AuthGuard(tokens, auth.RoleMainAdmin))
	{
		employee.POST("/add", handlers.AddEmployee(db, images))
		employee.GET("", handlers.ListEmployees(db))
		employee.GET("/:id", handlers.GetEmployee(db))
		employee.PUT("/:id", handlers.UpdateEmployee(db))
	}

	department := r.Group("/api/department", middleware.AuthGuard(tokens, auth.RoleMainAdmin))
	{
		department.GET("", handlers.ListDepartments(db))
		department.POST("/add", handlers.AddDepartment(db))
		department.GET("/:id", handlers.GetDepartment(db))
		department.PUT("/:id", handlers.UpdateDepartment(db))
		department.DELETE("/:id", handlers.DeleteDepartment(db))
	}

	returns := r.Group("/api/return")
	{
		returns.POST("/request", middleware.UserAuth(tokens), handlers.RequestReturn(db))
		returns.GET("/user", middleware.UserAuth(tokens), handlers.UserListReturns(db))
		returns.PUT("/user/update", middleware.UserAuth(tokens), handlers.UserUpdateReturn(db))
		returns.DELETE("/user/delete/:returnId", middleware.UserAuth(tokens), handlers.UserDeleteReturn(db))

		mainAdmin := middleware.AuthGuard(tokens, auth.RoleMainAdmin)
		returns.GET("", mainAdmin, handlers.AdminListReturns(db))
		returns.PUT("/update", mainAdmin, handlers.AdminUpdateReturn(db))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
