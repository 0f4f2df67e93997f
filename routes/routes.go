package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"thrift-market/config"
	"thrift-market/controllers"
	"thrift-market/middleware"
	"thrift-market/repositories"
	"thrift-market/services"
)

// SetupRoutes wires repositories, services and controllers and registers
// every route. It returns the OTP service so the caller can run its
// expiry sweeper.
func SetupRoutes(router *gin.Engine, cfg *config.Config, db *pgxpool.Pool, rdb *redis.Client, email *services.EmailService) *services.OTPService {
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	otpRepo := repositories.NewOTPRepository(db)

	otpService := services.NewOTPService(otpRepo, userRepo, email, cfg.OTPExpiry)
	authService := services.NewAuthService(cfg, userRepo, otpService)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo, rdb)
	cartService := services.NewCartService(db, cartRepo, productRepo)
	orderService := services.NewOrderService(db, cartRepo, orderRepo, userRepo, cfg.StrictAvailability, email)

	passwordStrategy := services.NewPasswordStrategy(userRepo)
	otpStrategy := services.NewOTPStrategy(userRepo, otpService)

	authCtrl := controllers.NewAuthController(authService, otpService, passwordStrategy, otpStrategy)
	userCtrl := controllers.NewUserController(userService, productService, cfg)
	productCtrl := controllers.NewProductController(productService, cfg)
	cartCtrl := controllers.NewCartController(cartService)
	orderCtrl := controllers.NewOrderController(orderService)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/otp/send", authCtrl.SendOTP)
	router.POST("/auth/otp/login", authCtrl.OTPLogin)
	router.POST("/auth/reset-password", authCtrl.ResetPassword)

	router.GET("/categories", productCtrl.GetCategories)
	router.GET("/products", productCtrl.GetProducts)
	router.GET("/products/:id", productCtrl.GetProduct)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		auth.POST("/auth/change-password", authCtrl.ChangePassword)

		auth.GET("/users/profile", userCtrl.GetProfile)
		auth.PUT("/users/profile", userCtrl.UpdateProfile)
		auth.POST("/users/profile/image", userCtrl.UpdateProfileImage)
		auth.GET("/users/my-products", userCtrl.GetMyProducts)

		auth.POST("/products", productCtrl.CreateProduct)
		auth.PUT("/products/:id", productCtrl.UpdateProduct)
		auth.DELETE("/products/:id", productCtrl.DeleteProduct)

		auth.GET("/cart", cartCtrl.GetCart)
		auth.DELETE("/cart", cartCtrl.Clear)
		auth.POST("/cart/items", cartCtrl.AddItem)
		auth.PUT("/cart/items/:id", cartCtrl.UpdateItem)
		auth.DELETE("/cart/items/:id", cartCtrl.RemoveItem)

		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders", orderCtrl.GetOrders)
		auth.GET("/orders/:id", orderCtrl.GetOrder)
		auth.PUT("/orders/:id/status", orderCtrl.UpdateStatus)
	}

	router.Static("/uploads", cfg.UploadDir)

	return otpService
}
