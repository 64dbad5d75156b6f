package routes

import (
	"net/http"

	"shop-api/config"
	"shop-api/controllers"
	"shop-api/middleware"
	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(config.AppConfig.OriginURL))

	SetupRoutes(router, db)
	return router
}

func SetupRoutes(router *gin.Engine, db *gorm.DB) {
	authCtrl := controllers.NewAuthController(services.NewAuthService(db))
	userCtrl := controllers.NewUserController(services.NewUserService(db))
	productCtrl := controllers.NewProductController(services.NewProductService(db))
	cartCtrl := controllers.NewCartController(services.NewCartService(db))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.GET("/products", productCtrl.GetAllProducts)
	router.GET("/products/:id", productCtrl.GetProductByID)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/users", userCtrl.GetAllUsers)
		auth.DELETE("/users/:id", userCtrl.DeleteUser)

		auth.POST("/products", middleware.RequireRoles(models.RoleCompany), productCtrl.CreateProduct)
	}

	cart := router.Group("/cart")
	cart.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleUser))
	{
		cart.GET("", cartCtrl.GetCart)
		cart.POST("", cartCtrl.AddItem)
		cart.POST("/checkout", cartCtrl.Checkout)
		cart.PUT("/:itemId", cartCtrl.UpdateItem)
		cart.DELETE("/:itemId", cartCtrl.RemoveItem)
	}
}
