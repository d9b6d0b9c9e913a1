package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	tokenService port.TokenService,
	userHandler *UserHandler,
	categoryHandler *CategoryHandler,
	medicineHandler *MedicineHandler,
	orderHandler *OrderHandler,
	reviewHandler *ReviewHandler) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery())

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", userHandler.RegisterUser)
			auth.POST("/login", userHandler.LoginUser)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)

			adminOnly := categories.Group("")
			adminOnly.Use(authCheck(tokenService), roleCheck(domain.RoleAdmin))
			{
				adminOnly.POST("", categoryHandler.CreateCategory)
				adminOnly.PATCH("/:id", categoryHandler.UpdateCategory)
				adminOnly.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		medicines := api.Group("/medicines")
		{
			medicines.GET("", medicineHandler.ListMedicines)
			medicines.GET("/:id", medicineHandler.GetMedicine)
			medicines.GET("/:id/reviews", reviewHandler.ListMedicineReviews)

			sellerOnly := medicines.Group("")
			sellerOnly.Use(authCheck(tokenService), roleCheck(domain.RoleSeller))
			{
				sellerOnly.POST("", medicineHandler.CreateMedicine)
			}

			ownerOnly := medicines.Group("")
			ownerOnly.Use(authCheck(tokenService), roleCheck(domain.RoleSeller, domain.RoleAdmin))
			{
				ownerOnly.PATCH("/:id", medicineHandler.UpdateMedicine)
				ownerOnly.DELETE("/:id", medicineHandler.DeleteMedicine)
			}

			customerOnly := medicines.Group("")
			customerOnly.Use(authCheck(tokenService), roleCheck(domain.RoleCustomer))
			{
				customerOnly.POST("/:id/reviews", reviewHandler.CreateReview)
			}
		}

		orders := api.Group("/orders")
		orders.Use(authCheck(tokenService))
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)

			customer := orders.Group("")
			customer.Use(roleCheck(domain.RoleCustomer))
			{
				customer.POST("", orderHandler.CreateOrder)
				customer.POST("/:id/cancel", orderHandler.CancelOrder)
			}

			fulfillment := orders.Group("")
			fulfillment.Use(roleCheck(domain.RoleSeller, domain.RoleAdmin))
			{
				fulfillment.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
			}
		}

		seller := api.Group("/seller")
		seller.Use(authCheck(tokenService), roleCheck(domain.RoleSeller))
		{
			seller.GET("/medicines", medicineHandler.ListMyMedicines)
			seller.GET("/order-items", orderHandler.ListSellerOrderItems)
		}

		reviews := api.Group("/reviews")
		reviews.Use(authCheck(tokenService), roleCheck(domain.RoleCustomer))
		{
			reviews.GET("/my", reviewHandler.ListMyReviews)
			reviews.PATCH("/:id", reviewHandler.UpdateReview)
			reviews.DELETE("/:id", reviewHandler.DeleteReview)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
