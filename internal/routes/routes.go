package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/udaricrafts/udari-crafts-golang/internal/handlers"
	"github.com/udaricrafts/udari-crafts-golang/internal/middleware"
)

// CORSMiddleware allows the storefront/admin SPA origin to talk to the API.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, allowedOrigin string) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware(allowedOrigin))

	v1 := router.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth (public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Storefront (public) ---
		v1.GET("/products", h.GetAllProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/products/:id/reviews", h.GetProductReviews)
		v1.POST("/products/:id/reviews", h.CreateReview)
		v1.GET("/categories", h.GetAllCategories)
		v1.GET("/banners", h.GetActiveBanners)
		v1.POST("/complaints", h.CreateComplaint)

		// --- Checkout & payments (public: guest checkout) ---
		v1.POST("/orders", h.PlaceOrder)
		v1.GET("/orders/:id", h.GetOrder)
		v1.POST("/create-checkout-session/:id", h.CreateCheckoutSession)
		v1.POST("/create-jazzcash-checkout/:id", h.CreateJazzCashCheckout)
		v1.GET("/verify-payment", h.VerifyPayment)

		// --- Admin ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(h.Tokens))
		admin.Use(middleware.AdminMiddleware(h.DB))
		{
			admin.GET("/orders", h.GetAllOrders)
			admin.PUT("/orders/:id", h.UpdateOrderStatus)
			admin.PUT("/orders/:id/payment-status", h.UpdatePaymentStatus)

			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.POST("/categories", h.CreateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.POST("/banners", h.CreateBanner)
			admin.DELETE("/banners/:id", h.DeleteBanner)

			admin.GET("/complaints", h.GetAllComplaints)
			admin.PATCH("/complaints/:id/resolve", h.ResolveComplaint)

			admin.GET("/notifications", h.GetNotifications)
			admin.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)

			admin.GET("/dashboard-stats", h.GetDashboardStats)
		}
	}

	return router
}
