package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Team-Name-exists/Heritiq/controllers"
	"github.com/Team-Name-exists/Heritiq/middleware"
	"github.com/Team-Name-exists/Heritiq/models"
)

type Options struct {
	GatewayAPIKey string
}

func RegisterRoutes(r *gin.Engine, h *controllers.Handler, opts Options) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/check-user-type", h.CheckUserType)

		api.GET("/products", h.ListProducts)
		api.GET("/products/featured", h.FeaturedProducts)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/tutorials", h.ProductTutorials)
		api.GET("/sellers/top", h.TopSellers)
	}

	r.POST("/payment/callback", middleware.APIKey(opts.GatewayAPIKey), h.PaymentCallback)

	auth := middleware.Auth(h.Tokens, h.Revocations)
	protected := r.Group("/")
	protected.Use(auth)
	{
		protected.POST("/api/logout", h.Logout)

		protected.POST("/messages/send", h.SendMessage)
		protected.GET("/messages", h.GetConversations)
		protected.GET("/messages/unread-count", h.GetUnreadCount)
		protected.GET("/messages/:userId", h.GetThread)
		protected.POST("/messages/read", h.MarkRead)
		protected.GET("/ws/messages", h.MessagesSocket)

		buyer := protected.Group("/")
		buyer.Use(middleware.RequireUserType(models.UserTypeBuyer))
		{
			buyer.POST("/cart/add", h.AddToCart)
			buyer.GET("/api/cart", h.GetCart)
			buyer.POST("/cart/update", h.UpdateCart)
			buyer.POST("/cart/remove", h.RemoveFromCart)

			buyer.POST("/order/create", h.CreateOrder)
			buyer.GET("/orders", h.GetOrders)
			buyer.GET("/orders/:id", h.GetOrder)
			buyer.POST("/orders/:id/cancel", h.CancelOrder)
			buyer.GET("/orders/:id/payment", h.GetPayment)

			buyer.POST("/payment/process", h.ProcessPayment)
			buyer.GET("/buyer/dashboard", h.BuyerDashboard)
		}

		seller := protected.Group("/")
		seller.Use(middleware.RequireUserType(models.UserTypeSeller))
		{
			seller.POST("/seller/products", h.CreateProduct)
			seller.PUT("/seller/products/:id", h.UpdateProduct)
			seller.DELETE("/seller/products/:id", h.DeleteProduct)
			seller.POST("/seller/products/:id/price-suggestion", h.SuggestPrice)
			seller.POST("/seller/products/:id/tutorials", h.UploadTutorial)
			seller.GET("/seller/products/export", h.ExportProducts)
			seller.GET("/product/:id/tutorial/generate", h.GenerateTutorial)

			seller.PUT("/seller/orders/:id/status", h.UpdateOrderStatus)
			seller.GET("/seller/dashboard", h.SellerDashboard)
		}
	}
}
