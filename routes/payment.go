package routes

import (
	checkoutControllers "github.com/LGEEEEEE/LojaQualquerTeste/controllers/checkout"
	"github.com/LGEEEEEE/LojaQualquerTeste/middleware"
	"github.com/LGEEEEEE/LojaQualquerTeste/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, carts *store.CartStore, gw checkoutControllers.Gateway) {
	r.GET("/checkout", middleware.ValidateToken, checkoutControllers.CheckoutHandler(db, carts, gw))

	payment := r.Group("/payment")
	{
		// Server-to-server; authenticated by re-fetching the payment from
		// the gateway, not by session.
		payment.POST("/webhook", checkoutControllers.WebhookHandler(db, gw))

		payment.GET("/success", middleware.ValidateToken, checkoutControllers.PaymentSuccessHandler(db))
		payment.GET("/failure", checkoutControllers.PaymentFailureHandler())
	}
}
