package checkoutControllers

import (
	"net/http"

	orderControllers "github.com/LGEEEEEE/LojaQualquerTeste/controllers/order"
	"github.com/LGEEEEEE/LojaQualquerTeste/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /payment/success?token=...&external_reference=...
//
// The synchronous confirmation path. It may run before or after the webhook
// for the same order; both funnel into the same idempotent transition.
func PaymentSuccessHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		token := c.Query("token")
		ref := c.Query("external_reference")
		if token == "" || ref == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return parameters", "redirect": "/minha_conta"})
			return
		}

		orderID, err := orderControllers.ParseExternalReference(ref)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		// A wrong token answers exactly like an unknown order id, so the
		// response never reveals which half of the lookup failed.
		var order models.Order
		if err := db.Where("id = ? AND token = ?", orderID, token).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "redirect": "/"})
			return
		}

		if _, err := orderControllers.MarkPaid(db, order.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Payment approved successfully",
			"order_id": order.ID,
			"redirect": "/minha_conta",
		})
	}
}

// GET /payment/failure
//
// Surfaces the failure only. The pending order and its items are left in
// place for audit, and the cart was never cleared, so the user can retry.
func PaymentFailureHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Payment failed or was cancelled, please try again",
			"redirect": "/cart",
		})
	}
}
