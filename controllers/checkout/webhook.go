package checkoutControllers

import (
	"errors"
	"log"
	"net/http"

	orderControllers "github.com/LGEEEEEE/LojaQualquerTeste/controllers/order"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WebhookNotification is the inbound gateway event. Only the payment id is
// taken from it; the authoritative status is always re-fetched.
type WebhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

// POST /payment/webhook
//
// Always acknowledges with 200, whatever happens internally: the gateway's
// retry policy cannot fix a bad correlation and would only storm this
// endpoint. All failures are logged and swallowed.
func WebhookHandler(db *gorm.DB, gw Gateway) gin.HandlerFunc {
	ack := gin.H{"status": "ok"}

	return func(c *gin.Context) {
		var note WebhookNotification
		if err := c.ShouldBindJSON(&note); err != nil {
			log.Println("webhook: ignoring malformed payload:", err)
			c.JSON(http.StatusOK, ack)
			return
		}
		if note.Type != "payment" || note.Data.ID == 0 {
			c.JSON(http.StatusOK, ack)
			return
		}

		payment, err := gw.GetPayment(c.Request.Context(), note.Data.ID)
		if err != nil {
			log.Printf("webhook: failed to fetch payment %d: %v", note.Data.ID, err)
			c.JSON(http.StatusOK, ack)
			return
		}
		if payment.Status != "approved" || payment.ExternalReference == "" {
			c.JSON(http.StatusOK, ack)
			return
		}

		orderID, err := orderControllers.ParseExternalReference(payment.ExternalReference)
		if err != nil {
			log.Printf("webhook: payment %d: %v", payment.ID, err)
			c.JSON(http.StatusOK, ack)
			return
		}

		changed, err := orderControllers.MarkPaid(db, orderID)
		switch {
		case errors.Is(err, orderControllers.ErrOrderNotFound):
			log.Printf("webhook: payment %d references unknown order %d", payment.ID, orderID)
		case err != nil:
			log.Printf("webhook: failed to update order %d: %v", orderID, err)
		case changed:
			log.Printf("webhook: order %d marked as paid", orderID)
		}

		c.JSON(http.StatusOK, ack)
	}
}
