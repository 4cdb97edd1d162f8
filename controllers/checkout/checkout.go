package checkoutControllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/LGEEEEEE/LojaQualquerTeste/mercadopago"
	"github.com/LGEEEEEE/LojaQualquerTeste/models"
	"github.com/LGEEEEEE/LojaQualquerTeste/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const currencyID = "BRL"

// Gateway is the slice of the payment provider the checkout and
// reconciliation paths use.
type Gateway interface {
	CreatePreference(ctx context.Context, pref mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
	GetPayment(ctx context.Context, paymentID int64) (*mercadopago.Payment, error)
}

// newConfirmationToken returns 16 random bytes hex-encoded. It gates the
// return-URL confirmation path, so it must be unguessable.
func newConfirmationToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// siteBaseURL returns the public base URL without a trailing slash.
func siteBaseURL() (string, error) {
	base := os.Getenv("SITE_URL")
	if base == "" {
		return "", fmt.Errorf("SITE_URL is not configured")
	}
	return strings.TrimSuffix(base, "/"), nil
}

// GET /checkout
//
// Materializes the session cart into a pending order plus one item per
// product, creates the gateway preference, and only then lets the
// transaction commit. A gateway failure rolls the whole order back and
// leaves the cart untouched so the user can simply retry.
func CheckoutHandler(db *gorm.DB, carts *store.CartStore, gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		cart, err := carts.Get(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}
		if cart.IsEmpty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty", "redirect": "/"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		ids := cart.ProductIDs()
		var products []models.Product
		if err := db.Find(&products, ids).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
			return
		}
		if len(products) != len(ids) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart contains a product that no longer exists"})
			return
		}
		productByID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			productByID[p.ID] = p
		}

		baseURL, err := siteBaseURL()
		if err != nil {
			log.Println("checkout: missing configuration:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout is temporarily unavailable"})
			return
		}

		token, err := newConfirmationToken()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout is temporarily unavailable"})
			return
		}

		var order models.Order
		var preference *mercadopago.Preference

		txErr := db.Transaction(func(tx *gorm.DB) error {
			// Total comes from the authoritative product prices at this
			// instant; the client cart is trusted only for ids and
			// quantities.
			total := decimal.Zero
			for _, id := range ids {
				p := productByID[id]
				total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(cart[id]))))
			}

			order = models.Order{
				UserID:    userID,
				Total:     total,
				Status:    models.OrderStatusPending,
				Token:     token,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			// The insert assigned the id, so the external reference can be
			// built before anything is committed.
			order.ExternalReference = order.BuildExternalReference()
			if err := tx.Model(&order).Update("external_reference", order.ExternalReference).Error; err != nil {
				return err
			}

			prefItems := make([]mercadopago.PreferenceItem, 0, len(ids))
			for _, id := range ids {
				p := productByID[id]
				qty := cart[id]

				item := models.OrderItem{
					OrderID:     order.ID,
					ProductID:   p.ID,
					ProductName: p.Name,
					Quantity:    qty,
					UnitPrice:   p.Price,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				order.Items = append(order.Items, item)

				prefItems = append(prefItems, mercadopago.PreferenceItem{
					Title:      p.Name,
					Quantity:   qty,
					UnitPrice:  p.Price.InexactFloat64(),
					CurrencyID: currencyID,
				})
			}

			pref, err := gw.CreatePreference(c.Request.Context(), mercadopago.PreferenceRequest{
				Items: prefItems,
				BackURLs: mercadopago.BackURLs{
					Success: baseURL + "/payment/success",
					Failure: baseURL + "/payment/failure",
					Pending: baseURL + "/minha_conta",
				},
				AutoReturn:        "approved",
				Payer:             mercadopago.Payer{Email: user.Email},
				NotificationURL:   baseURL + "/payment/webhook",
				ExternalReference: order.ExternalReference,
			})
			if err != nil {
				// Returning the error rolls back the order and its items.
				return err
			}
			preference = pref
			return nil
		})
		if txErr != nil {
			log.Println("checkout: failed to create payment preference:", txErr)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not process your order, please try again"})
			return
		}

		// The order is committed; a failure clearing the cart is not worth
		// failing the checkout over.
		if err := carts.Clear(c.Request.Context(), userID); err != nil {
			log.Println("checkout: failed to clear cart:", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":      order.ID,
			"total":         order.Total,
			"preference_id": preference.ID,
			"init_point":    preference.InitPoint,
		})
	}
}
