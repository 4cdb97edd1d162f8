package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/LGEEEEEE/LojaQualquerTeste/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// ParseExternalReference extracts the order id from a gateway external
// reference, which is formed as "{orderID}-{unixTimestamp}". Everything after
// the first '-' is ignored.
func ParseExternalReference(ref string) (uint, error) {
	idStr, _, _ := strings.Cut(ref, "-")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid external reference %q", ref)
	}
	return uint(id), nil
}

// MarkPaid flips a pending order to paid. Both confirmation paths (webhook
// and return URL) funnel through this one guarded update, so concurrent
// confirmations race on a single conditional write and at most one of them
// changes the row. Re-applying is a no-op, never an error; paid orders never
// move back to pending.
func MarkPaid(db *gorm.DB, orderID uint) (bool, error) {
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("status", models.OrderStatusPaid)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// Either already paid or the order does not exist; callers on the
		// webhook path need to tell these apart for logging.
		var count int64
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
			return false, err
		}
		if count == 0 {
			return false, ErrOrderNotFound
		}
		return false, nil
	}

	broadcastOrderStatus(orderID, models.OrderStatusPaid)
	return true, nil
}

// GET /minha_conta
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /verificar_pagamento/:orderID
// Owner-only status poll, used by the payment page while waiting for the
// webhook to land.
func VerifyPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		orderID, err := strconv.Atoi(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		var order models.Order
		if err := db.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
			}
			return
		}
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": order.Status})
	}
}
