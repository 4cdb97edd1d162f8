package routes

import (
	orderControllers "github.com/LGEEEEEE/LojaQualquerTeste/controllers/order"
	"github.com/LGEEEEEE/LojaQualquerTeste/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	// Order history for the logged-in user
	r.GET("/minha_conta", middleware.ValidateToken, orderControllers.GetUserOrdersHandler(db))

	// Owner-only payment status poll
	r.GET("/verificar_pagamento/:orderID", middleware.ValidateToken, orderControllers.VerifyPaymentHandler(db))

	orders := r.Group("/orders")
	{
		// websocket endpoint for real-time order status updates
		orders.GET("/ws", orderControllers.OrderStatusWebSocketHandler)

		// audit export, includes abandoned pending checkouts
		orders.GET("/export", middleware.ValidateToken, orderControllers.ExportOrdersToExcel(db))
	}
}
