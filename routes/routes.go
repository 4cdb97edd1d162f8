package routes

import (
	checkoutControllers "github.com/LGEEEEEE/LojaQualquerTeste/controllers/checkout"
	"github.com/LGEEEEEE/LojaQualquerTeste/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, carts *store.CartStore, gw checkoutControllers.Gateway) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Storefront reads
	SetupProductRoutes(r, db)

	// Cart routes (JWT-protected)
	SetupCartRoutes(r, db, carts)

	// Checkout + payment reconciliation
	SetupPaymentRoutes(r, db, carts, gw)

	// Order history, polling, export
	SetupOrderRoutes(r, db)
}
