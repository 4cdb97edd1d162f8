package routes

import (
	cartControllers "github.com/LGEEEEEE/LojaQualquerTeste/controllers/cart"
	"github.com/LGEEEEEE/LojaQualquerTeste/middleware"
	"github.com/LGEEEEEE/LojaQualquerTeste/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB, carts *store.CartStore) {
	cart := r.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCart(db, carts))
		cart.POST("/items", cartControllers.AddCartItem(db, carts))
		cart.PUT("/items/:productID", cartControllers.UpdateCartItem(carts))
		cart.DELETE("/items/:productID", cartControllers.DeleteCartItem(carts))
	}
}
