package cartControllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/LGEEEEEE/LojaQualquerTeste/models"
	"github.com/LGEEEEEE/LojaQualquerTeste/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*gorm.DB, *store.CartStore, *gin.Engine) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Product{}))

	mr := miniredis.RunT(t)
	carts := store.NewCartStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Next()
	})
	router.GET("/cart", GetCart(db, carts))
	router.POST("/cart/items", AddCartItem(db, carts))
	router.PUT("/cart/items/:productID", UpdateCartItem(carts))
	router.DELETE("/cart/items/:productID", DeleteCartItem(carts))

	return db, carts, router
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	product := models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAddCartItem(t *testing.T) {
	db, carts, router := setupTest(t)
	product := seedProduct(t, db, "Caneca", "10.00")

	w := do(router, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cart, err := carts.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, cart[product.ID])
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	_, carts, router := setupTest(t)

	w := do(router, http.MethodPost, "/cart/items", `{"product_id":999,"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cart, err := carts.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestAddCartItem_RejectsNonPositiveQuantity(t *testing.T) {
	db, _, router := setupTest(t)
	seedProduct(t, db, "Caneca", "10.00")

	assert.Equal(t, http.StatusBadRequest,
		do(router, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":0}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(router, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":-3}`).Code)
}

func TestUpdateCartItem_ZeroQuantityRemoves(t *testing.T) {
	db, carts, router := setupTest(t)
	product := seedProduct(t, db, "Caneca", "10.00")

	require.Equal(t, http.StatusOK,
		do(router, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`).Code)

	w := do(router, http.MethodPut, "/cart/items/1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	cart, err := carts.Get(context.Background(), 1)
	require.NoError(t, err)
	_, ok := cart[product.ID]
	assert.False(t, ok)
}

func TestUpdateCartItem_NotInCart(t *testing.T) {
	_, _, router := setupTest(t)

	w := do(router, http.MethodPut, "/cart/items/5", `{"quantity":3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCartItem(t *testing.T) {
	db, carts, router := setupTest(t)
	seedProduct(t, db, "Caneca", "10.00")

	require.Equal(t, http.StatusOK,
		do(router, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`).Code)
	require.Equal(t, http.StatusOK,
		do(router, http.MethodDelete, "/cart/items/1", "").Code)

	cart, err := carts.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestGetCart_TotalsLines(t *testing.T) {
	db, _, router := setupTest(t)
	seedProduct(t, db, "Caneca", "10.00")
	seedProduct(t, db, "Camiseta", "35.50")

	require.Equal(t, http.StatusOK,
		do(router, http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`).Code)
	require.Equal(t, http.StatusOK,
		do(router, http.MethodPost, "/cart/items", `{"product_id":2,"quantity":1}`).Code)

	w := do(router, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "55.5")
}

func TestGetCart_Empty(t *testing.T) {
	_, _, router := setupTest(t)

	w := do(router, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":"0.00"`)
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
