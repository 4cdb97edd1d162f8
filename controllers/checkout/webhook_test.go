package checkoutControllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LGEEEEEE/LojaQualquerTeste/mercadopago"
	"github.com/LGEEEEEE/LojaQualquerTeste/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func postWebhook(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func webhookRouter(db *gorm.DB, gw Gateway) *gin.Engine {
	router := gin.New()
	router.POST("/payment/webhook", WebhookHandler(db, gw))
	return router
}

func TestWebhook_ApprovedPaymentMarksOrderPaid(t *testing.T) {
	t.Setenv("SITE_URL", "https://loja.example.com")

	db := setupTestDB(t)
	carts := setupCartStore(t)
	user := seedUser(t, db, "comprador@example.com")
	product := seedProduct(t, db, "Caneca", "10.00")
	order := checkout(t, db, carts, user, models.Cart{product.ID: 2})

	gw := &fakeGateway{payment: &mercadopago.Payment{
		ID:                555,
		Status:            "approved",
		ExternalReference: order.ExternalReference,
	}}

	w := postWebhook(webhookRouter(db, gw), `{"type":"payment","data":{"id":555}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gw.getPaymentCalls)
	requireOrderStatus(t, db, order.ID, models.OrderStatusPaid)
}

func TestWebhook_DuplicateDeliveryIsNoOp(t *testing.T) {
	t.Setenv("SITE_URL", "https://loja.example.com")

	db := setupTestDB(t)
	carts := setupCartStore(t)
	user := seedUser(t, db, "comprador@example.com")
	product := seedProduct(t, db, "Caneca", "10.00")
	order := checkout(t, db, carts, user, models.Cart{product.ID: 2})

	gw := &fakeGateway{payment: &mercadopago.Payment{
		ID:                555,
		Status:            "approved",
		ExternalReference: order.ExternalReference,
	}}
	router := webhookRouter(db, gw)

	first := postWebhook(router, `{"type":"payment","data":{"id":555}}`)
	second := postWebhook(router, `{"type":"payment","data":{"id":555}}`)

	// Same final state after either delivery, and the duplicate is still
	// acknowledged.
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	requireOrderStatus(t, db, order.ID, models.OrderStatusPaid)
}

func TestWebhook_NonPaymentEventsAreIgnored(t *testing.T) {
	db := setupTestDB(t)
	gw := &fakeGateway{}

	w := postWebhook(webhookRouter(db, gw), `{"type":"merchant_order","data":{"id":555}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, gw.getPaymentCalls)
}

func TestWebhook_NonApprovedStatusLeavesOrderPending(t *testing.T) {
	t.Setenv("SITE_URL", "https://loja.example.com")

	db := setupTestDB(t)
	carts := setupCartStore(t)
	user := seedUser(t, db, "comprador@example.com")
	product := seedProduct(t, db, "Caneca", "10.00")
	order := checkout(t, db, carts, user, models.Cart{product.ID: 2})

	gw := &fakeGateway{payment: &mercadopago.Payment{
		ID:                555,
		Status:            "rejected",
		ExternalReference: order.ExternalReference,
	}}

	w := postWebhook(webhookRouter(db, gw), `{"type":"payment","data":{"id":555}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	requireOrderStatus(t, db, order.ID, models.OrderStatusPending)
}

func TestWebhook_AlwaysAcknowledges(t *testing.T) {
	db := setupTestDB(t)

	cases := []struct {
		name string
		gw   *fakeGateway
		body string
	}{
		{"malformed payload", &fakeGateway{}, `{not json`},
		{"gateway fetch failure", &fakeGateway{payErr: assert.AnError}, `{"type":"payment","data":{"id":555}}`},
		{"missing external reference", &fakeGateway{payment: &mercadopago.Payment{ID: 555, Status: "approved"}}, `{"type":"payment","data":{"id":555}}`},
		{"unmatched order", &fakeGateway{payment: &mercadopago.Payment{ID: 555, Status: "approved", ExternalReference: "9999-1700000000"}}, `{"type":"payment","data":{"id":555}}`},
		{"garbage reference", &fakeGateway{payment: &mercadopago.Payment{ID: 555, Status: "approved", ExternalReference: "abc-def"}}, `{"type":"payment","data":{"id":555}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postWebhook(webhookRouter(db, tc.gw), tc.body)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "ok")
		})
	}
}
