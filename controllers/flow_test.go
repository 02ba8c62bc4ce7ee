package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Team-Name-exists/Heritiq/ai"
	"github.com/Team-Name-exists/Heritiq/controllers"
	"github.com/Team-Name-exists/Heritiq/database"
	"github.com/Team-Name-exists/Heritiq/gateway"
	"github.com/Team-Name-exists/Heritiq/realtime"
	"github.com/Team-Name-exists/Heritiq/routes"
	"github.com/Team-Name-exists/Heritiq/services"
	"github.com/Team-Name-exists/Heritiq/storage"
)

const callbackKey = "gw-key"

// scriptedGateway answers every charge with the same status.
type scriptedGateway struct {
	status gateway.Status
}

func (g *scriptedGateway) Charge(context.Context, gateway.ChargeRequest) (gateway.ChargeResult, error) {
	return gateway.ChargeResult{Status: g.status, TransactionID: "ch_test"}, nil
}

type FlowSuite struct {
	suite.Suite
	router  *gin.Engine
	gateway *scriptedGateway
	seller  string
	buyer   string
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

func (s *FlowSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dir := s.T().TempDir()

	db, err := database.OpenSQLite(filepath.Join(dir, "flow.db"))
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db))
	s.T().Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s.gateway = &scriptedGateway{status: gateway.StatusSucceeded}
	hub := realtime.NewHub(zerolog.Nop())
	h := &controllers.Handler{
		DB:          db,
		Users:       services.NewUserService(db),
		Tokens:      services.NewTokenIssuer("flow-secret", 0),
		Revocations: services.NewGormRevocationStore(db),
		Catalog:     services.NewCatalogService(db),
		Carts:       services.NewCartService(db),
		Orders:      services.NewOrderService(db),
		Payments:    services.NewPaymentService(db, s.gateway),
		Messages:    services.NewMessageService(db, hub),
		Tutorials:   services.NewTutorialService(db, ai.DemoWriter{}),
		Advisor:     ai.DemoAdvisor{},
		Uploads:     storage.NewDisk(filepath.Join(dir, "uploads"), 1<<20),
		Hub:         hub,
	}
	s.router = gin.New()
	routes.RegisterRoutes(s.router, h, routes.Options{GatewayAPIKey: callbackKey})

	s.seller = s.signUp("maker", "seller")
	s.buyer = s.signUp("shopper", "buyer")
}

func (s *FlowSuite) serve(req *http.Request, token string) (int, map[string]any) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	body := map[string]any{}
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w.Code, body
}

func (s *FlowSuite) call(method, path, token string, payload any) (int, map[string]any) {
	var buf bytes.Buffer
	if payload != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(req, token)
}

func (s *FlowSuite) signUp(username, userType string) string {
	email := username + "@example.com"
	code, body := s.call(http.MethodPost, "/api/register", "", map[string]any{
		"username":        username,
		"email":           email,
		"password":        "secret1",
		"confirmPassword": "secret1",
		"userType":        userType,
		"firstName":       "Test",
		"lastName":        "User",
	})
	s.Require().Equal(http.StatusCreated, code, body)

	code, body = s.call(http.MethodPost, "/api/login", "", map[string]any{
		"email":    email,
		"password": "secret1",
		"userType": userType,
	})
	s.Require().Equal(http.StatusOK, code, body)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func (s *FlowSuite) createProduct(name, price string) uint {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": name, "category": "pottery", "price": price, "quantity": "3", "materials": "clay"} {
		s.Require().NoError(w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("image", "vase.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte("\x89PNG"))
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/seller/products", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	code, body := s.serve(req, s.seller)
	s.Require().Equal(http.StatusCreated, code, body)
	return id(body["data"].(map[string]any)["id"])
}

func id(v any) uint {
	return uint(v.(float64))
}

func (s *FlowSuite) TestPurchaseFlow() {
	productID := s.createProduct("Blue Vase", "25.00")

	code, _ := s.call(http.MethodGet, "/api/cart?userId=999", s.buyer, nil)
	s.Equal(http.StatusForbidden, code)

	code, body := s.call(http.MethodPost, "/cart/add", s.buyer, map[string]any{"productId": productID, "quantity": 2})
	s.Require().Equal(http.StatusOK, code, body)

	code, body = s.call(http.MethodGet, "/api/cart", s.buyer, nil)
	s.Require().Equal(http.StatusOK, code)
	s.EqualValues(50, body["total"])
	s.Len(body["items"], 1)

	code, body = s.call(http.MethodPost, "/order/create", s.buyer, nil)
	s.Require().Equal(http.StatusCreated, code, body)
	orderID := id(body["orderId"])
	s.EqualValues(50, body["totalAmount"])
	s.Equal(fmt.Sprintf("/payment/%d", orderID), body["redirectUrl"])

	code, body = s.call(http.MethodPost, "/order/create", s.buyer, nil)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Cart is empty", body["error"])

	code, body = s.call(http.MethodPost, "/payment/process", s.buyer, map[string]any{"orderId": orderID, "paymentMethod": "card", "amount": 40})
	s.Equal(http.StatusBadRequest, code, body)

	code, body = s.call(http.MethodPost, "/payment/process", s.buyer, map[string]any{"orderId": orderID, "paymentMethod": "card", "amount": 50})
	s.Require().Equal(http.StatusOK, code, body)
	s.Equal("completed", body["status"])

	code, body = s.call(http.MethodGet, fmt.Sprintf("/orders/%d", orderID), s.buyer, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("confirmed", body["data"].(map[string]any)["status"])

	path := fmt.Sprintf("/seller/orders/%d/status", orderID)
	code, _ = s.call(http.MethodPut, path, s.seller, map[string]any{"status": "shipped"})
	s.Equal(http.StatusOK, code)
	code, body = s.call(http.MethodPut, path, s.seller, map[string]any{"status": "pending"})
	s.Equal(http.StatusConflict, code, body)

	code, body = s.call(http.MethodGet, "/seller/dashboard", s.seller, nil)
	s.Require().Equal(http.StatusOK, code)
	stats := body["data"].(map[string]any)["stats"].(map[string]any)
	s.EqualValues(1, stats["totalOrders"])
	s.EqualValues(2, stats["totalItemsSold"])
}

func (s *FlowSuite) TestPendingPaymentSettledByCallback() {
	productID := s.createProduct("Mug", "12.00")
	s.gateway.status = gateway.StatusPending

	s.call(http.MethodPost, "/cart/add", s.buyer, map[string]any{"productId": productID})
	_, body := s.call(http.MethodPost, "/order/create", s.buyer, nil)
	orderID := id(body["orderId"])

	code, body := s.call(http.MethodPost, "/payment/process", s.buyer, map[string]any{"orderId": orderID, "paymentMethod": "bank", "amount": "12.00"})
	s.Require().Equal(http.StatusAccepted, code, body)
	txn := body["transactionId"].(string)

	callback := map[string]any{"transactionId": txn, "status": "succeeded"}
	code, _ = s.call(http.MethodPost, "/payment/callback", "", callback)
	s.Equal(http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodPost, "/payment/callback", bytes.NewBufferString(fmt.Sprintf(`{"transactionId":%q,"status":"succeeded"}`, txn)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", callbackKey)
	code, body = s.serve(req, "")
	s.Require().Equal(http.StatusOK, code, body)

	code, body = s.call(http.MethodGet, fmt.Sprintf("/orders/%d/payment", orderID), s.buyer, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("completed", body["data"].(map[string]any)["status"])
}

func (s *FlowSuite) TestMessaging() {
	code, body := s.call(http.MethodPost, "/api/check-user-type", "", map[string]any{"email": "maker@example.com"})
	s.Require().Equal(http.StatusOK, code)
	s.Equal(true, body["exists"])
	s.Equal("seller", body["userType"])

	sellerID := s.userID(s.seller)
	buyerID := s.userID(s.buyer)

	code, body = s.call(http.MethodPost, "/messages/send", s.buyer, map[string]any{"receiverId": sellerID, "message": "Do you take commissions?"})
	s.Require().Equal(http.StatusCreated, code, body)
	code, _ = s.call(http.MethodPost, "/messages/send", s.buyer, map[string]any{"receiverId": sellerID, "message": "   "})
	s.Equal(http.StatusBadRequest, code)

	_, body = s.call(http.MethodGet, "/messages/unread-count", s.seller, nil)
	s.EqualValues(1, body["count"])

	code, body = s.call(http.MethodGet, "/messages", s.seller, nil)
	s.Require().Equal(http.StatusOK, code)
	convs := body["data"].([]any)
	s.Require().Len(convs, 1)
	conv := convs[0].(map[string]any)
	s.EqualValues(buyerID, conv["otherUserId"])
	s.EqualValues(1, conv["unreadCount"])

	code, body = s.call(http.MethodGet, fmt.Sprintf("/messages/%d", buyerID), s.seller, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Len(body["data"].(map[string]any)["messages"], 1)

	_, body = s.call(http.MethodGet, "/messages/unread-count", s.seller, nil)
	s.EqualValues(0, body["count"])
}

func (s *FlowSuite) TestSellerTools() {
	productID := s.createProduct("Oak Spoon", "8.00")

	code, body := s.call(http.MethodGet, fmt.Sprintf("/product/%d/tutorial/generate", productID), s.seller, nil)
	s.Require().Equal(http.StatusOK, code, body)
	plan := body["tutorial"].(map[string]any)
	s.Equal("How to Create Oak Spoon", plan["title"])
	s.Len(plan["steps"], 4)

	code, body = s.call(http.MethodGet, fmt.Sprintf("/api/products/%d/tutorials", productID), "", nil)
	s.Require().Equal(http.StatusOK, code)
	s.Len(body["data"], 1)

	code, body = s.call(http.MethodPost, fmt.Sprintf("/seller/products/%d/price-suggestion", productID), s.seller, nil)
	s.Require().Equal(http.StatusOK, code, body)
	s.EqualValues(79.99, body["data"].(map[string]any)["suggestedPrice"])

	code, body = s.call(http.MethodGet, fmt.Sprintf("/api/products/%d", productID), "", nil)
	s.Require().Equal(http.StatusOK, code)
	product := body["data"].(map[string]any)["product"].(map[string]any)
	s.EqualValues(79.99, product["aiSuggestedPrice"])
	s.Equal("maker", product["sellerName"])

	req := httptest.NewRequest(http.MethodGet, "/seller/products/export", nil)
	req.Header.Set("Authorization", "Bearer "+s.seller)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "products.xlsx")
	s.Contains(w.Header().Get("Content-Type"), "spreadsheetml")
	s.Equal("PK", w.Body.String()[:2])

	code, body = s.call(http.MethodGet, "/api/products?page=-2&perPage=0", "", nil)
	s.Require().Equal(http.StatusOK, code)
	s.EqualValues(1, body["page"])
	s.EqualValues(12, body["perPage"])
	s.Len(body["data"], 1)

	code, _ = s.call(http.MethodDelete, fmt.Sprintf("/seller/products/%d", productID), s.seller, nil)
	s.Equal(http.StatusOK, code)
	_, body = s.call(http.MethodGet, "/api/products", "", nil)
	s.EqualValues(0, body["total"])
}

func (s *FlowSuite) TestRolesAndLogout() {
	code, _ := s.call(http.MethodPost, "/cart/add", s.seller, map[string]any{"productId": 1})
	s.Equal(http.StatusForbidden, code)
	code, _ = s.call(http.MethodGet, "/seller/dashboard", s.buyer, nil)
	s.Equal(http.StatusForbidden, code)
	code, _ = s.call(http.MethodGet, "/orders", "", nil)
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.call(http.MethodPost, "/api/logout", s.buyer, nil)
	s.Require().Equal(http.StatusOK, code)
	code, body := s.call(http.MethodGet, "/orders", s.buyer, nil)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Token has been revoked", body["error"])

	code, body = s.call(http.MethodPost, "/api/login", "", map[string]any{"email": "maker@example.com", "password": "secret1", "userType": "buyer"})
	s.Equal(http.StatusForbidden, code, body)
}

func (s *FlowSuite) userID(token string) uint {
	claims, err := services.NewTokenIssuer("flow-secret", 0).Parse(token)
	s.Require().NoError(err)
	return claims.UserID
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)

	r := gin.New()
	routes.RegisterRoutes(r, &controllers.Handler{DB: db, Tokens: services.NewTokenIssuer("x", 0)}, routes.Options{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
