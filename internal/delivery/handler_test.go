package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/middleware"
)

const testToken = "valid-token"

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeCatalog and fakeOrders return canned results; the handler tests only
// exercise the boundary contract, not business rules.
type fakeCatalog struct {
	products   []domain.Product
	lastFilter domain.ProductFilter
	err        error
}

func (f *fakeCatalog) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) GetBySlug(slug string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			return &f.products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s %w", slug, domain.ErrNotFound)
}

func (f *fakeCatalog) CreateProduct(input domain.ProductInput) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: 1, Name: input.Name, Slug: input.Slug}, nil
}

func (f *fakeCatalog) DeleteProduct(id int) error {
	return f.err
}

type fakeOrders struct {
	receipt *domain.OrderReceipt
	order   *domain.Order
	err     error
}

func (f *fakeOrders) CreateOrder(draft domain.OrderDraft, lines []domain.OrderLine) (*domain.OrderReceipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

func (f *fakeOrders) GetOrder(orderNumber string) (*domain.Order, error) {
	if f.order != nil && f.order.OrderNumber == orderNumber {
		return f.order, nil
	}
	return nil, fmt.Errorf("order %s %w", orderNumber, domain.ErrNotFound)
}

func (f *fakeOrders) ListOrders() ([]domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.order == nil {
		return []domain.Order{}, nil
	}
	return []domain.Order{*f.order}, nil
}

func (f *fakeOrders) UpdateStatus(id int, status domain.OrderStatus) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.order == nil || f.order.ID != id {
		return nil, fmt.Errorf("order %d %w", id, domain.ErrNotFound)
	}
	if !domain.CanTransition(f.order.Status, status) {
		return nil, fmt.Errorf("cannot move order from '%s' to '%s': %w",
			f.order.Status, status, domain.ErrInvalidTransition)
	}
	updated := *f.order
	updated.Status = status
	return &updated, nil
}

// fakeAuth accepts a single fixed token.
type fakeAuth struct {
	admin *domain.AdminUser
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*domain.AdminUser, string, error) {
	if f.admin != nil && username == f.admin.Username && password == "password123" {
		return f.admin, testToken, nil
	}
	return nil, "", domain.ErrUnauthorized
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	if token != testToken {
		return domain.ErrUnauthorized
	}
	return nil
}

func (f *fakeAuth) CurrentUser(_ context.Context, token string) (*domain.AdminUser, error) {
	if f.admin != nil && token == testToken {
		return f.admin, nil
	}
	return nil, domain.ErrUnauthorized
}

func newTestRouter(catalog domain.CatalogUseCase, orders domain.OrderUseCase, auth domain.AuthUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := newTestLogger()
	router := gin.New()

	authRequired := middleware.AuthRequired(auth, logger)
	NewProductHandler(catalog, logger).RegisterRoutes(router, authRequired)
	NewOrderHandler(orders, logger).RegisterRoutes(router, authRequired)
	NewAuthHandler(auth, logger).RegisterRoutes(router, authRequired)
	return router
}

func defaultFakes() (*fakeCatalog, *fakeOrders, *fakeAuth) {
	catalog := &fakeCatalog{products: []domain.Product{
		{ID: 1, Name: "Bike A", Slug: "bike-a", Category: "urbane",
			Price: decimal.RequireFromString("10.00")},
	}}
	orders := &fakeOrders{
		receipt: &domain.OrderReceipt{
			OrderNumber: "ORD2026080001",
			TotalAmount: decimal.RequireFromString("25.00"),
		},
		order: &domain.Order{ID: 1, OrderNumber: "ORD2026080001", Status: domain.StatusPending,
			TotalAmount: decimal.RequireFromString("25.00")},
	}
	auth := &fakeAuth{admin: &domain.AdminUser{ID: 1, Username: "admin", Role: "admin"}}
	return catalog, orders, auth
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListProductsFilterValidation(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	router := newTestRouter(catalog, orders, auth)

	w := doRequest(router, http.MethodGet, "/products?featured=yes", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/products?bestseller=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/products?category=urbane&featured=true", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, catalog.lastFilter.Category)
	assert.Equal(t, "urbane", *catalog.lastFilter.Category)
	require.NotNil(t, catalog.lastFilter.Featured)
	assert.True(t, *catalog.lastFilter.Featured)
	assert.Nil(t, catalog.lastFilter.Bestseller)
}

func TestGetProductBySlug(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	router := newTestRouter(catalog, orders, auth)

	w := doRequest(router, http.MethodGet, "/products/bike-a", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/products/no-such-bike", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	router := newTestRouter(catalog, orders, auth)

	protected := []struct {
		method, path string
	}{
		{http.MethodPost, "/products"},
		{http.MethodDelete, "/products/1"},
		{http.MethodGet, "/orders"},
		{http.MethodPatch, "/orders/1/status"},
		{http.MethodPost, "/admin/logout"},
		{http.MethodGet, "/admin/me"},
	}

	for _, route := range protected {
		w := doRequest(router, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without token", route.method, route.path)

		w = doRequest(router, route.method, route.path, "bogus", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s with invalid token", route.method, route.path)
	}
}

func TestCreateProductRequiresValidBody(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	router := newTestRouter(catalog, orders, auth)

	w := doRequest(router, http.MethodPost, "/products", testToken, map[string]interface{}{
		"name": "Bike", "slug": "bike", "category": "urbane", "price": "99.00",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderReturnsReceipt(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	router := newTestRouter(catalog, orders, auth)

	w := doRequest(router, http.MethodPost, "/orders", "", map[string]interface{}{
		"order": map[string]string{
			"customerName":    "Mario Rossi",
			"customerEmail":   "mario@example.com",
			"shippingAddress": "Via Roma 1",
		},
		"items": []map[string]int{{"productId": 1, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Status string
		Data   struct {
			OrderNumber string `json:"orderNumber"`
			TotalAmount string `json:"totalAmount"`
		}
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Success", response.Status)
	assert.Equal(t, "ORD2026080001", response.Data.OrderNumber)
	assert.Equal(t, "25.00", response.Data.TotalAmount)
}

func TestCreateOrderValidationMapsTo400(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	orders.err = domain.NewValidationError("items", "product 999 does not exist")
	router := newTestRouter(catalog, orders, auth)

	w := doRequest(router, http.MethodPost, "/orders", "", map[string]interface{}{
		"order": map[string]string{}, "items": []map[string]int{{"productId": 999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderByNumber(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	router := newTestRouter(catalog, orders, auth)

	w := doRequest(router, http.MethodGet, "/orders/ORD2026080001", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/orders/ORD0000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	router := newTestRouter(catalog, orders, auth)

	w := doRequest(router, http.MethodPatch, "/orders/1/status", testToken,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)

	// pending -> shipped skips a stage.
	w = doRequest(router, http.MethodPatch, "/orders/1/status", testToken,
		map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPatch, "/orders/1/status", testToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPatch, "/orders/abc/status", testToken,
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	catalog, orders, auth := defaultFakes()
	router := newTestRouter(catalog, orders, auth)

	w := doRequest(router, http.MethodPost, "/admin/login", "",
		map[string]string{"username": "admin", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
			} `json:"user"`
		}
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, testToken, response.Data.Token)
	assert.Equal(t, "admin", response.Data.User.Username)

	w = doRequest(router, http.MethodPost, "/admin/login", "",
		map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/admin/me", testToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/admin/logout", testToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
