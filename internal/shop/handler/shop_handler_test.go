package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/shop/domain"
	"github.com/bean-harbor/shop-services/internal/shop/handler"
	"github.com/bean-harbor/shop-services/internal/shop/repository"
	"github.com/bean-harbor/shop-services/internal/shop/service"
)

// memStore is an in-memory stand-in for all four DynamoDB repositories.
type memStore struct {
	customers map[string]domain.Customer
	products  map[string]domain.Product
	purchases []domain.Purchase
	clients   map[string]domain.Client
}

func newMemStore() *memStore {
	return &memStore{
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
		clients:   make(map[string]domain.Client),
	}
}

func (m *memStore) Create(_ context.Context, customer *domain.Customer) error {
	if _, ok := m.customers[customer.Email]; ok {
		return repository.ErrCustomerExists
	}
	m.customers[customer.Email] = *customer
	return nil
}

func (m *memStore) Get(_ context.Context, email string) (*domain.Customer, error) {
	customer, ok := m.customers[email]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	return &customer, nil
}

func (m *memStore) List(_ context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) FindByName(_ context.Context, name, surname string) ([]domain.Customer, error) {
	out := []domain.Customer{}
	for _, c := range m.customers {
		if (name == "" || c.Name == name) && (surname == "" || c.Surname == surname) {
			out = append(out, c)
		}
	}
	return out, nil
}

type memProducts struct{ store *memStore }

func (m memProducts) Get(_ context.Context, name string) (*domain.Product, error) {
	product, ok := m.store.products[name]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &product, nil
}

func (m memProducts) List(_ context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, p := range m.store.products {
		out = append(out, p)
	}
	return out, nil
}

func (m memProducts) Upsert(_ context.Context, name string, price domain.Money, amount int) (*domain.Product, error) {
	product := m.store.products[name]
	product.ProductName = name
	product.Price = price
	product.AvailableAmount += amount
	m.store.products[name] = product
	return &product, nil
}

func (m memProducts) DeductStock(_ context.Context, name string, quantity int) (int, error) {
	product, ok := m.store.products[name]
	if !ok || product.AvailableAmount < quantity {
		return 0, repository.ErrInsufficientStock
	}
	product.AvailableAmount -= quantity
	m.store.products[name] = product
	return product.AvailableAmount, nil
}

func (m memProducts) Restock(_ context.Context, name string, quantity int) error {
	product := m.store.products[name]
	product.AvailableAmount += quantity
	m.store.products[name] = product
	return nil
}

type memPurchases struct{ store *memStore }

func (m memPurchases) Put(_ context.Context, purchase *domain.Purchase) error {
	m.store.purchases = append(m.store.purchases, *purchase)
	return nil
}

func (m memPurchases) List(_ context.Context) ([]domain.Purchase, error) {
	return m.store.purchases, nil
}

func (m memPurchases) ListByCustomer(_ context.Context, email string) ([]domain.Purchase, error) {
	out := []domain.Purchase{}
	for _, p := range m.store.purchases {
		if p.CustomerEmail == email {
			out = append(out, p)
		}
	}
	return out, nil
}

type memClients struct{ store *memStore }

func (m memClients) Create(_ context.Context, record *domain.Client) error {
	m.store.clients[record.ClientID] = *record
	return nil
}

func (m memClients) Update(_ context.Context, clientID string, _ *domain.UpdateClientRequest) error {
	if _, ok := m.store.clients[clientID]; !ok {
		return repository.ErrClientNotFound
	}
	return nil
}

func (m memClients) Delete(_ context.Context, clientID string) error {
	if _, ok := m.store.clients[clientID]; !ok {
		return repository.ErrClientNotFound
	}
	delete(m.store.clients, clientID)
	return nil
}

func (m memClients) Search(_ context.Context, _, _, _ string) ([]domain.Client, error) {
	out := []domain.Client{}
	for _, c := range m.store.clients {
		out = append(out, c)
	}
	return out, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	svc := service.NewShopService(store, memProducts{store}, memPurchases{store}, memClients{store}, nil, zap.NewNop())
	h := handler.NewShopHandler(svc, zap.NewNop())

	router := gin.New()
	h.RegisterRoutes(router)
	return router, store
}

func seed(store *memStore) {
	store.customers["john.doe@example.com"] = domain.Customer{
		Email: "john.doe@example.com", Name: "John", Surname: "Doe",
	}
	store.products["Spiced Latte"] = domain.Product{
		ProductName: "Spiced Latte", Price: domain.MoneyFromInt(300), AvailableAmount: 5,
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestMakePurchaseEndToEnd(t *testing.T) {
	router, store := setupRouter(t)
	seed(store)

	w := doJSON(t, router, http.MethodPost, "/make-purchase",
		`{"customer_email":"john.doe@example.com","product_name":"Spiced Latte","amount_to_purchase":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Purchase domain.PurchaseConfirmation `json:"purchase"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Purchase.Amount)
	assert.Equal(t, "600", body.Purchase.TotalPrice.String())
	assert.Equal(t, 3, store.products["Spiced Latte"].AvailableAmount)

	// Immediate follow-up for more than the remaining stock.
	w = doJSON(t, router, http.MethodPost, "/make-purchase",
		`{"customer_email":"john.doe@example.com","product_name":"Spiced Latte","amount_to_purchase":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "maximum amount you can purchase is 3", errorMessage(t, w))
}

func TestMakePurchaseStringAmountAccepted(t *testing.T) {
	router, store := setupRouter(t)
	seed(store)

	// Form values forwarded by the gateway arrive as strings.
	w := doJSON(t, router, http.MethodPost, "/make-purchase",
		`{"customer_email":"john.doe@example.com","product_name":"Spiced Latte","amount_to_purchase":"2"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestMakePurchaseRejections(t *testing.T) {
	router, store := setupRouter(t)
	seed(store)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing fields",
			body:       `{"product_name":"Spiced Latte","amount_to_purchase":1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "all fields required",
		},
		{
			name:       "non-integer amount",
			body:       `{"customer_email":"john.doe@example.com","product_name":"Spiced Latte","amount_to_purchase":"two"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "amount must be an integer",
		},
		{
			name:       "unknown customer",
			body:       `{"customer_email":"nobody@example.com","product_name":"Spiced Latte","amount_to_purchase":1}`,
			wantStatus: http.StatusNotFound,
			wantError:  "customer not found",
		},
		{
			name:       "unknown product",
			body:       `{"customer_email":"john.doe@example.com","product_name":"Dark Roast","amount_to_purchase":1}`,
			wantStatus: http.StatusNotFound,
			wantError:  "product not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/make-purchase", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, errorMessage(t, w))
		})
	}

	assert.Empty(t, store.purchases)
	assert.Equal(t, 5, store.products["Spiced Latte"].AvailableAmount)
}

func TestAddProductUpsert(t *testing.T) {
	router, store := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/add-product",
		`{"product_name":"Spiced Latte","price":265,"available_amount":18}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/add-product",
		`{"product_name":"Spiced Latte","price":"300","available_amount":"5"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	product := store.products["Spiced Latte"]
	assert.Equal(t, "300", product.Price.String())
	assert.Equal(t, 23, product.AvailableAmount)
}

func TestAddProductRejectsNonNumeric(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/add-product",
		`{"product_name":"Spiced Latte","price":"cheap","available_amount":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "price and amount must be numbers", errorMessage(t, w))
}

func TestAddCustomerDuplicate(t *testing.T) {
	router, _ := setupRouter(t)

	body := `{"name":"John","surname":"Doe","email":"john.doe@example.com"}`
	w := doJSON(t, router, http.MethodPost, "/add-customer", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/add-customer", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "customer already exists", errorMessage(t, w))
}

func TestSearchCustomersByEmail(t *testing.T) {
	router, store := setupRouter(t)
	seed(store)

	req := httptest.NewRequest(http.MethodGet, "/search-customers?email=john.doe@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var results []domain.CustomerWithPurchases
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "john.doe@example.com", results[0].Email)
}

func TestDeleteClientNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/delete-client/missing-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
