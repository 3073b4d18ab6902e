package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/shop/domain"
	"github.com/bean-harbor/shop-services/internal/shop/events"
	"github.com/bean-harbor/shop-services/internal/shop/repository"
)

var (
	ErrFieldsRequired   = errors.New("all fields required")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerExists   = errors.New("customer already exists")
	ErrProductNotFound  = errors.New("product not found")
	ErrClientNotFound   = errors.New("client not found")
)

// InsufficientStockError carries the amount that could still have been
// purchased when the request was rejected.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("maximum amount you can purchase is %d", e.Available)
}

// CustomerStore, ProductStore, PurchaseStore and ClientStore are the
// slices of the repositories the service needs; tests substitute fakes.
type CustomerStore interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Get(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	FindByName(ctx context.Context, name, surname string) ([]domain.Customer, error)
}

type ProductStore interface {
	Get(ctx context.Context, productName string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Upsert(ctx context.Context, productName string, price domain.Money, amount int) (*domain.Product, error)
	DeductStock(ctx context.Context, productName string, quantity int) (int, error)
	Restock(ctx context.Context, productName string, quantity int) error
}

type PurchaseStore interface {
	Put(ctx context.Context, purchase *domain.Purchase) error
	List(ctx context.Context) ([]domain.Purchase, error)
	ListByCustomer(ctx context.Context, email string) ([]domain.Purchase, error)
}

type ClientStore interface {
	Create(ctx context.Context, record *domain.Client) error
	Update(ctx context.Context, clientID string, req *domain.UpdateClientRequest) error
	Delete(ctx context.Context, clientID string) error
	Search(ctx context.Context, name, surname, product string) ([]domain.Client, error)
}

var (
	_ CustomerStore = (*repository.CustomerRepository)(nil)
	_ ProductStore  = (*repository.ProductRepository)(nil)
	_ PurchaseStore = (*repository.PurchaseRepository)(nil)
	_ ClientStore   = (*repository.ClientRepository)(nil)
)

type ShopService struct {
	customers CustomerStore
	products  ProductStore
	purchases PurchaseStore
	clients   ClientStore
	producer  events.Producer
	logger    *zap.Logger
}

// NewShopService wires the stores together. producer may be nil when
// event publishing is disabled.
func NewShopService(customers CustomerStore, products ProductStore, purchases PurchaseStore, clients ClientStore, producer events.Producer, logger *zap.Logger) *ShopService {
	return &ShopService{
		customers: customers,
		products:  products,
		purchases: purchases,
		clients:   clients,
		producer:  producer,
		logger:    logger,
	}
}

// MakePurchase runs the purchase workflow: resolve the customer, resolve
// the product, deduct the stock and record the purchase. The stock check
// and decrement are one conditional store call, so two concurrent
// purchases cannot both succeed against the same last unit.
func (s *ShopService) MakePurchase(ctx context.Context, customerEmail, productName string, amount int) (*domain.PurchaseConfirmation, error) {
	if customerEmail == "" || productName == "" {
		return nil, ErrFieldsRequired
	}
	if amount < 1 {
		return nil, domain.ErrNotAnInteger
	}

	if _, err := s.customers.Get(ctx, customerEmail); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	product, err := s.products.Get(ctx, productName)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if amount > product.AvailableAmount {
		return nil, &InsufficientStockError{Available: product.AvailableAmount}
	}

	newAmount, err := s.products.DeductStock(ctx, productName, amount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// Lost a race since the read above; report the fresh maximum.
			available := product.AvailableAmount
			if fresh, ferr := s.products.Get(ctx, productName); ferr == nil {
				available = fresh.AvailableAmount
			}
			return nil, &InsufficientStockError{Available: available}
		}
		return nil, err
	}

	purchase := &domain.Purchase{
		CustomerEmail: customerEmail,
		PurchaseID:    uuid.NewString(),
		Products: []domain.PurchaseItem{
			{ProductName: productName, Amount: amount},
		},
		TotalPrice: product.Price.MulInt(amount),
	}

	if err := s.purchases.Put(ctx, purchase); err != nil {
		// The stock is already gone; put it back rather than charging
		// for a purchase that was never recorded.
		if rerr := s.products.Restock(ctx, productName, amount); rerr != nil {
			s.logger.Error("Failed to restock after purchase write failure",
				zap.String("product_name", productName),
				zap.Int("amount", amount),
				zap.Error(rerr))
		}
		return nil, err
	}

	s.logger.Info("Purchase completed",
		zap.String("purchase_id", purchase.PurchaseID),
		zap.String("customer_email", customerEmail),
		zap.String("product_name", productName),
		zap.Int("amount", amount),
		zap.Int("remaining_stock", newAmount))

	s.publishPurchase(purchase)

	return &domain.PurchaseConfirmation{
		PurchaseID:  purchase.PurchaseID,
		ProductName: productName,
		Amount:      amount,
		TotalPrice:  purchase.TotalPrice,
	}, nil
}

func (s *ShopService) publishPurchase(purchase *domain.Purchase) {
	if s.producer == nil {
		return
	}

	event := events.PurchaseCompletedEvent{
		EventID:       uuid.NewString(),
		PurchaseID:    purchase.PurchaseID,
		CustomerEmail: purchase.CustomerEmail,
		Items:         purchase.Products,
		TotalPrice:    purchase.TotalPrice,
		Timestamp:     time.Now(),
	}

	if err := s.producer.PublishPurchaseCompleted(event); err != nil {
		s.logger.Warn("Failed to publish purchase event",
			zap.String("purchase_id", purchase.PurchaseID),
			zap.Error(err))
	}
}

func (s *ShopService) AddCustomer(ctx context.Context, req domain.AddCustomerRequest) (*domain.Customer, error) {
	if req.Name == "" || req.Surname == "" || req.Email == "" {
		return nil, ErrFieldsRequired
	}

	customer := &domain.Customer{
		Email:   req.Email,
		Name:    req.Name,
		Surname: req.Surname,
		Address: req.Address,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrCustomerExists) {
			return nil, ErrCustomerExists
		}
		return nil, err
	}

	s.logger.Info("Customer added", zap.String("email", customer.Email))
	return customer, nil
}

// AddProduct upserts: a new product is created as given, an existing one
// gains the supplied amount and takes over the supplied price.
func (s *ShopService) AddProduct(ctx context.Context, productName string, price domain.Money, amount int) (*domain.Product, error) {
	if productName == "" {
		return nil, ErrFieldsRequired
	}
	if amount < 0 || price.IsNegative() {
		return nil, domain.ErrNotANumber
	}

	product, err := s.products.Upsert(ctx, productName, price, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product upserted",
		zap.String("product_name", productName),
		zap.Int("available_amount", product.AvailableAmount))

	return product, nil
}

func (s *ShopService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *ShopService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ShopService) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	return s.purchases.List(ctx)
}

// SearchCustomers resolves by email when given (at most one match),
// otherwise scans for exact name/surname matches. Every match carries
// the customer's full purchase history.
func (s *ShopService) SearchCustomers(ctx context.Context, email, name, surname string) ([]domain.CustomerWithPurchases, error) {
	var matches []domain.Customer

	if email != "" {
		customer, err := s.customers.Get(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return []domain.CustomerWithPurchases{}, nil
			}
			return nil, err
		}
		matches = []domain.Customer{*customer}
	} else {
		var err error
		matches, err = s.customers.FindByName(ctx, name, surname)
		if err != nil {
			return nil, err
		}
	}

	results := make([]domain.CustomerWithPurchases, 0, len(matches))
	for _, customer := range matches {
		purchases, err := s.purchases.ListByCustomer(ctx, customer.Email)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.CustomerWithPurchases{
			Customer:  customer,
			Purchases: purchases,
		})
	}

	return results, nil
}

func (s *ShopService) AddClient(ctx context.Context, req domain.AddClientRequest) (*domain.Client, error) {
	record := &domain.Client{
		ClientID:        uuid.NewString(),
		Name:            req.Name,
		Surname:         req.Surname,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		Products:        req.Products,
	}

	if err := s.clients.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Client added", zap.String("client_id", record.ClientID))
	return record, nil
}

func (s *ShopService) UpdateClient(ctx context.Context, clientID string, req *domain.UpdateClientRequest) error {
	err := s.clients.Update(ctx, clientID, req)
	if errors.Is(err, repository.ErrClientNotFound) {
		return ErrClientNotFound
	}
	return err
}

func (s *ShopService) DeleteClient(ctx context.Context, clientID string) error {
	err := s.clients.Delete(ctx, clientID)
	if errors.Is(err, repository.ErrClientNotFound) {
		return ErrClientNotFound
	}
	return err
}

func (s *ShopService) SearchClients(ctx context.Context, name, surname, product string) ([]domain.Client, error) {
	return s.clients.Search(ctx, name, surname, product)
}
