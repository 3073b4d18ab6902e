package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/shop/domain"
	"github.com/bean-harbor/shop-services/internal/shop/service"
)

type ShopHandler struct {
	shopService *service.ShopService
	logger      *zap.Logger
}

func NewShopHandler(shopService *service.ShopService, logger *zap.Logger) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		logger:      logger,
	}
}

// RegisterRoutes attaches every shop route to the router.
func (h *ShopHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/all-customers", h.AllCustomers)
	router.GET("/all-products", h.AllProducts)
	router.GET("/all-purchases", h.AllPurchases)
	router.POST("/add-customer", h.AddCustomer)
	router.GET("/search-customers", h.SearchCustomers)
	router.POST("/add-product", h.AddProduct)
	router.POST("/make-purchase", h.MakePurchase)

	router.POST("/add-client", h.AddClient)
	router.PUT("/update-client/:id", h.UpdateClient)
	router.DELETE("/delete-client/:id", h.DeleteClient)
	router.GET("/search-clients", h.SearchClients)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

func (h *ShopHandler) AllCustomers(c *gin.Context) {
	customers, err := h.shopService.ListCustomers(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to list customers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *ShopHandler) AllProducts(c *gin.Context) {
	products, err := h.shopService.ListProducts(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ShopHandler) AllPurchases(c *gin.Context) {
	purchases, err := h.shopService.ListPurchases(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to list purchases", err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *ShopHandler) AddCustomer(c *gin.Context) {
	var req domain.AddCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		return
	}

	customer, err := h.shopService.AddCustomer(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFieldsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		case errors.Is(err, service.ErrCustomerExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "customer already exists"})
		default:
			h.internalError(c, "Failed to add customer", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Customer added successfully",
		"customer": customer,
	})
}

func (h *ShopHandler) SearchCustomers(c *gin.Context) {
	email := c.Query("email")
	name := c.Query("name")
	surname := c.Query("surname")

	results, err := h.shopService.SearchCustomers(c.Request.Context(), email, name, surname)
	if err != nil {
		h.internalError(c, "Failed to search customers", err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *ShopHandler) AddProduct(c *gin.Context) {
	var req domain.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, domain.ErrNotAnInteger) || errors.Is(err, domain.ErrNotANumber) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price and amount must be numbers"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		return
	}

	if req.ProductName == "" || req.Price == nil || req.AvailableAmount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		return
	}

	product, err := h.shopService.AddProduct(c.Request.Context(), req.ProductName, *req.Price, req.AvailableAmount.Int())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFieldsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		case errors.Is(err, domain.ErrNotANumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": "price and amount must be numbers"})
		default:
			h.internalError(c, "Failed to add product", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product added successfully",
		"product": product,
	})
}

func (h *ShopHandler) MakePurchase(c *gin.Context) {
	var req domain.MakePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, domain.ErrNotAnInteger) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be an integer"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		return
	}

	if req.CustomerEmail == "" || req.ProductName == "" || req.AmountToPurchase == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		return
	}

	confirmation, err := h.shopService.MakePurchase(
		c.Request.Context(), req.CustomerEmail, req.ProductName, req.AmountToPurchase.Int())
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrFieldsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "all fields required"})
		case errors.Is(err, domain.ErrNotAnInteger):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be an integer"})
		case errors.Is(err, service.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": stockErr.Error()})
		default:
			h.internalError(c, "Failed to make purchase", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Purchase completed successfully",
		"purchase": confirmation,
	})
}

func (h *ShopHandler) AddClient(c *gin.Context) {
	var req domain.AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	record, err := h.shopService.AddClient(c.Request.Context(), req)
	if err != nil {
		h.internalError(c, "Failed to add client", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Client added successfully",
		"id":      record.ClientID,
	})
}

func (h *ShopHandler) UpdateClient(c *gin.Context) {
	clientID := c.Param("id")

	var req domain.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if err := h.shopService.UpdateClient(c.Request.Context(), clientID, &req); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		h.internalError(c, "Failed to update client", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully"})
}

func (h *ShopHandler) DeleteClient(c *gin.Context) {
	clientID := c.Param("id")

	if err := h.shopService.DeleteClient(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		h.internalError(c, "Failed to delete client", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

func (h *ShopHandler) SearchClients(c *gin.Context) {
	clients, err := h.shopService.SearchClients(
		c.Request.Context(), c.Query("name"), c.Query("surname"), c.Query("product"))
	if err != nil {
		h.internalError(c, "Failed to search clients", err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

func (h *ShopHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
