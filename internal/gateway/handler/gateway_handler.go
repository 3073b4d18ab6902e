package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/gateway/client"
	"github.com/bean-harbor/shop-services/internal/gateway/mailer"
)

// GatewayHandler renders the HTML views and relays browser requests to
// the backend services, one hop deep.
type GatewayHandler struct {
	shop    *client.Backend
	capture *client.Backend
	wiki    *client.Backend
	mail    mailer.Mailer
	logger  *zap.Logger
}

func NewGatewayHandler(shop, capture, wiki *client.Backend, mail mailer.Mailer, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		shop:    shop,
		capture: capture,
		wiki:    wiki,
		mail:    mail,
		logger:  logger,
	}
}

func (h *GatewayHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Home)
	router.GET("/db-app", h.DBAppPage)
	router.GET("/webcamera-app", h.WebcameraPage)
	router.GET("/wiki-app", h.WikiPage)
	router.POST("/send-email", h.SendEmail)

	// Shop service.
	router.GET("/all-customers", h.proxy(h.shop, http.MethodGet, "/all-customers"))
	router.GET("/all-products", h.proxy(h.shop, http.MethodGet, "/all-products"))
	router.GET("/all-purchases", h.proxy(h.shop, http.MethodGet, "/all-purchases"))
	router.POST("/add-customer", h.proxy(h.shop, http.MethodPost, "/add-customer"))
	router.GET("/search-customers", h.proxy(h.shop, http.MethodGet, "/search-customers"))
	router.POST("/add-product", h.proxy(h.shop, http.MethodPost, "/add-product"))
	router.POST("/make-purchase", h.proxy(h.shop, http.MethodPost, "/make-purchase"))
	router.POST("/add-client", h.proxy(h.shop, http.MethodPost, "/add-client"))
	router.PUT("/update-client/:id", h.proxyParam(h.shop, http.MethodPut, "/update-client"))
	router.DELETE("/delete-client/:id", h.proxyParam(h.shop, http.MethodDelete, "/delete-client"))
	router.GET("/search-clients", h.proxy(h.shop, http.MethodGet, "/search-clients"))

	// Capture service.
	router.POST("/take-screenshot", h.proxy(h.capture, http.MethodPost, "/take-screenshot"))
	router.POST("/capture-photo", h.proxy(h.capture, http.MethodPost, "/capture-photo"))
	router.POST("/upload", h.proxy(h.capture, http.MethodPost, "/upload"))
	router.GET("/download/:filename", h.Download)
	router.GET("/uploads/:filename", h.proxyParam(h.capture, http.MethodGet, "/uploads"))

	// Wiki service.
	router.POST("/query", h.proxy(h.wiki, http.MethodPost, "/query"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

func (h *GatewayHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", nil)
}

func (h *GatewayHandler) DBAppPage(c *gin.Context) {
	c.HTML(http.StatusOK, "db_app.tmpl", nil)
}

func (h *GatewayHandler) WebcameraPage(c *gin.Context) {
	c.HTML(http.StatusOK, "webcamera_app.tmpl", nil)
}

func (h *GatewayHandler) WikiPage(c *gin.Context) {
	c.HTML(http.StatusOK, "wiki_app.tmpl", nil)
}

func (h *GatewayHandler) proxy(backend *client.Backend, method, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.relay(c, backend, method, path)
	}
}

// proxyParam appends the single path parameter to the backend path.
func (h *GatewayHandler) proxyParam(backend *client.Backend, method, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		param := c.Params[0].Value
		h.relay(c, backend, method, path+"/"+param)
	}
}

func (h *GatewayHandler) relay(c *gin.Context, backend *client.Backend, method, path string) {
	resp, err := backend.Do(c.Request.Context(), method, path,
		c.Request.URL.Query(), c.ContentType(), c.Request.Body)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			h.logger.Warn("Backend unavailable", zap.String("path", path), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
			return
		}
		h.logger.Error("Proxy failed", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(resp.StatusCode, resp.ContentType, resp.Body)
}

// Download relays the screenshot bytes and tells the browser to save
// them as a file.
func (h *GatewayHandler) Download(c *gin.Context) {
	filename := c.Param("filename")

	resp, err := h.capture.Do(c.Request.Context(), http.MethodGet, "/download/"+filename,
		nil, "", nil)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}

	if resp.StatusCode != http.StatusOK {
		c.Data(resp.StatusCode, resp.ContentType, resp.Body)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

type sendEmailRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

// SendEmail forwards a contact-form submission to the shop owner's
// mailbox. Form-encoded and JSON bodies are both accepted.
func (h *GatewayHandler) SendEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing form fields"})
		return
	}

	if req.Name == "" || req.Email == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing form fields"})
		return
	}

	if h.mail == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "mail is not configured"})
		return
	}

	if err := h.mail.SendContactForm(c.Request.Context(), req.Name, req.Email, req.Message); err != nil {
		h.logger.Error("Failed to send contact email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Email sent successfully!"})
}
