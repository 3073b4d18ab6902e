package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/wiki/wikipedia"
)

// ArticleLookup is what the handler needs from the wikipedia client.
type ArticleLookup interface {
	Summary(ctx context.Context, query string) (*wikipedia.Article, error)
}

var _ ArticleLookup = (*wikipedia.Client)(nil)

type WikiHandler struct {
	lookup ArticleLookup
	logger *zap.Logger
}

func NewWikiHandler(lookup ArticleLookup, logger *zap.Logger) *WikiHandler {
	return &WikiHandler{
		lookup: lookup,
		logger: logger,
	}
}

func (h *WikiHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/query", h.Query)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

type queryRequest struct {
	Query string `json:"query"`
}

func (h *WikiHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No query provided"})
		return
	}

	article, err := h.lookup.Summary(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, wikipedia.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("No article found for '%s'", req.Query),
			})
			return
		}

		h.logger.Error("Wikipedia lookup failed",
			zap.String("query", req.Query),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}
