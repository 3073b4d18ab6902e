package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bean-harbor/shop-services/internal/capture/camera"
	"github.com/bean-harbor/shop-services/internal/capture/janitor"
	"github.com/bean-harbor/shop-services/internal/capture/storage"
)

type CaptureHandler struct {
	grabber   camera.Grabber
	store     storage.ObjectStore
	janitor   *janitor.Janitor
	uploadDir string
	logger    *zap.Logger
}

func NewCaptureHandler(grabber camera.Grabber, store storage.ObjectStore, cleaner *janitor.Janitor, uploadDir string, logger *zap.Logger) *CaptureHandler {
	return &CaptureHandler{
		grabber:   grabber,
		store:     store,
		janitor:   cleaner,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

func (h *CaptureHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/capture-photo", h.CapturePhoto)
	router.POST("/upload", h.Upload)
	router.POST("/take-screenshot", h.TakeScreenshot)
	router.GET("/download/:filename", h.Download)
	router.GET("/uploads/:filename", h.Serve)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

// CapturePhoto grabs one frame, stores it and returns a presigned link.
// A camera failure fails this request only.
func (h *CaptureHandler) CapturePhoto(c *gin.Context) {
	frame, err := h.grabber.CaptureFrame(c.Request.Context())
	if err != nil {
		h.logger.Error("Capture failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	objectName := fmt.Sprintf("image_%s.jpg", time.Now().Format("2006-01-02_15-04-05"))
	url, err := h.store.UploadAndPresign(c.Request.Context(), objectName, frame)
	if err != nil {
		h.logger.Error("Upload failed", zap.String("object", objectName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":          url,
		"download_url": url,
	})
}

// Upload accepts a multipart image and forwards it to the object store.
func (h *CaptureHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	objectName := filepath.Base(fileHeader.Filename)
	if objectName == "." || objectName == "/" || objectName == "" {
		objectName = fmt.Sprintf("image_%s.jpg", time.Now().Format("2006-01-02_15-04-05"))
	}

	url, err := h.store.UploadAndPresign(c.Request.Context(), objectName, data)
	if err != nil {
		h.logger.Error("Upload failed", zap.String("object", objectName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": "Image uploaded",
		"url":     url,
	})
}

// TakeScreenshot saves a frame locally and schedules its deletion. The
// file survives only if someone downloads it before the timer fires.
func (h *CaptureHandler) TakeScreenshot(c *gin.Context) {
	frame, err := h.grabber.CaptureFrame(c.Request.Context())
	if err != nil {
		h.logger.Error("Capture failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("screenshot_%s.jpg", time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(h.uploadDir, filename)

	if err := os.WriteFile(path, frame, 0o644); err != nil {
		h.logger.Error("Failed to save screenshot", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.janitor.Schedule(filename)
	h.logger.Info("Screenshot saved", zap.String("filename", filename))

	c.JSON(http.StatusOK, gin.H{"filename": filename})
}

// Download serves the screenshot as an attachment and cancels the
// pending delete: a saved picture is a kept picture.
func (h *CaptureHandler) Download(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.uploadDir, filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Your picture was deleted from the server. Please make another one"})
		return
	}

	h.janitor.Cancel(filename)
	c.FileAttachment(path, filename)
}

// Serve streams the screenshot inline without touching its lifecycle.
func (h *CaptureHandler) Serve(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.uploadDir, filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found or already deleted."})
		return
	}

	c.File(path)
}
