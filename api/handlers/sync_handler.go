package handlers

import (
	"net/http"

	"example.com/fieldtrack/agent/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SyncHandler handles the pull/push/upload flows
type SyncHandler struct {
	service *service.Service
	log     *logrus.Logger
}

// NewSyncHandler creates a new SyncHandler instance
func NewSyncHandler(svc *service.Service, log *logrus.Logger) *SyncHandler {
	return &SyncHandler{service: svc, log: log}
}

// Refresh pulls the record collection from the server
func (h *SyncHandler) Refresh(c *gin.Context) {
	records, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "The data has been downloaded successfully.",
		"records": records,
		// The UI drops its search term after a refresh.
		"reset_search": true,
	})
}

// Push submits pending local changes to the server
func (h *SyncHandler) Push(c *gin.Context) {
	if err := h.service.Push(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "The data has been synchronized with the server successfully.",
	})
}

// UploadImages uploads every staged photo
func (h *SyncHandler) UploadImages(c *gin.Context) {
	uploaded, err := h.service.UploadImages(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "All images were uploaded successfully.",
		"uploaded": uploaded,
	})
}
