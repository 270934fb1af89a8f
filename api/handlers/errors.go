package handlers

import (
	"errors"
	"net/http"

	"example.com/fieldtrack/agent/internal/client"
	"example.com/fieldtrack/agent/internal/models"
	"example.com/fieldtrack/agent/internal/repository"
	"example.com/fieldtrack/agent/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Connectivity messages shown by the UI shell. Timeout and generic transport
// failures are deliberately distinct so the driver knows whether to look for
// better signal or to check the connection at all.
const (
	msgTimeout = "Your internet connection is weak. Try connecting to Wi-Fi or from a location with better signal."
	msgOffline = "You are most likely in an area without internet coverage, or your connection is disabled."
)

// respondError maps service and client errors to HTTP responses.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	var validationErr *models.ValidationError
	var captureErr *service.CaptureRejectedError
	var apiErr *client.APIError
	var transportErr *client.TransportError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case errors.As(err, &captureErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":  captureErr.Error(),
			"reason": captureErr.Reason,
		})
	case errors.Is(err, service.ErrUnsyncedChanges):
		c.JSON(http.StatusConflict, gin.H{
			"error": "You cannot refresh with new information while you still have data to upload. Push your saved data first.",
		})
	case errors.Is(err, service.ErrNothingToPush):
		c.JSON(http.StatusOK, gin.H{
			"message": "The database is already up to date. There is no new data to upload.",
		})
	case errors.Is(err, service.ErrNoAttachments):
		c.JSON(http.StatusOK, gin.H{
			"message": "There are no images pending upload.",
		})
	case errors.Is(err, service.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active session. Log in first."})
	case errors.Is(err, service.ErrRecordLocked):
		c.JSON(http.StatusConflict, gin.H{"error": "This record has already been finalized."})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantities may only contain numbers and decimals."})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, repository.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo index out of range"})
	case errors.Is(err, client.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": msgTimeout})
	case errors.As(err, &apiErr):
		// Application error from the remote service; message passes
		// through verbatim.
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
	case errors.As(err, &transportErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": msgOffline})
	default:
		log.WithError(err).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
