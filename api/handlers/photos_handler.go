package handlers

import (
	"io"
	"net/http"
	"strconv"

	"example.com/fieldtrack/agent/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxPhotoBytes caps an uploaded capture at 16 MB.
const maxPhotoBytes = 16 << 20

// PhotosHandler handles the photo staging area
type PhotosHandler struct {
	service *service.Service
	log     *logrus.Logger
}

// NewPhotosHandler creates a new PhotosHandler instance
func NewPhotosHandler(svc *service.Service, log *logrus.Logger) *PhotosHandler {
	return &PhotosHandler{service: svc, log: log}
}

// State returns the staged and saved photos for an institution
func (h *PhotosHandler) State(c *gin.Context) {
	state, err := h.service.Photos(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Stage receives a captured photo from the UI shell (which owns the camera
// hardware) and stages it for the institution
func (h *PhotosHandler) Stage(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.log.WithError(err).Warn("Capture without image file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}

	state, err := h.service.StagePhoto(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RemoveStaged drops a not-yet-saved photo
func (h *PhotosHandler) RemoveStaged(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo index"})
		return
	}

	state, err := h.service.RemoveStaged(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RemoveSaved drops an already-persisted photo
func (h *PhotosHandler) RemoveSaved(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo index"})
		return
	}

	state, err := h.service.RemoveSaved(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
