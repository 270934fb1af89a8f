package handlers

import (
	"net/http"

	"example.com/fieldtrack/agent/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RecordsHandler handles the local delivery record collection
type RecordsHandler struct {
	service *service.Service
	log     *logrus.Logger
}

// NewRecordsHandler creates a new RecordsHandler instance
func NewRecordsHandler(svc *service.Service, log *logrus.Logger) *RecordsHandler {
	return &RecordsHandler{service: svc, log: log}
}

// draftRequest carries the editable record fields. Absent fields stay
// unchanged.
type draftRequest struct {
	Delivered    map[string]string `json:"entregado" binding:"omitempty,dive,quantity,max=16"`
	Observations *string           `json:"observaciones" binding:"omitempty,max=500"`
	ReceivedBy   *string           `json:"quien_recibe" binding:"omitempty,max=120"`
}

func (r draftRequest) toDraft() service.DraftUpdate {
	return service.DraftUpdate{
		Delivered:    r.Delivered,
		Observations: r.Observations,
		ReceivedBy:   r.ReceivedBy,
	}
}

// List returns the local records, optionally filtered by ?search=
func (h *RecordsHandler) List(c *gin.Context) {
	records, err := h.service.Records(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Get returns one record by institution assignment id
func (h *RecordsHandler) Get(c *gin.Context) {
	record, err := h.service.Record(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Update applies a draft edit to an editable record
func (h *RecordsHandler) Update(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).Warn("Invalid draft format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draft format"})
		return
	}

	record, err := h.service.UpdateRecord(c.Request.Context(), c.Param("id"), req.toDraft())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// FillMax sets a product line's delivered quantity to the requested one
func (h *RecordsHandler) FillMax(c *gin.Context) {
	record, err := h.service.FillMax(c.Request.Context(), c.Param("id"), c.Param("product"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Finalize validates and locks a record
func (h *RecordsHandler) Finalize(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).Warn("Invalid finalize format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid finalize format"})
		return
	}

	record, err := h.service.FinalizeRecord(c.Request.Context(), c.Param("id"), req.toDraft())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data stored on the device. Remember to upload it to the cloud as soon as you have an internet connection.",
		"record":  record,
	})
}
