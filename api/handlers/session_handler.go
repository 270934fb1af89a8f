package handlers

import (
	"net/http"

	"example.com/fieldtrack/agent/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionHandler handles login and logout
type SessionHandler struct {
	service *service.Service
	log     *logrus.Logger
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(svc *service.Service, log *logrus.Logger) *SessionHandler {
	return &SessionHandler{service: svc, log: log}
}

type loginRequest struct {
	User     string `json:"usuario" binding:"required"`
	Password string `json:"contrasena" binding:"required"`
}

// Login authenticates the driver against the remote service
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User and password are required"})
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.User, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"usuario":    session.User,
		"id_usuario": session.UserID,
	})
}

// Session returns the stored identity
func (h *SessionHandler) Session(c *gin.Context) {
	session, err := h.service.CurrentSession(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"usuario":    session.User,
		"id_usuario": session.UserID,
	})
}

// Logout clears the session and all local data
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}
