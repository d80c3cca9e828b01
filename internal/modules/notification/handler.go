package notification

import (
	"errors"
	"net/http"
	"strconv"

	"carsure/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notification", h.List)
	rg.PUT("/notification/:id/read", h.MarkRead)
	rg.PUT("/notification/read-all", h.MarkAllRead)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	list, unread, err := h.service.GetUserNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Impossible de charger les notifications, réessayez")
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"notifications": list,
		"unreadCount":   unread,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Identifiant de notification invalide")
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, http.StatusNotFound, "Notification introuvable")
			return
		}
		response.Fail(c, http.StatusInternalServerError, "Impossible de mettre à jour la notification, réessayez")
		return
	}

	response.OK(c, http.StatusOK, gin.H{})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Fail(c, http.StatusInternalServerError, "Impossible de mettre à jour les notifications, réessayez")
		return
	}

	response.OK(c, http.StatusOK, gin.H{})
}
