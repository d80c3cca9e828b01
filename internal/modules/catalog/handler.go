package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"carsure/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/workshop", h.ListWorkshops)
	rg.GET("/workshop/:id", h.GetWorkshop)
	rg.GET("/car/my-cars", h.MyCars)
}

func (h *Handler) ListWorkshops(c *gin.Context) {
	list, err := h.service.ListWorkshops(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Impossible de charger les ateliers, réessayez")
		return
	}
	response.OK(c, http.StatusOK, gin.H{"workshops": list})
}

func (h *Handler) GetWorkshop(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Identifiant d'atelier invalide")
		return
	}

	w, err := h.service.GetWorkshop(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "Atelier introuvable")
			return
		}
		response.Fail(c, http.StatusInternalServerError, "Impossible de charger l'atelier, réessayez")
		return
	}
	response.OK(c, http.StatusOK, gin.H{"workshop": w})
}

func (h *Handler) MyCars(c *gin.Context) {
	list, err := h.service.MyCars(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Impossible de charger vos véhicules, réessayez")
		return
	}
	response.OK(c, http.StatusOK, gin.H{"cars": list})
}
