package appointment

import (
	"errors"
	"net/http"
	"strconv"

	"carsure/internal/modules/upload"
	"carsure/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	uploads *upload.Service
}

func NewHandler(service *Service, uploads *upload.Service) *Handler {
	return &Handler{service: service, uploads: uploads}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/rdv-workshop")
	g.GET("/available-times", h.AvailableTimes)
	g.POST("/create", h.Create)
	g.GET("/my-appointments", h.MyAppointments)
	g.GET("/workshop-appointments", h.WorkshopAppointments)
	g.GET("/car/:id", h.CarAppointments)
	g.GET("/:id", h.Get)
	g.PUT("/:id/status", h.UpdateStatus)
	g.POST("/:id/images", h.UploadImages)
	g.POST("/:id/pdf", h.UploadPDF)
	g.POST("/check-expired-seller", h.CheckExpiredSeller)
}

func (h *Handler) AvailableTimes(c *gin.Context) {
	workshopID, err := strconv.ParseInt(c.Query("id_workshop"), 10, 64)
	if err != nil {
		response.FailWith(c, http.StatusBadRequest, "Requête invalide",
			gin.H{"errors": []string{"id_workshop is required"}})
		return
	}

	av, err := h.service.AvailableTimes(c.Request.Context(), workshopID, c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"availableTimes":   av.AvailableTimes,
		"unavailableTimes": av.UnavailableTimes,
	})
}

func (h *Handler) Create(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWith(c, http.StatusBadRequest, "Requête invalide",
			gin.H{"errors": []string{"body must be valid JSON"}})
		return
	}

	a, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, http.StatusCreated, gin.H{"appointment": a})
}

func (h *Handler) MyAppointments(c *gin.Context) {
	list, err := h.service.ListForOwner(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"appointments": list})
}

func (h *Handler) WorkshopAppointments(c *gin.Context) {
	list, err := h.service.ListForWorkshopUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"appointments": list})
}

func (h *Handler) CarAppointments(c *gin.Context) {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Identifiant de véhicule invalide")
		return
	}

	list, err := h.service.ListForCar(c.Request.Context(),
		c.GetInt64("user_id"), c.GetString("role"), carID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"appointments": list})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Identifiant de rendez-vous invalide")
		return
	}

	a, err := h.service.GetForActor(c.Request.Context(),
		c.GetInt64("user_id"), c.GetString("role"), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Identifiant de rendez-vous invalide")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWith(c, http.StatusBadRequest, "Requête invalide",
			gin.H{"errors": []string{"status is required"}})
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), c.GetInt64("user_id"), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) UploadImages(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Identifiant de rendez-vous invalide")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Formulaire multipart invalide")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		response.FailWith(c, http.StatusBadRequest, "Requête invalide",
			gin.H{"errors": []string{"at least one image is required"}})
		return
	}

	userID := c.GetInt64("user_id")
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		up, err := h.uploads.SaveImage(c.Request.Context(), userID, fh)
		if err != nil {
			h.respondError(c, err)
			return
		}
		urls = append(urls, up.FileURL)
	}

	a, err := h.service.AttachImages(c.Request.Context(), userID, id, urls)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) UploadPDF(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Identifiant de rendez-vous invalide")
		return
	}

	fh, err := c.FormFile("pdf")
	if err != nil {
		fh, err = c.FormFile("file")
	}
	if err != nil {
		response.FailWith(c, http.StatusBadRequest, "Requête invalide",
			gin.H{"errors": []string{"pdf file is required"}})
		return
	}

	userID := c.GetInt64("user_id")
	up, err := h.uploads.SavePDF(c.Request.Context(), userID, fh)
	if err != nil {
		h.respondError(c, err)
		return
	}

	a, err := h.service.AttachPDF(c.Request.Context(), userID, id, up.FileURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"appointment": a})
}

// CheckExpiredSeller sweeps the caller's stale appointments and returns what
// was cancelled so the dashboard can show a summary.
func (h *Handler) CheckExpiredSeller(c *gin.Context) {
	cancelled, err := h.service.SweepExpired(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"deletedAppointments": cancelled})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var vErr *ValidationError
	var conflict *SlotConflictError

	switch {
	case errors.As(err, &vErr):
		response.FailWith(c, http.StatusBadRequest, "Requête invalide",
			gin.H{"errors": vErr.Messages})

	case errors.As(err, &conflict):
		response.FailWith(c, http.StatusConflict, "Ce créneau n'est plus disponible",
			gin.H{"unavailableTimes": conflict.UnavailableTimes})

	case errors.Is(err, ErrNotFound):
		response.Fail(c, http.StatusNotFound, "Ressource introuvable")

	case errors.Is(err, ErrForbidden):
		response.Fail(c, http.StatusForbidden, "Vous n'êtes pas autorisé à effectuer cette action")

	case errors.Is(err, ErrInvalidTransition):
		response.Fail(c, http.StatusUnprocessableEntity, "Changement de statut non autorisé depuis l'état actuel")

	case errors.Is(err, ErrArtifactsMissing):
		response.Fail(c, http.StatusUnprocessableEntity, "Les photos et le rapport PDF sont requis avant de terminer")

	case errors.Is(err, ErrWorkshopInactive):
		response.Fail(c, http.StatusUnprocessableEntity, "Cet atelier n'accepte pas de rendez-vous actuellement")

	case errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, upload.ErrInvalidMimeType):
		response.Fail(c, http.StatusBadRequest, "Fichier invalide")

	default:
		response.Fail(c, http.StatusInternalServerError, "Une erreur est survenue, réessayez")
	}
}
