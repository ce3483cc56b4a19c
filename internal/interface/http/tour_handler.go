package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/natoursapp/natours-api/internal/application"
	"github.com/natoursapp/natours-api/pkg/response"
	"github.com/natoursapp/natours-api/pkg/validation"
)

type TourHandler struct {
	Svc    *application.TourService
	Logger *logrus.Logger
}

func NewTourHandler(svc *application.TourService, logger *logrus.Logger) *TourHandler {
	return &TourHandler{Svc: svc, Logger: logger}
}

type createTourRequest struct {
	Name           string  `json:"name" binding:"required"`
	DurationDays   int     `json:"duration_days" binding:"required,gt=0"`
	MaxGroupSize   int     `json:"max_group_size" binding:"required,gt=0"`
	Difficulty     string  `json:"difficulty" binding:"required,oneof=easy medium difficult"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	Summary        string  `json:"summary" binding:"required"`
	Description    string  `json:"description"`
	ImageCoverURL  string  `json:"image_cover_url"`
	StartLat       float64 `json:"start_lat"`
	StartLng       float64 `json:"start_lng"`
	RatingsAverage float64 `json:"ratings_average"`
}

// List GET /api/v1/tours
func (h *TourHandler) List(c *gin.Context) {
	tours, err := h.Svc.List(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("tour list failed")
		}
		response.Error(c, http.StatusInternalServerError, "failed to load tours", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": len(tours), "tours": tours}, "tours")
}

// Get GET /api/v1/tours/:id
func (h *TourHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "no tour with that id", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load tour", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": t}, "tour")
}

// Create POST /api/v1/tours (Protect + RestrictTo admin, local-guide)
func (h *TourHandler) Create(c *gin.Context) {
	var req createTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), application.CreateTourInput{
		Name:           req.Name,
		DurationDays:   req.DurationDays,
		MaxGroupSize:   req.MaxGroupSize,
		Difficulty:     req.Difficulty,
		Price:          req.Price,
		Summary:        req.Summary,
		Description:    req.Description,
		ImageCoverURL:  req.ImageCoverURL,
		StartLat:       req.StartLat,
		StartLng:       req.StartLng,
		RatingsAverage: req.RatingsAverage,
	})
	if err != nil {
		var verr *application.ValidationError
		if errors.As(err, &verr) {
			response.Error(c, http.StatusBadRequest, "invalid input", verr.Fields)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("tour create failed")
		}
		response.Error(c, http.StatusInternalServerError, "failed to create tour", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"tour": t}, "tour created")
}

// Search GET /api/v1/tours/search?q=...&size=10
func (h *TourHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("tour search failed")
		}
		response.Error(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": len(hits), "hits": hits}, "search results")
}
