package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/1010nishant/BookMyTrip/internal/application"
	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/pkg/response"
)

const defaultSearchSize = 10

var errMissingNameOrPrice = apperror.Validation("Missing name or price")

type TourHandler struct {
	Svc *application.TourService
}

func NewTourHandler(svc *application.TourService) *TourHandler {
	return &TourHandler{Svc: svc}
}

// List GET /api/v1/tours
func (h *TourHandler) List(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, "tours", docs)
}

// TopCheap GET /api/v1/tours/top-5-cheap
func (h *TourHandler) TopCheap(c *gin.Context) {
	docs, err := h.Svc.TopCheap(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, "tours", docs)
}

// Get GET /api/v1/tours/:id
func (h *TourHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": t.Document()})
}

// Create POST /api/v1/tours
func (h *TourHandler) Create(c *gin.Context) {
	var in entity.TourInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	if strings.TrimSpace(in.Name) == "" || in.Price == 0 {
		fail(c, errMissingNameOrPrice)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"tour": t.Document()})
}

// Update PATCH /api/v1/tours/:id
func (h *TourHandler) Update(c *gin.Context) {
	var p entity.TourPatch
	if err := bindJSON(c, &p); err != nil {
		fail(c, err)
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": t.Document()})
}

// Delete DELETE /api/v1/tours/:id
func (h *TourHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.NoContent(c)
}

// Stats GET /api/v1/tours/tour-stats
func (h *TourHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// MonthlyPlan GET /api/v1/tours/monthly-plan/:year
func (h *TourHandler) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		fail(c, apperror.Validation("Invalid year: "+c.Param("year")))
		return
	}
	plan, err := h.Svc.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// Search GET /api/v1/tours/search?q=&size=
func (h *TourHandler) Search(c *gin.Context) {
	size := defaultSearchSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fail(c, apperror.Validation("size must be a positive integer"))
			return
		}
		size = n
	}
	tours, err := h.Svc.SearchTours(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, err)
		return
	}
	docs := make([]map[string]any, 0, len(tours))
	for _, t := range tours {
		docs = append(docs, t.Document())
	}
	response.List(c, "tours", docs)
}
