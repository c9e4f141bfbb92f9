package booking

import (
	"errors"
	"net/http"
	"strconv"

	"consulthub/internal/domain"
	"consulthub/internal/middleware"
	"consulthub/internal/pkg/response"
	"consulthub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", middleware.RequireRole(string(domain.RoleCustomer)), h.Create)
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
		bookings.PATCH("/:id/status", h.UpdateStatus)
		bookings.DELETE("/:id", middleware.RequireRole(string(domain.RoleCustomer)), h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if details := validator.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := c.Query("status")
	sortAsc := c.DefaultQuery("sort", "desc") == "asc"

	rows, meta, err := h.service.ListBookings(c.Request.Context(), userID(c), status, page, limit, sortAsc)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"bookings": rows,
		"meta":     meta,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id, userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	role := domain.UserRole(c.GetString("role"))
	next := domain.BookingStatus(req.Status)

	b, err := h.service.UpdateStatus(c.Request.Context(), id, userID(c), role, next)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), id, userID(c)); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var transition *domain.InvalidTransitionError

	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Operation not allowed for this role")
	case errors.As(err, &transition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", transition.Error())
	case errors.Is(err, domain.ErrInvalidOperation):
		response.Error(c, http.StatusConflict, "INVALID_OPERATION", "Booking cannot be modified in its current state")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func userID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
