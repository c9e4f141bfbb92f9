package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"consulthub/internal/domain"
	"consulthub/internal/middleware"
	"consulthub/internal/paystack"
	"consulthub/internal/pkg/response"
	"consulthub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "X-Paystack-Signature"

type Handler struct {
	service *Service
	gateway gateway
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, gw gateway, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{
		service: service,
		gateway: gw,
		loggerf: loggerf,
	}
}

// RegisterRoutes mounts authenticated payment endpoints on rg and the
// unauthenticated webhook on root.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, root *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/initialize", middleware.RequireRole(string(domain.RoleCustomer)), h.Initialize)
		payments.GET("/verify/:reference", h.Verify)
		payments.GET("/:reference", h.Get)
		payments.GET("", h.List)
	}

	root.POST("/payments/webhook", h.Webhook)
}

func (h *Handler) Initialize(c *gin.Context) {
	var req InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if details := validator.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	res, err := h.service.InitializePayment(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) Verify(c *gin.Context) {
	p, err := h.service.VerifyPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

func (h *Handler) Get(c *gin.Context) {
	role := domain.UserRole(c.GetString("role"))

	p, err := h.service.GetPayment(c.Request.Context(), c.Param("reference"), c.GetInt64("user_id"), role)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	role := domain.UserRole(c.GetString("role"))

	rows, meta, err := h.service.ListUserPayments(c.Request.Context(), c.GetInt64("user_id"), role, page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"payments": rows,
		"meta":     meta,
	})
}

// Webhook authenticates the gateway by HMAC signature over the raw
// body. Bad signatures get 400; everything after a valid signature
// returns 200 so the gateway stops redelivering, with failures only
// logged.
func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Cannot read request body")
		return
	}

	sig := c.GetHeader(signatureHeader)
	if sig == "" || !h.gateway.VerifyWebhookSignature(sig, body) {
		response.Error(c, http.StatusBadRequest, "SIGNATURE_INVALID", "Webhook signature verification failed")
		return
	}

	ev, err := paystack.ParseEvent(body)
	if err != nil {
		h.loggerf("level=warn msg=unparseable webhook body err=%v", err)
		response.Success(c, http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.service.HandleGatewayEvent(c.Request.Context(), ev); err != nil {
		h.loggerf("level=error msg=webhook processing failed reference=%s err=%v", ev.Reference, err)
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found or not payable")
	case errors.Is(err, ErrPaymentNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, domain.ErrDuplicatePayment):
		response.Error(c, http.StatusConflict, "DUPLICATE_PAYMENT", "Booking already has an active payment")
	case errors.Is(err, domain.ErrDuplicateReference):
		response.Error(c, http.StatusConflict, "DUPLICATE_REFERENCE", "Transaction reference already exists")
	case errors.Is(err, ErrGatewayUnavailable):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
