package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/livecommerce/internal/checkout/application"
	"github.com/wyfcoding/livecommerce/internal/checkout/domain"
	"github.com/wyfcoding/livecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// Handler 结算 HTTP 接口
type Handler struct {
	checkout *application.CheckoutService
}

func NewHandler(checkout *application.CheckoutService) *Handler {
	return &Handler{checkout: checkout}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, sessionAuth gin.HandlerFunc) {
	g := r.Group("/v1/checkout", sessionAuth)
	g.POST("", h.Checkout)
	g.GET("/receipts/:key", h.GetReceipt)
}

func (h *Handler) Checkout(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	var req struct {
		IdempotencyKey string `json:"idempotency_key"`
	}
	// 请求体可为空，幂等键可选
	_ = c.ShouldBindJSON(&req)

	receipt, err := h.checkout.Checkout(c.Request.Context(), application.CheckoutCommand{
		SessionToken:   identity.Token,
		UserID:         identity.UserID,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, domain.ErrCheckoutInFlight):
			response.ErrorWithStatus(c, http.StatusTooManyRequests, err.Error(), "")
		case errors.Is(err, domain.ErrDuplicateCheckout):
			response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
		case errors.Is(err, domain.ErrProductNotFound):
			response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "checkout failed", "user_id", identity.UserID, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "checkout failed", "")
		}
		return
	}
	response.Success(c, receipt)
}

func (h *Handler) GetReceipt(c *gin.Context) {
	receipt, err := h.checkout.GetReceipt(c.Request.Context(), c.Param("key"))
	if err != nil {
		logging.Error(c.Request.Context(), "failed to load receipt", "key", c.Param("key"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load receipt", "")
		return
	}
	if receipt == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "receipt not found", "")
		return
	}
	response.Success(c, receipt)
}
