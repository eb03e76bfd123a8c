package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/livecommerce/internal/cart/application"
	"github.com/wyfcoding/livecommerce/internal/cart/domain"
	"github.com/wyfcoding/livecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// Handler 购物车 HTTP 接口，全部路由挂在会话中间件之后
type Handler struct {
	carts *application.CartService
}

func NewHandler(carts *application.CartService) *Handler {
	return &Handler{carts: carts}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, sessionAuth gin.HandlerFunc) {
	g := r.Group("/v1/cart", sessionAuth)
	g.GET("", h.GetCart)
	g.POST("/items", h.AddItem)
	g.POST("/items/:id/decrease", h.DecreaseItem)
	g.DELETE("/items/:id", h.RemoveItem)
}

func (h *Handler) GetCart(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	cart, err := h.carts.GetCart(c.Request.Context(), identity.Token)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to load cart", "user_id", identity.UserID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load cart", "")
		return
	}
	response.Success(c, cartView(cart))
}

func (h *Handler) AddItem(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), identity.Token, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStockLimit), errors.Is(err, domain.ErrOutOfStock):
			// 提示性信号，购物车未变更，连同当前内容一起返回
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "data": cartView(cart)})
		case errors.Is(err, domain.ErrProductUnavailable):
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "failed to add cart item",
				"user_id", identity.UserID, "product_id", req.ProductID, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to add cart item", "")
		}
		return
	}
	response.Success(c, cartView(cart))
}

func (h *Handler) DecreaseItem(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	cart, err := h.carts.DecreaseItem(c.Request.Context(), identity.Token, c.Param("id"))
	if err != nil {
		logging.Error(c.Request.Context(), "failed to decrease cart item",
			"user_id", identity.UserID, "product_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to decrease cart item", "")
		return
	}
	response.Success(c, cartView(cart))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), identity.Token, c.Param("id"))
	if err != nil {
		logging.Error(c.Request.Context(), "failed to remove cart item",
			"user_id", identity.UserID, "product_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to remove cart item", "")
		return
	}
	response.Success(c, cartView(cart))
}

func cartView(cart *domain.Cart) gin.H {
	return gin.H{
		"items": cart.Items,
		"count": cart.Count(),
		"total": cart.Total(),
	}
}
