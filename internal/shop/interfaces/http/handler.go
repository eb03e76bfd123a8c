package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/livecommerce/internal/shop/application"
	"github.com/wyfcoding/livecommerce/internal/shop/domain"
	"github.com/wyfcoding/livecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// Handler 商城 HTTP 接口
type Handler struct {
	cmd   *application.ShopCommandService
	query *application.ShopQueryService
}

func NewHandler(cmd *application.ShopCommandService, query *application.ShopQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// RegisterRoutes 注册路由。卖家管理路由需要会话中间件，公开店铺页不需要。
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, sessionAuth gin.HandlerFunc) {
	g := r.Group("/v1/shop")
	g.GET("/shops/:username", h.GetShop)

	authed := g.Group("", sessionAuth)
	authed.POST("/products", h.AddProduct)
	authed.GET("/products", h.ListProducts)
	authed.GET("/products/:id", h.GetProduct)
	authed.PUT("/products/:id", h.UpdateProduct)
	authed.DELETE("/products/:id", h.DeleteProduct)
}

type addProductRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
}

func (h *Handler) AddProduct(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	id, err := h.cmd.AddProduct(c.Request.Context(), application.AddProductCommand{
		SellerID: identity.UserID,
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
	})
	if err != nil {
		if isValidationErr(err) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to add product", "seller_id", identity.UserID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to add product", "")
		return
	}
	response.Success(c, gin.H{"id": id})
}

type updateProductRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Stock *int64           `json:"stock"`
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	err := h.cmd.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		SellerID:  identity.UserID,
		ProductID: c.Param("id"),
		Patch: domain.ProductPatch{
			Name:  req.Name,
			Price: req.Price,
			Stock: req.Stock,
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		if isValidationErr(err) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to update product",
			"seller_id", identity.UserID, "product_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to update product", "")
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	err := h.cmd.DeleteProduct(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to delete product",
			"seller_id", identity.UserID, "product_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to delete product", "")
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}

func (h *Handler) ListProducts(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	products, err := h.query.ListProducts(c.Request.Context(), identity.UserID)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to list products", "seller_id", identity.UserID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to list products", "")
		return
	}
	response.Success(c, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	product, err := h.query.GetProduct(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to get product",
			"seller_id", identity.UserID, "product_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to get product", "")
		return
	}
	response.Success(c, product)
}

// GetShop 店铺公开页，按用户名返回卖家商品列表
func (h *Handler) GetShop(c *gin.Context) {
	view, err := h.query.GetShopByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, domain.ErrSellerNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to load shop", "username", c.Param("username"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load shop", "")
		return
	}
	response.Success(c, view)
}

func isValidationErr(err error) bool {
	return errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidStock)
}
