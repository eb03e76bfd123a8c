package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/livecommerce/internal/stream/application"
	"github.com/wyfcoding/livecommerce/internal/stream/domain"
	"github.com/wyfcoding/livecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// Handler 直播 HTTP 接口
type Handler struct {
	cmd    *application.StreamCommandService
	query  *application.StreamQueryService
	tokens *application.TokenService
}

func NewHandler(cmd *application.StreamCommandService, query *application.StreamQueryService, tokens *application.TokenService) *Handler {
	return &Handler{cmd: cmd, query: query, tokens: tokens}
}

// RegisterRoutes 注册路由。信息流与场次详情公开，开播管理与令牌需要会话。
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, sessionAuth gin.HandlerFunc) {
	g := r.Group("/v1")
	g.GET("/feed", h.ListFeed)
	g.GET("/streams/:id", h.GetStream)

	authed := g.Group("", sessionAuth)
	authed.POST("/streams", h.CreateLivestream)
	authed.GET("/streams", h.ListMyStreams)
	authed.POST("/streams/:id/live", h.GoLive)
	authed.POST("/streams/:id/end", h.EndStream)
	authed.POST("/tokens", h.IssueToken)
}

func (h *Handler) ListFeed(c *gin.Context) {
	feed, err := h.query.ListFeed(c.Request.Context())
	if err != nil {
		logging.Error(c.Request.Context(), "failed to compose feed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadGateway, "failed to load feed", "")
		return
	}
	response.Success(c, feed)
}

func (h *Handler) GetStream(c *gin.Context) {
	stream, err := h.query.GetStream(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrStreamNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to get stream", "stream_id", c.Param("id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to get stream", "")
		return
	}
	response.Success(c, stream)
}

type createStreamRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
}

func (h *Handler) CreateLivestream(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	var req createStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	stream, err := h.cmd.CreateLivestream(c.Request.Context(), application.CreateLivestreamCommand{
		HostID:      identity.UserID,
		HostName:    identity.Username,
		Title:       req.Title,
		Description: req.Description,
		Hashtags:    req.Hashtags,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTitle) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to create livestream", "host_id", identity.UserID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to create livestream", "")
		return
	}
	response.Success(c, stream)
}

func (h *Handler) ListMyStreams(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	streams, err := h.query.ListMyStreams(c.Request.Context(), identity.UserID)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to list streams", "host_id", identity.UserID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to list streams", "")
		return
	}
	response.Success(c, streams)
}

func (h *Handler) GoLive(c *gin.Context) {
	h.transition(c, h.cmd.GoLive)
}

func (h *Handler) EndStream(c *gin.Context) {
	h.transition(c, h.cmd.EndStream)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, hostID uint, streamID string) error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	err := op(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStreamNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
		case errors.Is(err, domain.ErrNotHost):
			response.ErrorWithStatus(c, http.StatusForbidden, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "stream transition failed",
				"host_id", identity.UserID, "stream_id", c.Param("id"), "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "stream transition failed", "")
		}
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}

func (h *Handler) IssueToken(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	token, err := h.tokens.IssueToken(fmt.Sprintf("%d", identity.UserID))
	if err != nil {
		logging.Error(c.Request.Context(), "failed to issue token", "user_id", identity.UserID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to issue token", "")
		return
	}
	response.Success(c, gin.H{"token": token})
}
