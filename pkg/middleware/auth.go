package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/response"
)

const identityKey = "auth.identity"

// Identity 已通过会话校验的调用方身份
type Identity struct {
	UserID   uint
	Username string
	Token    string
}

// SessionVerifier 会话校验端口，由各服务在装配时注入
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// SessionVerifierFunc 函数适配器
type SessionVerifierFunc func(ctx context.Context, token string) (*Identity, error)

func (f SessionVerifierFunc) Verify(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

// SessionAuth 校验 Bearer 会话令牌，失败返回 401 并中断请求链
func SessionAuth(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "missing bearer token", "")
			c.Abort()
			return
		}
		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusInternalServerError, "session verification failed", "")
			c.Abort()
			return
		}
		if identity == nil {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid or expired session", "")
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom 读取中间件注入的身份信息
func IdentityFrom(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok
}

// BearerToken 提取 Authorization 头中的 Bearer 令牌
func BearerToken(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}
