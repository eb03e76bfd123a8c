package application

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingUser 签发令牌必须带用户标识
var ErrMissingUser = errors.New("user id is required")

// TokenService 平台访问令牌签发。令牌是用平台密钥本地签名的 JWT，
// 有效期默认一小时。
type TokenService struct {
	secret   []byte
	validity time.Duration
}

// NewTokenService 创建令牌服务实例
func NewTokenService(secret string, validity time.Duration) *TokenService {
	if validity <= 0 {
		validity = time.Hour
	}
	return &TokenService{secret: []byte(secret), validity: validity}
}

// IssueToken 为平台用户签发 HS256 JWT，user_id 为唯一业务声明
func (s *TokenService) IssueToken(userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUser
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.validity).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
