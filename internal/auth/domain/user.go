package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type User struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
}

// NewUser 创建用户，用户名统一小写去空格后存储
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Username:     NormalizeUsername(username),
		Email:        email,
		PasswordHash: passwordHash,
	}
}

// NormalizeUsername 用户名规范化
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
