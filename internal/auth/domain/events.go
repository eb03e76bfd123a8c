package domain

import (
	"context"
	"time"
)

const (
	UserRegisteredEventType = "auth.user.registered"
	UserLoggedInEventType   = "auth.user.loggedin"
)

// UserRegisteredEvent 用户注册事件，商城服务消费后建立卖家投影
type UserRegisteredEvent struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// UserLoggedInEvent 用户登录事件，直播服务消费后同步平台用户
type UserLoggedInEvent struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
