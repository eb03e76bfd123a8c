package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/wyfcoding/livecommerce/internal/cart/domain"
)

const cartKeyPrefix = "shop:cart:"

// cartRepository 基于 Redis 的会话购物车存储，TTL 与会话同寿命
type cartRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewCartRepository 创建购物车存储实例
func NewCartRepository(client goredis.UniversalClient, ttl time.Duration) domain.CartRepository {
	return &cartRepository{client: client, ttl: ttl}
}

func (r *cartRepository) Get(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKeyPrefix+sessionToken).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, sessionToken string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return r.client.Set(ctx, cartKeyPrefix+sessionToken, data, r.ttl).Err()
}

func (r *cartRepository) Delete(ctx context.Context, sessionToken string) error {
	return r.client.Del(ctx, cartKeyPrefix+sessionToken).Err()
}
