package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrOutOfStock 商品无库存，不能加入购物车
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrStockLimit 数量已达快照库存上限，购物车保持不变
	ErrStockLimit = errors.New("stock limit reached")
	// ErrProductUnavailable 商品不存在或已下架
	ErrProductUnavailable = errors.New("product unavailable")
)

// ProductSnapshot 加入购物车时的商品快照，之后商品变更不回写
type ProductSnapshot struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
}

// CartItem 购物车条目
type CartItem struct {
	ProductSnapshot
	Quantity int64 `json:"quantity"`
}

// Cart 会话购物车。条目保持加入顺序，任何操作都不重排。
type Cart struct {
	Items []CartItem `json:"items"`
}

func NewCart() *Cart {
	return &Cart{Items: []CartItem{}}
}

// Add 加入商品或数量加一。数量已达快照库存返回 ErrStockLimit，
// 无库存的新商品返回 ErrOutOfStock，两种情况购物车都不变。
func (c *Cart) Add(product ProductSnapshot) error {
	for i := range c.Items {
		if c.Items[i].ID == product.ID {
			if c.Items[i].Quantity == c.Items[i].Stock {
				return ErrStockLimit
			}
			c.Items[i].Quantity++
			return nil
		}
	}
	if product.Stock == 0 {
		return ErrOutOfStock
	}
	c.Items = append(c.Items, CartItem{ProductSnapshot: product, Quantity: 1})
	return nil
}

// Decrease 数量减一，数量为 1 时不再减少
func (c *Cart) Decrease(productID string) {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			if c.Items[i].Quantity > 1 {
				c.Items[i].Quantity--
			}
			return
		}
	}
}

// Remove 移除条目，不存在时无事发生
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Count 商品总件数
func (c *Cart) Count() int64 {
	var count int64
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Total 按快照价格计算的合计金额
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}
