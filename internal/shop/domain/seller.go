package domain

import "time"

// Seller 卖家读模型，由认证服务的注册事件投影而来，
// 用于把店铺页的用户名解析为卖家 ID。
type Seller struct {
	UserID    uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	Username  string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Seller) TableName() string { return "sellers" }
