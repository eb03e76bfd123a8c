package domain

import (
	"errors"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

var (
	ErrStreamNotFound = errors.New("stream not found")
	ErrNotHost        = errors.New("only the host can manage this stream")
	ErrInvalidTitle   = errors.New("title is required")
)

// Livestream 直播场次记录。ID 即平台通话与聊天频道共用的 slug。
type Livestream struct {
	ID          string     `gorm:"column:id;type:varchar(128);primaryKey" json:"id"`
	HostID      uint       `gorm:"column:host_id;index;not null" json:"host_id"`
	HostName    string     `gorm:"column:host_name;type:varchar(255);not null" json:"host_name"`
	Title       string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Hashtags    []string   `gorm:"column:hashtags;serializer:json;type:json" json:"hashtags"`
	Live        bool       `gorm:"column:live;not null;default:false" json:"live"`
	EndedAt     *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Livestream) TableName() string { return "livestreams" }

// GenerateSlug 由标题生成场次 slug：小写、去特殊字符、空白换连字符，
// 末尾追加 4 个随机小写字母避免撞名。
func GenerateSlug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")

	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = byte('a' + rand.Intn(26))
	}
	return slug + "-" + string(suffix)
}
