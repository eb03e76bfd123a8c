package domain

const (
	FeedItemTypeCall = "call"
	FeedItemTypeAd   = "ad"
)

// Ad 赞助位内容，随服务配置下发
type Ad struct {
	ID          string `json:"id" mapstructure:"id"`
	BrandName   string `json:"brand_name" mapstructure:"brand_name"`
	CTALabel    string `json:"cta_label" mapstructure:"cta_label"`
	Description string `json:"description" mapstructure:"description"`
	ShopURL     string `json:"shop_url" mapstructure:"shop_url"`
	Color       string `json:"color" mapstructure:"color"`
}

// FeedItem 信息流条目，Type 区分直播与广告
type FeedItem struct {
	Type string        `json:"type"`
	Call *PlatformCall `json:"call,omitempty"`
	Ad   *Ad           `json:"ad,omitempty"`
}

// ComposeFeed 组装信息流：有直播时广告插在第 2 位，
// 没有任何直播时信息流只含广告。不做其它排序或分页。
func ComposeFeed(calls []PlatformCall, ad Ad) []FeedItem {
	if len(calls) == 0 {
		return []FeedItem{{Type: FeedItemTypeAd, Ad: &ad}}
	}
	feed := make([]FeedItem, 0, len(calls)+1)
	for i := range calls {
		feed = append(feed, FeedItem{Type: FeedItemTypeCall, Call: &calls[i]})
	}
	spliced := make([]FeedItem, 0, len(feed)+1)
	spliced = append(spliced, feed[0], FeedItem{Type: FeedItemTypeAd, Ad: &ad})
	spliced = append(spliced, feed[1:]...)
	return spliced
}
