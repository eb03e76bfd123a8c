package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wyfcoding/livecommerce/internal/stream/domain"
)

// Config 托管平台接入配置
type Config struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// Client 托管音视频/聊天平台的 REST 适配器。
// 服务端请求用平台密钥签名的 JWT 鉴权。
type Client struct {
	http   *resty.Client
	secret []byte
}

// NewClient 创建平台客户端
func NewClient(cfg Config) (*Client, error) {
	serverToken, err := signServerToken([]byte(cfg.APISecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign server token: %w", err)
	}
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10*time.Second).
		SetQueryParam("api_key", cfg.APIKey).
		SetHeader("stream-auth-type", "jwt").
		SetHeader("Authorization", serverToken)
	return &Client{http: http, secret: []byte(cfg.APISecret)}, nil
}

func signServerToken(secret []byte) (string, error) {
	claims := jwt.MapClaims{"server": true, "iat": time.Now().Unix()}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

type callEnvelope struct {
	Call callPayload `json:"call"`
}

type callPayload struct {
	ID        string         `json:"id"`
	Custom    map[string]any `json:"custom"`
	CreatedBy struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"created_by"`
	StartsAt time.Time `json:"starts_at"`
}

func (c *Client) GetOrCreateCall(ctx context.Context, spec domain.CallSpec) error {
	body := map[string]any{
		"data": map[string]any{
			"custom": map[string]any{
				"title":       spec.Title,
				"description": spec.Description,
				"hashtags":    spec.Hashtags,
			},
			"members": []map[string]any{
				{"user_id": spec.HostID, "role": "host"},
			},
		},
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).
		Post("/video/call/livestream/" + spec.ID)
	return wrap("get or create call", resp, err)
}

func (c *Client) CreateChannel(ctx context.Context, channelID string, name string, creatorID string) error {
	body := map[string]any{
		"data": map[string]any{
			"name":          name,
			"members":       []string{creatorID},
			"created_by_id": creatorID,
		},
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).
		Post("/channels/livestream/" + channelID)
	return wrap("create channel", resp, err)
}

func (c *Client) GoLive(ctx context.Context, callID string) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(map[string]any{}).
		Post("/video/call/livestream/" + callID + "/go_live")
	return wrap("go live", resp, err)
}

func (c *Client) EndCall(ctx context.Context, callID string) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(map[string]any{}).
		Post("/video/call/livestream/" + callID + "/mark_ended")
	return wrap("end call", resp, err)
}

func (c *Client) QueryLiveCalls(ctx context.Context, limit int) ([]domain.PlatformCall, error) {
	body := map[string]any{
		"sort": []map[string]any{{"field": "starts_at", "direction": -1}},
		"filter_conditions": map[string]any{
			"type":      "livestream",
			"backstage": false,
			"ended_at":  map[string]any{"$exists": false},
		},
		"limit": limit,
	}
	var result struct {
		Calls []callEnvelope `json:"calls"`
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&result).
		Post("/video/calls")
	if err := wrap("query live calls", resp, err); err != nil {
		return nil, err
	}
	calls := make([]domain.PlatformCall, 0, len(result.Calls))
	for _, envelope := range result.Calls {
		calls = append(calls, toPlatformCall(envelope.Call))
	}
	return calls, nil
}

func (c *Client) UpsertUser(ctx context.Context, id string, name string, image string) error {
	body := map[string]any{
		"users": map[string]any{
			id: map[string]any{"id": id, "name": name, "image": image},
		},
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post("/users")
	return wrap("upsert user", resp, err)
}

func toPlatformCall(payload callPayload) domain.PlatformCall {
	call := domain.PlatformCall{
		ID:       payload.ID,
		HostID:   payload.CreatedBy.ID,
		HostName: payload.CreatedBy.Name,
		StartsAt: payload.StartsAt,
	}
	if title, ok := payload.Custom["title"].(string); ok {
		call.Title = title
	}
	if description, ok := payload.Custom["description"].(string); ok {
		call.Description = description
	}
	if raw, ok := payload.Custom["hashtags"].([]any); ok {
		for _, tag := range raw {
			if s, ok := tag.(string); ok {
				call.Hashtags = append(call.Hashtags, s)
			}
		}
	}
	return call
}

func wrap(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("platform %s: %w", op, err)
	}
	if resp.IsError() {
		return fmt.Errorf("platform %s: status %d: %s", op, resp.StatusCode(), resp.String())
	}
	return nil
}
