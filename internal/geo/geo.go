// Package geo 通过外部 HTTP 服务把 IP 解析为地理位置，尽力而为。
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint ip-api.com 免费接口
const DefaultEndpoint = "http://ip-api.com/json"

// Location 解析结果
type Location struct {
	Country   string  `json:"country"`
	City      string  `json:"city"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Locator 查询失败时返回 false，不返回错误
type Locator interface {
	Lookup(ctx context.Context, ip string) (Location, bool)
}

// Nop 关闭地理位置解析时使用
type Nop struct{}

func (Nop) Lookup(context.Context, string) (Location, bool) { return Location{}, false }

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Country string  `json:"country"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPAPIClient ip-api.com 风格接口的客户端
type IPAPIClient struct {
	endpoint string
	client   *http.Client
	logger   *zap.SugaredLogger
}

// NewIPAPIClient timeout 是单次查询的上限
func NewIPAPIClient(endpoint string, timeout time.Duration, logger *zap.SugaredLogger) *IPAPIClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &IPAPIClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("geo"),
	}
}

// Lookup 实现 Locator
func (c *IPAPIClient) Lookup(ctx context.Context, ip string) (Location, bool) {
	if !Routable(ip) {
		return Location{}, false
	}

	loc, err := c.fetch(ctx, ip)
	if err != nil {
		c.logger.Warnf("IP %s 地理位置查询失败: %v", ip, err)
		return Location{}, false
	}
	return loc, true
}

func (c *IPAPIClient) fetch(ctx context.Context, ip string) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+url.PathEscape(ip), nil)
	if err != nil {
		return Location{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("decode response: %w", err)
	}
	if body.Status != "" && body.Status != "success" {
		return Location{}, fmt.Errorf("lookup status %q: %s", body.Status, body.Message)
	}
	if body.Country == "" {
		return Location{}, fmt.Errorf("empty country")
	}

	return Location{Country: body.Country, City: body.City, Latitude: body.Lat, Longitude: body.Lon}, nil
}

// Routable 只有公网 IP 才值得查询
func Routable(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return false
	}
	return !(parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() ||
		parsed.IsLinkLocalUnicast() || parsed.IsMulticast())
}
