package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"
)

// Address は逆ジオコーディング結果のうち、打刻で使う構成要素。
type Address struct {
	Street  string
	City    string
	Region  string
	Country string
}

// Client は Nominatim 互換の reverse エンドポイントを叩く。
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "geocoder").Logger(),
	}
}

type reverseResponse struct {
	Address struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// Reverse は座標1点を住所へ解決する。
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Address, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.7f", lat))
	q.Set("lon", fmt.Sprintf("%.7f", lng))
	q.Set("format", "jsonv2")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Address{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("reverse geocode failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Address{}, fmt.Errorf("reverse geocode status %d", resp.StatusCode)
	}

	var out reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Address{}, fmt.Errorf("reverse geocode decode: %w", err)
	}

	city := out.Address.City
	if city == "" {
		city = out.Address.Town
	}
	if city == "" {
		city = out.Address.Village
	}

	addr := Address{
		Street:  clean(out.Address.Road),
		City:    clean(city),
		Region:  clean(out.Address.State),
		Country: clean(out.Address.Country),
	}
	c.log.Debug().
		Float64("lat", lat).Float64("lng", lng).
		Str("city", addr.City).Str("country", addr.Country).
		Msg("reverse geocoded")
	return addr, nil
}

// ジオコーダは合成文字の揺れがあるので NFC に正規化して返す
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
