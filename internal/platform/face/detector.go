package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client は顔検出サービスへのクライアント。
// 在席チェック用途なので精度より速度の fast モード固定。
type Client struct {
	baseURL string
	hc      *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "face").Logger(),
	}
}

type detectRequest struct {
	Image string `json:"image"`
	Mode  string `json:"mode"`
}

type detectResponse struct {
	Faces []json.RawMessage `json:"faces"`
}

// Detect は画像参照に対する検出数を返す。呼び出し側は 0 か 1以上 しか見ない。
func (c *Client) Detect(ctx context.Context, imageRef string) (int, error) {
	body, err := json.Marshal(detectRequest{Image: imageRef, Mode: "fast"})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("face detection failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("face detection status %d", resp.StatusCode)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("face detection decode: %w", err)
	}

	c.log.Debug().Int("faces", len(out.Faces)).Msg("face detection done")
	return len(out.Faces), nil
}
