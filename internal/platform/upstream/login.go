package upstream

import (
	"context"
	"errors"
	"fmt"
)

type loginPayload struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

var ErrAuthFailed = errors.New("authentication failed")

// Login は上流の認証。トークンを含む1要素配列が返らなければ失敗扱い。
func (c *Client) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	var out []LoginResult
	err := c.postJSON(ctx, "/api/Login/Login", loginPayload{UserName: userName, Password: password}, &out, nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return nil, ErrAuthFailed
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if len(out) == 0 || out[0].Token == "" {
		return nil, ErrAuthFailed
	}
	return &out[0], nil
}
