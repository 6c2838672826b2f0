package upstream

import (
	"context"
	"fmt"
)

// CreateAttendance は打刻1件を登録する。成功は HTTP 200 のみ。
// intentID は Ready 到達時に採番した ULID。二重送信の上流側重複排除に使う。
func (c *Client) CreateAttendance(ctx context.Context, intentID string, rec PunchRecord) error {
	headers := map[string]string{"Idempotency-Key": intentID}
	if err := c.postJSON(ctx, "/api/Attendance/Create_MA", rec, nil, headers); err != nil {
		return fmt.Errorf("attendance create failed: %w", err)
	}
	return nil
}
