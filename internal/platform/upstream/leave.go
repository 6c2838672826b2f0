package upstream

import (
	"context"
	"fmt"
	"net/url"
)

// LeaveTypesByEmpCode は社員コードに紐づく休暇区分の一覧。
func (c *Client) LeaveTypesByEmpCode(ctx context.Context, empCode string) ([]LeaveType, error) {
	path := "/api/Dropdown/ddlLeaveTypes_ByEmpCode?EmpCode=" + url.QueryEscape(empCode)

	var out []LeaveType
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("leave types lookup failed: %w", err)
	}
	return out, nil
}

// CreateLeaveRequest は休暇申請1件を登録する。成功は HTTP 200 のみ。
func (c *Client) CreateLeaveRequest(ctx context.Context, rec LeaveRequestRecord) error {
	if err := c.postJSON(ctx, "/api/LeaveRequest/Create", rec, nil, nil); err != nil {
		return fmt.Errorf("leave request create failed: %w", err)
	}
	return nil
}
