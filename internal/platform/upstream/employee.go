package upstream

import (
	"context"
	"fmt"
	"net/url"
)

// EmployeeEditRecord は社員マスタの1件取得。
func (c *Client) EmployeeEditRecord(ctx context.Context, companyID, branchID int64, empID string) (*EmployeeRecord, error) {
	path := fmt.Sprintf("/api/Employee/EditRecord?CompanyID=%d&BranchID=%d&EmpID=%s",
		companyID, branchID, url.QueryEscape(empID))

	var rec EmployeeRecord
	if err := c.getJSON(ctx, path, &rec); err != nil {
		return nil, fmt.Errorf("employee lookup failed: %w", err)
	}
	return &rec, nil
}
