package leave

import "oasis-hr-gateway/internal/platform/upstream"

const (
	DateLayout = "02/01/2006" // dd/MM/yyyy

	TypeSingle   = "Single"
	TypeMultiple = "Multiple"
)

type CreateLeaveRequest struct {
	LeaveType  string `json:"leave_type" binding:"required"` // Single | Multiple
	StartDate  string `json:"start_date" binding:"required"` // dd/MM/yyyy
	EndDate    string `json:"end_date,omitempty"`            // Multiple のとき必須
	HalfDay    bool   `json:"half_day"`
	CategoryID string `json:"category_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`

	EmpID       string `json:"emp_id" binding:"required"`
	EmpName     string `json:"emp_name"`
	CompanyID   int64  `json:"company_id" binding:"required"`
	CompanyName string `json:"company_name"`
	BranchID    int64  `json:"branch_id" binding:"required"`
	BranchName  string `json:"branch_name"`
}

type CreateLeaveResponse struct {
	Status  string `json:"status"` // accepted
	Message string `json:"message"`
	Nod     string `json:"nod"` // 申請日数（半休は 0.5）
}

type LeaveTypeOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func toOptions(src []upstream.LeaveType) []LeaveTypeOption {
	out := make([]LeaveTypeOption, 0, len(src))
	for _, t := range src {
		out = append(out, LeaveTypeOption{Label: t.Label, Value: t.Value})
	}
	return out
}
