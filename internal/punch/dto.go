package punch

import "time"

const (
	DateLayout     = "02/01/2006"       // dd/MM/yyyy（en-GB相当）
	DateTimeLayout = "02/01/2006 15:04" // 打刻時刻は24時間表記

	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// PermissionReport は端末側の権限取得結果。セッション作成時に必須。
type PermissionReport struct {
	LocationGranted         bool `json:"location_granted"`
	CameraGranted           bool `json:"camera_granted"`
	LocationServicesEnabled bool `json:"location_services_enabled"`
}

type CreateSessionRequest struct {
	EmpID       string           `json:"emp_id" binding:"required"`
	UserID      string           `json:"user_id"`
	CompanyID   int64            `json:"company_id" binding:"required"`
	BranchID    int64            `json:"branch_id" binding:"required"`
	Permissions PermissionReport `json:"permissions"`
}

// CaptureRequest: 端末がカメラ起動の結果を報告する。
// キャンセル時は何も送らない（セッションは前の段のまま）。
// ハードウェア障害は failed=true で報告し、致命扱いにはしない。
type CaptureRequest struct {
	ImageRef string `json:"image_ref"`
	Failed   bool   `json:"failed,omitempty"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type NoticeDTO struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// SessionView は画面が描画する全状態のスナップショット。
type SessionView struct {
	SessionID   string     `json:"session_id"`
	Phase       Phase      `json:"phase"`
	EmpID       string     `json:"emp_id"`
	CompanyName string     `json:"company_name"`
	BranchName  string     `json:"branch_name"`
	EmpName     string     `json:"emp_name"`
	EmpCode     string     `json:"emp_code"`
	Date        string     `json:"date"` // dd/MM/yyyy
	Time        string     `json:"time"` // HH:mm
	CaptureRef  string     `json:"capture_ref,omitempty"`
	Location    string     `json:"location,omitempty"`
	FullAddress string     `json:"full_address,omitempty"`
	Remarks     string     `json:"remarks,omitempty"`
	CanSubmit   bool       `json:"can_submit"`
	Notice      *NoticeDTO `json:"notice,omitempty"`
}

func (w *Workflow) toView() SessionView {
	v := SessionView{
		SessionID:   w.ID,
		Phase:       w.Phase,
		EmpID:       w.Ctx.EmpID,
		CompanyName: w.Profile.CompanyName,
		BranchName:  w.Profile.BranchName,
		EmpName:     w.Profile.EmpName,
		EmpCode:     w.Profile.EmpCode,
		Date:        w.Date.Format(DateLayout),
		Time:        w.Time.Format("15:04"),
		CaptureRef:  w.CaptureRef,
		Location:    w.Location,
		FullAddress: w.FullAddress,
		Remarks:     w.Remarks,
		CanSubmit:   w.CanSubmit(),
	}
	if w.Notice != nil {
		v.Notice = &NoticeDTO{Code: w.Notice.Code, Message: w.Notice.Message}
	}
	return v
}

// SubmitResponse は送信結果。成功時は画面を離れてよい合図になる。
type SubmitResponse struct {
	SessionID string `json:"session_id"`
	IntentID  string `json:"intent_id"`
	Status    string `json:"status"` // accepted
	Message   string `json:"message"`
}

// ===== 打刻試行ジャーナル（管理用） =====

type AttemptResponse struct {
	IntentID       string    `json:"intent_id"`
	SessionID      string    `json:"session_id"`
	EmpID          string    `json:"emp_id"`
	CompanyID      int64     `json:"company_id"`
	BranchID       int64     `json:"branch_id"`
	Location       string    `json:"location"`
	Remarks        string    `json:"remarks,omitempty"`
	Outcome        string    `json:"outcome"`
	UpstreamStatus int       `json:"upstream_status,omitempty"`
	AttemptedAt    time.Time `json:"attempted_at"`
}

type AttemptListQuery struct {
	EmpID   *string
	Outcome *string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}
