package leave

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"oasis-hr-gateway/internal/platform/upstream"
)

// 休暇申請は打刻と同じ送信パターンの簡易版。バリデーションして
// 上流へ1回POSTし、200のみ成功、失敗時はフォーム状態を保てるよう
// エラーをそのまま返す。

type TypeCatalog interface {
	LeaveTypesByEmpCode(ctx context.Context, empCode string) ([]upstream.LeaveType, error)
}

type RequestCreator interface {
	CreateLeaveRequest(ctx context.Context, rec upstream.LeaveRequestRecord) error
}

type Service struct {
	catalog TypeCatalog
	creator RequestCreator
	now     func() time.Time
	log     zerolog.Logger
}

func NewService(catalog TypeCatalog, creator RequestCreator, log zerolog.Logger) *Service {
	return &Service{
		catalog: catalog,
		creator: creator,
		now:     time.Now,
		log:     log.With().Str("component", "leave").Logger(),
	}
}

// Types は休暇区分ドロップダウンの選択肢。
func (s *Service) Types(ctx context.Context, empCode string) ([]LeaveTypeOption, error) {
	if empCode == "" {
		return nil, NewInvalidArgumentError("emp_code is required")
	}
	types, err := s.catalog.LeaveTypesByEmpCode(ctx, empCode)
	if err != nil {
		return nil, NewUpstreamUnavailableError("failed to fetch leave types")
	}
	return toOptions(types), nil
}

func (s *Service) Create(ctx context.Context, empCode string, req CreateLeaveRequest) (CreateLeaveResponse, error) {
	if req.LeaveType != TypeSingle && req.LeaveType != TypeMultiple {
		return CreateLeaveResponse{}, NewInvalidArgumentError("leave_type must be Single or Multiple")
	}

	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return CreateLeaveResponse{}, NewInvalidArgumentError("start_date must be dd/MM/yyyy")
	}
	end := start
	if req.LeaveType == TypeMultiple {
		if req.EndDate == "" {
			return CreateLeaveResponse{}, NewInvalidArgumentError("end_date is required for Multiple")
		}
		end, err = time.Parse(DateLayout, req.EndDate)
		if err != nil {
			return CreateLeaveResponse{}, NewInvalidArgumentError("end_date must be dd/MM/yyyy")
		}
		if end.Before(start) {
			return CreateLeaveResponse{}, NewInvalidArgumentError("end_date must be >= start_date")
		}
	}

	// 土日を含む申請は受け付けない
	if containsWeekend(start, end) {
		return CreateLeaveResponse{}, NewInvalidArgumentError("cannot submit leave request with weekends included")
	}

	if req.HalfDay && req.LeaveType == TypeMultiple {
		return CreateLeaveResponse{}, NewInvalidArgumentError("half day applies to single-day leave only")
	}

	// 区分ラベルはドロップダウンと同じ出どころから引く
	types, err := s.catalog.LeaveTypesByEmpCode(ctx, empCode)
	if err != nil {
		return CreateLeaveResponse{}, NewUpstreamUnavailableError("failed to fetch leave types")
	}
	category := ""
	for _, t := range types {
		if t.Value == req.CategoryID {
			category = t.Label
			break
		}
	}
	if category == "" {
		return CreateLeaveResponse{}, NewInvalidArgumentError("unknown leave category")
	}

	nod := countDays(start, end)
	if req.HalfDay {
		nod = "0.5"
	}
	halfDay := "No"
	if req.HalfDay {
		halfDay = "Yes"
	}

	rec := upstream.LeaveRequestRecord{
		LeaveType:       req.LeaveType,
		FromDate:        start.Format(DateLayout),
		ToDate:          end.Format(DateLayout),
		Nod:             nod,
		HalfDay:         halfDay,
		LeaveCategoryID: req.CategoryID,
		LeaveCategory:   category,
		Reason:          req.Reason,
		AppliedOn:       s.now().Format(DateLayout),
		EmpID:           req.EmpID,
		EmpName:         req.EmpName,
		BranchID:        req.BranchID,
		BranchName:      req.BranchName,
		CompanyID:       req.CompanyID,
		CompanyName:     req.CompanyName,
	}

	if err := s.creator.CreateLeaveRequest(ctx, rec); err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) {
			s.log.Warn().Int("status", se.StatusCode).Str("emp_id", req.EmpID).Msg("leave request rejected")
			return CreateLeaveResponse{}, NewRejectedError("failed to submit leave request")
		}
		s.log.Warn().Err(err).Str("emp_id", req.EmpID).Msg("leave request transport error")
		return CreateLeaveResponse{}, NewUpstreamUnavailableError("an error occurred while submitting the leave request")
	}

	s.log.Info().Str("emp_id", req.EmpID).Str("nod", nod).Msg("leave request submitted")
	return CreateLeaveResponse{
		Status:  "accepted",
		Message: "leave request submitted successfully",
		Nod:     nod,
	}, nil
}

func containsWeekend(start, end time.Time) bool {
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}
	return false
}

// 両端を含む日数
func countDays(start, end time.Time) string {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return strconv.Itoa(days)
}
