package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"oasis-hr-gateway/internal/platform/upstream"
)

type fakeCatalog struct {
	types []upstream.LeaveType
	err   error
}

func (f *fakeCatalog) LeaveTypesByEmpCode(_ context.Context, _ string) ([]upstream.LeaveType, error) {
	return f.types, f.err
}

type fakeCreator struct {
	err     error
	calls   int
	lastRec upstream.LeaveRequestRecord
}

func (f *fakeCreator) CreateLeaveRequest(_ context.Context, rec upstream.LeaveRequestRecord) error {
	f.calls++
	f.lastRec = rec
	return f.err
}

func newTestService(t *testing.T) (*Service, *fakeCatalog, *fakeCreator) {
	t.Helper()
	catalog := &fakeCatalog{types: []upstream.LeaveType{
		{Label: "Casual Leave", Value: "1"},
		{Label: "Sick Leave", Value: "2"},
	}}
	creator := &fakeCreator{}
	svc := NewService(catalog, creator, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, catalog, creator
}

// 2025-03-10 は月曜。平日のみの範囲として 10〜13 を使う。
func validRequest() CreateLeaveRequest {
	return CreateLeaveRequest{
		LeaveType:  TypeSingle,
		StartDate:  "10/03/2025",
		CategoryID: "1",
		Reason:     "personal work",
		EmpID:      "E1",
		EmpName:    "Asha",
		CompanyID:  1,
		BranchID:   2,
	}
}

func assertInvalid(t *testing.T, err error) {
	t.Helper()
	var de *DomainError
	if !errors.As(err, &de) || de.Code != ErrCodeInvalidArgument {
		t.Fatalf("err = %v, want %s", err, ErrCodeInvalidArgument)
	}
}

func TestCreateSingleDay(t *testing.T) {
	svc, _, creator := newTestService(t)

	res, err := svc.Create(context.Background(), "C100", validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Status != "accepted" || res.Nod != "1" {
		t.Errorf("response = %+v", res)
	}

	rec := creator.lastRec
	if rec.LeaveType != TypeSingle || rec.FromDate != "10/03/2025" || rec.ToDate != "10/03/2025" {
		t.Errorf("record dates = %+v", rec)
	}
	if rec.Nod != "1" || rec.HalfDay != "No" {
		t.Errorf("nod/halfDay = %q / %q", rec.Nod, rec.HalfDay)
	}
	if rec.LeaveCategoryID != "1" || rec.LeaveCategory != "Casual Leave" {
		t.Errorf("category = %q / %q", rec.LeaveCategoryID, rec.LeaveCategory)
	}
	if rec.AppliedOn != "10/03/2025" {
		t.Errorf("appliedOn = %q", rec.AppliedOn)
	}
}

func TestCreateMultipleDaysCountsInclusive(t *testing.T) {
	svc, _, creator := newTestService(t)

	req := validRequest()
	req.LeaveType = TypeMultiple
	req.StartDate = "10/03/2025"
	req.EndDate = "13/03/2025"

	res, err := svc.Create(context.Background(), "C100", req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Nod != "4" {
		t.Errorf("nod = %q, want 4", res.Nod)
	}
	if creator.lastRec.ToDate != "13/03/2025" {
		t.Errorf("toDate = %q", creator.lastRec.ToDate)
	}
}

func TestCreateHalfDay(t *testing.T) {
	svc, _, creator := newTestService(t)

	req := validRequest()
	req.HalfDay = true

	res, err := svc.Create(context.Background(), "C100", req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Nod != "0.5" || creator.lastRec.HalfDay != "Yes" {
		t.Errorf("nod = %q, halfDay = %q", res.Nod, creator.lastRec.HalfDay)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateLeaveRequest)
	}{
		{"unknown leave type", func(r *CreateLeaveRequest) { r.LeaveType = "Sometimes" }},
		{"bad start date format", func(r *CreateLeaveRequest) { r.StartDate = "2025-03-10" }},
		{"multiple without end date", func(r *CreateLeaveRequest) { r.LeaveType = TypeMultiple; r.EndDate = "" }},
		{"end before start", func(r *CreateLeaveRequest) {
			r.LeaveType = TypeMultiple
			r.StartDate = "12/03/2025"
			r.EndDate = "10/03/2025"
		}},
		{"range spans weekend", func(r *CreateLeaveRequest) {
			r.LeaveType = TypeMultiple
			r.StartDate = "14/03/2025" // 金曜
			r.EndDate = "17/03/2025"   // 月曜、土日を跨ぐ
		}},
		{"start on saturday", func(r *CreateLeaveRequest) { r.StartDate = "15/03/2025" }},
		{"half day on multiple", func(r *CreateLeaveRequest) {
			r.LeaveType = TypeMultiple
			r.StartDate = "10/03/2025"
			r.EndDate = "11/03/2025"
			r.HalfDay = true
		}},
		{"unknown category", func(r *CreateLeaveRequest) { r.CategoryID = "99" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, creator := newTestService(t)
			req := validRequest()
			tt.mutate(&req)
			_, err := svc.Create(context.Background(), "C100", req)
			assertInvalid(t, err)
			if creator.calls != 0 {
				t.Error("invalid request must not reach the upstream API")
			}
		})
	}
}

func TestCreateUpstreamFailures(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		svc, _, creator := newTestService(t)
		creator.err = &upstream.StatusError{StatusCode: 500, Body: "no balance"}
		_, err := svc.Create(context.Background(), "C100", validRequest())
		var de *DomainError
		if !errors.As(err, &de) || de.Code != ErrCodeRejected {
			t.Errorf("err = %v, want %s", err, ErrCodeRejected)
		}
	})

	t.Run("transport", func(t *testing.T) {
		svc, _, creator := newTestService(t)
		creator.err = errors.New("connection refused")
		_, err := svc.Create(context.Background(), "C100", validRequest())
		var de *DomainError
		if !errors.As(err, &de) || de.Code != ErrCodeUpstreamUnavailable {
			t.Errorf("err = %v, want %s", err, ErrCodeUpstreamUnavailable)
		}
	})
}

func TestTypes(t *testing.T) {
	svc, catalog, _ := newTestService(t)

	opts, err := svc.Types(context.Background(), "C100")
	if err != nil {
		t.Fatalf("Types: %v", err)
	}
	if len(opts) != 2 || opts[0].Label != "Casual Leave" || opts[1].Value != "2" {
		t.Errorf("options = %+v", opts)
	}

	if _, err := svc.Types(context.Background(), ""); err == nil {
		t.Error("empty emp code must be rejected")
	}

	catalog.err = errors.New("down")
	if _, err := svc.Types(context.Background(), "C100"); err == nil {
		t.Error("catalog failure must surface")
	}
}
