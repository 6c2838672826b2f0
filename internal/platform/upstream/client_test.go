package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, zerolog.Nop())
}

func TestEmployeeEditRecord(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"first_Name":"Asha","last_Name":"K","empCode":"C100","companyName":"Oasis India","branchName":"Pune"}`))
	})

	rec, err := c.EmployeeEditRecord(context.Background(), 1, 2, "E 1")
	if err != nil {
		t.Fatalf("EmployeeEditRecord: %v", err)
	}
	if gotPath != "/api/Employee/EditRecord" {
		t.Errorf("path = %s", gotPath)
	}
	if gotQuery != "CompanyID=1&BranchID=2&EmpID=E+1" {
		t.Errorf("query = %s", gotQuery)
	}
	if rec.FirstName != "Asha" || rec.EmpCode != "C100" || rec.CompanyName != "Oasis India" {
		t.Errorf("record = %+v", rec)
	}
}

func TestCreateAttendance(t *testing.T) {
	var gotKey, gotContentType string
	var gotBody PunchRecord
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})

	rec := PunchRecord{
		AttDate:   "14/03/2025",
		PunchTime: "14/03/2025 09:30",
		Location:  "MG Road, Pune",
		Remarks:   "MG Road, Pune, MH, India",
		AttFlag:   "P",
		AttType:   "mobile",
	}
	if err := c.CreateAttendance(context.Background(), "01ARZINTENT", rec); err != nil {
		t.Fatalf("CreateAttendance: %v", err)
	}
	if gotKey != "01ARZINTENT" {
		t.Errorf("idempotency key = %q", gotKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody.AttDate != rec.AttDate || gotBody.Location != rec.Location || gotBody.AttFlag != "P" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestCreateAttendanceNon200IsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("duplicate punch"))
	})

	err := c.CreateAttendance(context.Background(), "01ARZ", PunchRecord{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusInternalServerError || se.Body != "duplicate punch" {
		t.Errorf("status error = %+v", se)
	}
}

func TestCreateAttendanceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // 接続拒否を再現
	c := NewClient(srv.URL, time.Second, zerolog.Nop())

	err := c.CreateAttendance(context.Background(), "01ARZ", PunchRecord{})
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatalf("transport failure must not be a StatusError: %v", err)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in loginPayload
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.UserName != "asha" || in.Password != "secret" {
			t.Errorf("payload = %+v", in)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"token":"tok123","empID":"E1","userID":"U1","companyID":1,"branchID":2,"empCode":"C100"}]`))
	})

	res, err := c.Login(context.Background(), "asha", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "tok123" || res.EmpID != "E1" || res.CompanyID != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		if _, err := c.Login(context.Background(), "asha", "bad"); !errors.Is(err, ErrAuthFailed) {
			t.Errorf("err = %v, want ErrAuthFailed", err)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})
		if _, err := c.Login(context.Background(), "asha", "bad"); !errors.Is(err, ErrAuthFailed) {
			t.Errorf("err = %v, want ErrAuthFailed", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"empID":"E1"}]`))
		})
		if _, err := c.Login(context.Background(), "asha", "bad"); !errors.Is(err, ErrAuthFailed) {
			t.Errorf("err = %v, want ErrAuthFailed", err)
		}
	})
}

func TestLeaveTypesByEmpCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("EmpCode") != "C100" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"text":"Casual Leave","value":"1"},{"text":"Sick Leave","value":"2"}]`))
	})

	types, err := c.LeaveTypesByEmpCode(context.Background(), "C100")
	if err != nil {
		t.Fatalf("LeaveTypesByEmpCode: %v", err)
	}
	if len(types) != 2 || types[0].Label != "Casual Leave" || types[1].Value != "2" {
		t.Errorf("types = %+v", types)
	}
}
