package punch

import (
	"testing"
	"time"
)

func TestTransition(t *testing.T) {
	now := time.Now()

	legal := []struct {
		from, to Phase
	}{
		{PhaseIdle, PhaseAwaitingCapture},
		{PhaseAwaitingCapture, PhaseValidating},
		{PhaseValidating, PhaseAwaitingCapture},
		{PhaseValidating, PhaseResolving},
		{PhaseResolving, PhaseReady},
		{PhaseResolving, PhaseValidating},
		{PhaseReady, PhaseSubmitting},
		{PhaseReady, PhaseValidating},
		{PhaseReady, PhaseResolving},
		{PhaseSubmitting, PhaseReady},
		{PhaseSubmitting, PhaseSubmitted},
	}
	for _, tr := range legal {
		w := &Workflow{Phase: tr.from}
		if err := w.Transition(tr.to, now); err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tr.from, tr.to, err)
		}
		if w.Phase != tr.to {
			t.Errorf("%s -> %s: phase = %s", tr.from, tr.to, w.Phase)
		}
	}

	illegal := []struct {
		from, to Phase
	}{
		{PhaseIdle, PhaseSubmitting},
		{PhaseIdle, PhaseReady},
		{PhaseAwaitingCapture, PhaseResolving},
		{PhaseAwaitingCapture, PhaseSubmitting},
		{PhaseValidating, PhaseSubmitting},
		{PhaseResolving, PhaseSubmitting},
		{PhaseSubmitted, PhaseSubmitting},
		{PhaseSubmitted, PhaseAwaitingCapture},
	}
	for _, tr := range illegal {
		w := &Workflow{Phase: tr.from}
		if err := w.Transition(tr.to, now); err == nil {
			t.Errorf("%s -> %s: expected conflict, got nil", tr.from, tr.to)
		}
		if w.Phase != tr.from {
			t.Errorf("%s -> %s: phase mutated on rejected transition", tr.from, tr.to)
		}
	}
}

func TestCanSubmit(t *testing.T) {
	now := time.Now()
	base := Workflow{
		Ctx:      SessionContext{EmpID: "E1"},
		Date:     now,
		Time:     now,
		Location: "MG Road, Pune",
	}

	if !base.CanSubmit() {
		t.Fatal("all four fields present: expected enabled")
	}

	// どれか1つでも欠ければ即座に無効
	w := base
	w.Ctx.EmpID = ""
	if w.CanSubmit() {
		t.Error("missing emp id: expected disabled")
	}

	w = base
	w.Date = time.Time{}
	if w.CanSubmit() {
		t.Error("missing date: expected disabled")
	}

	w = base
	w.Time = time.Time{}
	if w.CanSubmit() {
		t.Error("missing time: expected disabled")
	}

	w = base
	w.Location = ""
	if w.CanSubmit() {
		t.Error("missing location: expected disabled")
	}
}

func TestResetAfterSubmitKeepsSessionContext(t *testing.T) {
	w := Workflow{
		Ctx:         SessionContext{EmpID: "E1", UserID: "U1", CompanyID: 1, BranchID: 1},
		Profile:     ProfileSnapshot{CompanyName: "Oasis", EmpName: "Asha", EmpCode: "C100"},
		CaptureRef:  "file:///cap.jpg",
		FaceCount:   1,
		Location:    "MG Road, Pune",
		FullAddress: "MG Road, Pune, MH, India",
		Remarks:     "MG Road, Pune, MH, India",
		IntentID:    "01ARZ",
	}
	w.resetAfterSubmit()

	if w.CaptureRef != "" || w.Location != "" || w.FullAddress != "" || w.Remarks != "" || w.IntentID != "" {
		t.Error("workflow-local state not cleared")
	}
	if w.Profile != (ProfileSnapshot{}) {
		t.Error("profile snapshot not cleared")
	}
	if w.Ctx.EmpID != "E1" || w.Ctx.CompanyID != 1 {
		t.Error("session context must survive reset")
	}
}
