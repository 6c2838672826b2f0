package punch

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"oasis-hr-gateway/internal/platform/db"
)

const (
	OutcomeAccepted       = "accepted"
	OutcomeRejected       = "rejected"
	OutcomeTransportError = "transport_error"
)

// PunchAttempt は上流へ投げた打刻1試行の監査レコード。
// 打刻の正本は上流側。こちらは重複調査・監査のための控え。
type PunchAttempt struct {
	IntentID       string
	SessionID      string
	EmpID          string
	CompanyID      int64
	BranchID       int64
	Location       string
	Remarks        string
	Outcome        string
	UpstreamStatus int
	AttemptedAt    time.Time
}

func (a PunchAttempt) toDTO() AttemptResponse {
	return AttemptResponse{
		IntentID:       a.IntentID,
		SessionID:      a.SessionID,
		EmpID:          a.EmpID,
		CompanyID:      a.CompanyID,
		BranchID:       a.BranchID,
		Location:       a.Location,
		Remarks:        a.Remarks,
		Outcome:        a.Outcome,
		UpstreamStatus: a.UpstreamStatus,
		AttemptedAt:    a.AttemptedAt.UTC(),
	}
}

type Journal interface {
	Record(ctx context.Context, a PunchAttempt) error
	List(ctx context.Context, q AttemptListQuery) ([]PunchAttempt, int64, error)
}

type Store struct{ db db.DBTX }

func NewStore(dbtx db.DBTX) *Store { return &Store{db: dbtx} }

// Record: intent_id は UNIQUE。同じ意図の再送は最新結果で上書きする。
func (s *Store) Record(ctx context.Context, a PunchAttempt) error {
	const q = `
	INSERT INTO punch_attempts
		(intent_id, session_id, emp_id, company_id, branch_id, location, remarks, outcome, upstream_status, attempted_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		outcome         = VALUES(outcome),
		upstream_status = VALUES(upstream_status),
		attempted_at    = VALUES(attempted_at)`

	_, err := s.db.ExecContext(ctx, q,
		a.IntentID, a.SessionID, a.EmpID, a.CompanyID, a.BranchID,
		a.Location, a.Remarks, a.Outcome, a.UpstreamStatus, a.AttemptedAt.UTC(),
	)
	return err
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET
func (s *Store) List(ctx context.Context, q AttemptListQuery) ([]PunchAttempt, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`
	SELECT intent_id, session_id, emp_id, company_id, branch_id, location, remarks, outcome, upstream_status, attempted_at
	FROM punch_attempts
	`)
	if q.EmpID != nil && *q.EmpID != "" {
		wheres = append(wheres, "emp_id = ?")
		args = append(args, *q.EmpID)
	}
	if q.Outcome != nil && *q.Outcome != "" {
		wheres = append(wheres, "outcome = ?")
		args = append(args, *q.Outcome)
	}
	if q.From != nil {
		wheres = append(wheres, "attempted_at >= ?")
		args = append(args, q.From.UTC())
	}
	if q.To != nil {
		wheres = append(wheres, "attempted_at <= ?")
		args = append(args, q.To.UTC())
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}

	buf.WriteString(" ORDER BY attempted_at DESC, intent_id DESC")

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, q.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []PunchAttempt
	for rows.Next() {
		var a PunchAttempt
		if err := rows.Scan(
			&a.IntentID, &a.SessionID, &a.EmpID, &a.CompanyID, &a.BranchID,
			&a.Location, &a.Remarks, &a.Outcome, &a.UpstreamStatus, &a.AttemptedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// COUNT（ORDER BY より前までを再構築）
	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM punch_attempts")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
