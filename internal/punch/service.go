package punch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"oasis-hr-gateway/internal/platform/upstream"
)

// Service は打刻ワークフローのオーケストレータ。
// 1セッション = 1画面訪問。処理は権限 → 撮影 → 顔チェック → 位置解決 →
// ゲート → 送信 の順で、各ステップの失敗はその場で利用者へ返す。
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session

	dir      EmployeeDirectory
	faces    FaceDetector
	geocoder Geocoder
	punches  PunchCreator
	journal  Journal

	id  IDGenerator
	now func() time.Time
	ttl time.Duration
	log zerolog.Logger
}

// session: ワークフロー本体とその排他。セッション内の操作は直列化する。
type session struct {
	mu sync.Mutex
	wf Workflow
}

func NewService(
	dir EmployeeDirectory,
	faces FaceDetector,
	geocoder Geocoder,
	punches PunchCreator,
	journal Journal,
	ttl time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		sessions: make(map[string]*session),
		dir:      dir,
		faces:    faces,
		geocoder: geocoder,
		punches:  punches,
		journal:  journal,
		id:       ulidGen{},
		now:      time.Now,
		ttl:      ttl,
		log:      log.With().Str("component", "punch").Logger(),
	}
}

// CreateSession: PermissionGate。位置とカメラの両方が許可されるまで
// ワークフローには入らせない。再入場（新規セッション）で再判定する。
func (s *Service) CreateSession(ctx context.Context, req CreateSessionRequest) (SessionView, error) {
	if !req.Permissions.LocationGranted || !req.Permissions.CameraGranted {
		return SessionView{}, ErrPermissionDenied("location and camera permissions are required")
	}
	if !req.Permissions.LocationServicesEnabled {
		return SessionView{}, ErrLocationDisabled("please enable location services")
	}

	id, err := s.id.New()
	if err != nil {
		return SessionView{}, ErrInternal("session id generation failed")
	}

	now := s.now()
	wf := Workflow{
		ID:    id,
		Phase: PhaseIdle,
		Ctx: SessionContext{
			EmpID:     req.EmpID,
			UserID:    req.UserID,
			CompanyID: req.CompanyID,
			BranchID:  req.BranchID,
		},
		Date:      now,
		Time:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = wf.Transition(PhaseAwaitingCapture, now)

	// プロフィールはセッションにつき1回だけ取得。
	// 失敗しても空欄のまま続行する（打刻自体は止めない）。
	rec, err := s.dir.EmployeeEditRecord(ctx, req.CompanyID, req.BranchID, req.EmpID)
	if err != nil {
		s.log.Warn().Err(err).Str("emp_id", req.EmpID).Msg("employee lookup failed")
		wf.Notice = ErrFetchFailed("failed to fetch employee details")
	} else {
		wf.Profile = ProfileSnapshot{
			CompanyName: rec.CompanyName,
			BranchName:  rec.BranchName,
			EmpName:     rec.FirstName,
			EmpCode:     rec.EmpCode,
		}
	}

	s.mu.Lock()
	s.sessions[id] = &session{wf: wf}
	s.mu.Unlock()

	s.log.Info().Str("session_id", id).Str("emp_id", req.EmpID).Msg("punch session opened")
	return wf.toView(), nil
}

// Capture: CaptureService + FacePresenceValidator。
// 新しいキャプチャは前のものを置き換える（保留は常に高々1件）。
func (s *Service) Capture(ctx context.Context, sessionID string, req CaptureRequest) (SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.fresh(&sess.wf); err != nil {
		return SessionView{}, err
	}

	wf := &sess.wf
	now := s.now()

	if req.Failed {
		// カメラ障害は致命にしない。画面はそのまま再試行できる。
		wf.Notice = ErrCaptureFailed("camera error, please retry")
		wf.UpdatedAt = now
		return wf.toView(), nil
	}
	if req.ImageRef == "" {
		return SessionView{}, ErrInvalid("image_ref is required")
	}
	if err := wf.Transition(PhaseValidating, now); err != nil {
		return SessionView{}, err
	}
	wf.CaptureRef = req.ImageRef
	wf.FaceCount = 0
	wf.Notice = nil

	count, err := s.faces.Detect(ctx, req.ImageRef)
	if err != nil {
		// 検出サービス障害。キャプチャは見せたまま撮り直し待ちへ戻す。
		s.log.Warn().Err(err).Str("session_id", wf.ID).Msg("face detection error")
		wf.Notice = ErrCaptureFailed("face detection unavailable, please retry")
		_ = wf.Transition(PhaseAwaitingCapture, now)
		return wf.toView(), nil
	}
	if count == 0 {
		// 顔なしは前進させない。位置解決はここでは一切走らない。
		wf.Notice = ErrNoFaceDetected()
		_ = wf.Transition(PhaseAwaitingCapture, now)
		return wf.toView(), nil
	}

	// 複数顔は1顔と区別しない
	wf.FaceCount = count
	_ = wf.Transition(PhaseResolving, now)
	return wf.toView(), nil
}

// Resolve: GeoResolver。顔チェック通過後のみ呼べる。
// 3つの投影（location / full_address / remarks）は同じ解決結果から
// 原子的に更新する。失敗時は何も変えない。
func (s *Service) Resolve(ctx context.Context, sessionID string, req LocationRequest) (SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.fresh(&sess.wf); err != nil {
		return SessionView{}, err
	}

	wf := &sess.wf
	now := s.now()

	if wf.Phase != PhaseResolving && wf.Phase != PhaseReady {
		return SessionView{}, ErrConflict("location not expected in phase " + string(wf.Phase))
	}
	if wf.Phase == PhaseReady {
		// 位置の取り直し
		if err := wf.Transition(PhaseResolving, now); err != nil {
			return SessionView{}, err
		}
	}

	addr, err := s.geocoder.Reverse(ctx, *req.Latitude, *req.Longitude)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", wf.ID).Msg("geo resolution failed")
		wf.Notice = ErrGeoResolution("failed to resolve current address")
		wf.UpdatedAt = now
		return wf.toView(), nil
	}

	short := ShortLocation(addr.Street, addr.City)
	if short == "" {
		// 街路も市名も取れない解決結果は採用しない
		wf.Notice = ErrGeoResolution("address resolution returned no usable components")
		wf.UpdatedAt = now
		return wf.toView(), nil
	}
	full := FormatAddress(addr.Street, addr.City, addr.Region, addr.Country)

	intent, err := s.id.New()
	if err != nil {
		return SessionView{}, ErrInternal("intent id generation failed")
	}

	wf.applyResolution(short, full)
	wf.IntentID = intent
	wf.Notice = nil
	_ = wf.Transition(PhaseReady, now)
	return wf.toView(), nil
}

// Submit: AttendanceSubmitter。明示的な利用者操作でのみ呼ばれる。
// ゲートはここで必ず再検査する（UI側の無効化は当てにしない）。
// セッション内で直列化されるため同時送信は高々1件。2発目は
// 「送信中」か「送信済み」の CONFLICT を観測する。
func (s *Service) Submit(ctx context.Context, sessionID string) (SubmitResponse, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return SubmitResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.fresh(&sess.wf); err != nil {
		return SubmitResponse{}, err
	}

	wf := &sess.wf
	now := s.now()

	if wf.Phase == PhaseSubmitted {
		return SubmitResponse{}, ErrConflict("attendance already submitted for this session")
	}
	if !wf.CanSubmit() {
		return SubmitResponse{}, ErrInvalid("complete all fields before punching attendance")
	}
	if err := wf.Transition(PhaseSubmitting, now); err != nil {
		return SubmitResponse{}, err
	}

	// 日付・打刻時刻はサーバの現在時刻で採る（利用者入力ではない）
	rec := upstream.PunchRecord{
		AttDate:     now.Format(DateLayout),
		PunchTime:   now.Format(DateTimeLayout),
		CompanyID:   wf.Ctx.CompanyID,
		CompanyName: wf.Profile.CompanyName,
		BranchID:    wf.Ctx.BranchID,
		BranchName:  wf.Profile.BranchName,
		EmpName:     wf.Profile.EmpName,
		EmpCode:     wf.Profile.EmpCode,
		Location:    wf.Location,
		Reason:      " ",
		HalfDay:     " ",
		AttFlag:     "P",
		AttType:     "mobile",
		Remarks:     wf.Remarks,
	}
	intent := wf.IntentID

	submitErr := s.punches.CreateAttendance(ctx, intent, rec)
	s.record(ctx, wf, intent, rec, now, submitErr)

	if submitErr != nil {
		// 失敗時は状態を丸ごと保持。再送は利用者の再タップのみ。
		_ = wf.Transition(PhaseReady, now)
		var se *upstream.StatusError
		if errors.As(submitErr, &se) {
			s.log.Warn().Int("status", se.StatusCode).Str("intent_id", intent).Msg("punch rejected by upstream")
			wf.Notice = ErrSubmissionRejected("failed to submit attendance")
		} else {
			s.log.Warn().Err(submitErr).Str("intent_id", intent).Msg("punch transport error")
			wf.Notice = ErrSubmissionTransport("an error occurred while submitting attendance")
		}
		return SubmitResponse{}, wf.Notice
	}

	_ = wf.Transition(PhaseSubmitted, now)
	wf.resetAfterSubmit()
	s.log.Info().Str("intent_id", intent).Str("emp_id", wf.Ctx.EmpID).Msg("attendance punched")
	return SubmitResponse{
		SessionID: wf.ID,
		IntentID:  intent,
		Status:    "accepted",
		Message:   "attendance marked successfully",
	}, nil
}

// View は画面再描画用の現在状態。
func (s *Service) View(sessionID string) (SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.fresh(&sess.wf); err != nil {
		return SessionView{}, err
	}
	return sess.wf.toView(), nil
}

// ListAttempts は打刻試行ジャーナルの参照（管理用）。
func (s *Service) ListAttempts(ctx context.Context, q AttemptListQuery) ([]AttemptResponse, int64, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	rows, total, err := s.journal.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AttemptResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}

// Sweep は期限切れセッションの回収。main側で定期実行する。
func (s *Service) Sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := now.Sub(sess.wf.UpdatedAt) > s.ttl
		sess.mu.Unlock()
		if stale {
			delete(s.sessions, id)
		}
	}
}

func (s *Service) record(ctx context.Context, wf *Workflow, intent string, rec upstream.PunchRecord, at time.Time, submitErr error) {
	attempt := PunchAttempt{
		IntentID:    intent,
		SessionID:   wf.ID,
		EmpID:       wf.Ctx.EmpID,
		CompanyID:   wf.Ctx.CompanyID,
		BranchID:    wf.Ctx.BranchID,
		Location:    rec.Location,
		Remarks:     rec.Remarks,
		AttemptedAt: at,
	}
	switch {
	case submitErr == nil:
		attempt.Outcome = OutcomeAccepted
		attempt.UpstreamStatus = http.StatusOK
	default:
		var se *upstream.StatusError
		if errors.As(submitErr, &se) {
			attempt.Outcome = OutcomeRejected
			attempt.UpstreamStatus = se.StatusCode
		} else {
			attempt.Outcome = OutcomeTransportError
		}
	}
	// 監査の失敗で打刻は止めない
	if err := s.journal.Record(ctx, attempt); err != nil {
		s.log.Error().Err(err).Str("intent_id", intent).Msg("journal record failed")
	}
}

func (s *Service) get(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound("unknown or expired session")
	}
	return sess, nil
}

// fresh: 期限切れセッションへの遅延入力を適用しないための防波堤。
// 呼び出し側が sess.mu を保持していること。
func (s *Service) fresh(wf *Workflow) error {
	if s.now().Sub(wf.UpdatedAt) > s.ttl {
		return ErrNotFound("unknown or expired session")
	}
	return nil
}
