package punch

import "time"

// Phase は打刻ワークフローの状態機械。
// 遷移は Transition() でのみ行い、不正な遷移は CONFLICT で弾く。
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseAwaitingCapture Phase = "awaiting_capture"
	PhaseValidating      Phase = "validating"
	PhaseResolving       Phase = "resolving"
	PhaseReady           Phase = "ready"
	PhaseSubmitting      Phase = "submitting"
	PhaseSubmitted       Phase = "submitted"
)

// 許可する遷移の一覧。
//   - 撮り直しは Resolving/Ready からも Validating へ戻れる
//   - 位置の再解決は Ready → Resolving
//   - 送信失敗は Ready へ戻す（状態は保持、再送は利用者操作のみ）
var allowedTransitions = map[Phase][]Phase{
	PhaseIdle:            {PhaseAwaitingCapture},
	PhaseAwaitingCapture: {PhaseValidating},
	PhaseValidating:      {PhaseAwaitingCapture, PhaseResolving},
	PhaseResolving:       {PhaseReady, PhaseValidating},
	PhaseReady:           {PhaseSubmitting, PhaseValidating, PhaseResolving},
	PhaseSubmitting:      {PhaseReady, PhaseSubmitted},
	PhaseSubmitted:       {},
}

// SessionContext は認証済みで渡ってくる識別子。ワークフロー中は不変。
type SessionContext struct {
	EmpID     string
	UserID    string
	CompanyID int64
	BranchID  int64
}

// ProfileSnapshot は社員マスタの読み取り専用スナップショット。
// セッション作成時に1回だけ取得する。
type ProfileSnapshot struct {
	CompanyName string
	BranchName  string
	EmpName     string
	EmpCode     string
}

// Workflow は1回の画面訪問に対応する打刻ワークフローの全状態。
// 各ステップはこの構造体を更新して返す。グローバル状態は持たない。
type Workflow struct {
	ID    string
	Phase Phase

	Ctx     SessionContext
	Profile ProfileSnapshot

	// 打刻の日付・時刻は画面表示用。送信時はサーバ現在時刻で再採取する。
	Date time.Time
	Time time.Time

	// 直近のキャプチャ参照。新しいキャプチャで上書きされ、常に高々1件。
	CaptureRef string
	FaceCount  int

	// 位置解決の結果。3つは必ず同じ解決結果を指す（途中状態を作らない）。
	Location    string // 短縮形 "street, city"
	FullAddress string // 完全形
	Remarks     string // 送信ペイロードの remarks（= 完全形）

	// Ready 到達ごとに採番する打刻意図ID（Idempotency-Key）。
	IntentID string

	// 直近のステップで利用者へ通知すべきエラー。次の操作成功で消える。
	Notice *APIError

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transition は状態遷移。許可されない組み合わせは CONFLICT。
func (w *Workflow) Transition(next Phase, now time.Time) error {
	for _, p := range allowedTransitions[w.Phase] {
		if p == next {
			w.Phase = next
			w.UpdatedAt = now
			return nil
		}
	}
	return ErrConflict("illegal transition: " + string(w.Phase) + " -> " + string(next))
}

// CanSubmit は送信可否ゲート。empID・日付・時刻・短縮形位置が
// すべて揃っているときに限り true。純関数で毎回再評価する。
func (w *Workflow) CanSubmit() bool {
	return w.Ctx.EmpID != "" &&
		!w.Date.IsZero() &&
		!w.Time.IsZero() &&
		w.Location != ""
}

// applyResolution は住所解決の結果を原子的に反映する。
// 3フィールドが別々の解決結果を指す状態を作らないため、ここ以外で触らない。
func (w *Workflow) applyResolution(short, full string) {
	w.Location = short
	w.FullAddress = full
	w.Remarks = full
}

// resetAfterSubmit は送信成功後のリセット。キャプチャ・住所・スナップショット
// を消す。セッション識別子は再入場で使い回すので残す。
func (w *Workflow) resetAfterSubmit() {
	w.CaptureRef = ""
	w.FaceCount = 0
	w.Location = ""
	w.FullAddress = ""
	w.Remarks = ""
	w.IntentID = ""
	w.Profile = ProfileSnapshot{}
	w.Notice = nil
}
