package punch

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"oasis-hr-gateway/internal/platform/geo"
	"oasis-hr-gateway/internal/platform/upstream"
)

// 外部能力は小さなインタフェースで切る。本番実装は platform 配下の
// HTTPクライアントで、テストでは決定的なフェイクを差す。

// FaceDetector は在席チェック用の顔検出。戻り値は検出数のみ。
type FaceDetector interface {
	Detect(ctx context.Context, imageRef string) (int, error)
}

// Geocoder は座標1点の住所解決。
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (geo.Address, error)
}

// EmployeeDirectory は社員マスタの参照。
type EmployeeDirectory interface {
	EmployeeEditRecord(ctx context.Context, companyID, branchID int64, empID string) (*upstream.EmployeeRecord, error)
}

// PunchCreator は上流への打刻登録。
type PunchCreator interface {
	CreateAttendance(ctx context.Context, intentID string, rec upstream.PunchRecord) error
}

type IDGenerator interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
