package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"oasis-hr-gateway/internal/platform/db"
	"oasis-hr-gateway/internal/platform/upstream"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrAuthFailed    = errors.New("authentication failed")
)

// MobileSession はモバイルログイン成功時にアプリへ返す内容。
// 以降の打刻・休暇申請はこの識別子をクレームに持つJWTで動く。
type MobileSession struct {
	Token     string `json:"token"`
	EmpID     string `json:"emp_id"`
	UserID    string `json:"user_id"`
	CompanyID int64  `json:"company_id"`
	BranchID  int64  `json:"branch_id"`
	EmpCode   string `json:"emp_code"`
}

type Authenticator interface {
	Login(ctx context.Context, userName, password string) (*upstream.LoginResult, error)
}

type Service struct {
	db     *sql.DB
	authn  Authenticator
	store  AccountStore
	secret []byte
	ttl    time.Duration
}

func NewService(conn *sql.DB, authn Authenticator, secret []byte, ttl time.Duration) *Service {
	return &Service{db: conn, authn: authn, store: NewStore(conn), secret: secret, ttl: ttl}
}

func (s *Service) Secret() []byte { return s.secret }

// MobileLogin: 認証の正本は上流HR API。成功したら識別子一式を
// クレームに入れたJWTをこちらで発行する。
func (s *Service) MobileLogin(ctx context.Context, userName, password string) (*MobileSession, error) {
	res, err := s.authn.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, upstream.ErrAuthFailed) {
			return nil, ErrAuthFailed
		}
		return nil, err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      res.UserID,
		"role":     "mobile",
		"emp_id":   res.EmpID,
		"cid":      res.CompanyID,
		"bid":      res.BranchID,
		"emp_code": res.EmpCode,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &MobileSession{
		Token:     signed,
		EmpID:     res.EmpID,
		UserID:    res.UserID,
		CompanyID: res.CompanyID,
		BranchID:  res.BranchID,
		EmpCode:   res.EmpCode,
	}, nil
}

// ===== 運用者アカウント（ジャーナル閲覧などの管理API用） =====

func (s *Service) OperatorLogin(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acct == nil || acct.IsDisabled {
		return "", ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  acct.ID,
		"role": acct.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Service) RegisterOperator(ctx context.Context, id, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// 存在チェックとINSERTの間に割り込まれないようTxでまとめる
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		store := NewStore(tx)
		exists, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if exists != nil {
			return ErrAlreadyExists
		}
		return store.Create(ctx, &Account{
			ID:           id,
			PasswordHash: string(hash),
			Role:         role,
			IsDisabled:   false,
		})
	})
}

func (s *Service) DeleteOperator(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
