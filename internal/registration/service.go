package registration

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"kathamritam-backend/internal/identity"
	"kathamritam-backend/internal/notify"
	"kathamritam-backend/internal/pagination"
)

// ===== Error model (attendance と同型) =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== インターフェース群 =====

type QRIssuer interface {
	Issue(userID string) (string, error)
	Path(userID string) string
}

type Mailer interface {
	SendConfirmation(toEmail, userID, qrPath string) notify.SendResult
}

type IDGen interface{ NewULID(t time.Time) string }

type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ===== Service =====

type Service struct {
	store   UserStore
	qr      QRIssuer
	mailer  Mailer
	id      IDGen
	perPage int
}

func NewService(conn *sql.DB, qr QRIssuer, mailer Mailer, perPage int) *Service {
	return &Service{
		store:   NewStore(conn),
		qr:      qr,
		mailer:  mailer,
		id:      ulidGen{},
		perPage: perPage,
	}
}

// Exists: 同一人物（氏名＋電話から導いたID）が登録済みか
func (s *Service) Exists(ctx context.Context, firstName, lastName, phone string) (bool, error) {
	u, err := s.store.GetByID(ctx, identity.UserID(firstName, lastName, phone))
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Finalize: 決済コールバック後、セッションに退避していた内容を保留ユーザーとして確定する
func (s *Service) Finalize(ctx context.Context, form RegistrationForm, paymentID string) error {
	err := s.store.Insert(ctx, form.toUser(paymentID, true))
	if errors.Is(err, ErrDuplicate) {
		return ErrConflict("User already exists")
	}
	return err
}

// AdminRegister: 決済を経ない管理者直登録。確定済みで作成し、出席行とQRも即時発行する。
func (s *Service) AdminRegister(ctx context.Context, form RegistrationForm) error {
	paymentRef := "offline_" + strings.ToLower(s.id.NewULID(time.Now().UTC()))
	u := form.toUser(paymentRef, false)

	err := s.store.Insert(ctx, u)
	if errors.Is(err, ErrDuplicate) {
		return ErrConflict("User already exists")
	}
	if err != nil {
		return err
	}

	if _, err := s.store.CreateAttendance(ctx, u.ID, s.qr.Path(u.ID)); err != nil {
		return err
	}
	if _, err := s.qr.Issue(u.ID); err != nil {
		log.Printf("[WARNING] QR issue failed for %s: %v", u.ID, err)
	}
	return nil
}

// Confirm: 保留→確定の遷移。
// 1. is_pending の CAS ＋ 出席行の作成（同一トランザクション）
// 2. QR画像の発行（ベストエフォート）
// 3. 確認メール送信（ベストエフォート、結果は応答に載せる）
// 2,3 が失敗しても確定はロールバックしない。
func (s *Service) Confirm(ctx context.Context, id string) (ConfirmResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ConfirmResponse{}, err
	}
	if u == nil {
		return ConfirmResponse{}, ErrNotFound("Record not found")
	}

	qrPath := s.qr.Path(id)
	out, err := s.store.ConfirmWithAttendance(ctx, id, qrPath)
	if err != nil {
		return ConfirmResponse{}, err
	}
	if !out.Flipped {
		return ConfirmResponse{}, ErrConflict("Record already confirmed")
	}

	attendanceStatus := "created"
	if !out.AttendanceCreated {
		log.Printf("[WARNING] attendance record already exists for %s", id)
		attendanceStatus = "already_exists"
	}

	if _, err := s.qr.Issue(id); err != nil {
		log.Printf("[WARNING] QR issue failed for %s: %v", id, err)
	}

	emailRes := s.mailer.SendConfirmation(u.Email, id, qrPath)
	if emailRes.Status == notify.StatusFailed {
		log.Printf("[WARNING] confirmation mail failed for %s: %s", id, emailRes.Error)
	}

	return ConfirmResponse{
		Success:          true,
		Message:          "Record confirmed successfully",
		AttendanceStatus: attendanceStatus,
		Email:            &emailRes,
	}, nil
}

// Delete: users の行を削除。出席行とQR画像は監査のため残す。
func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("Record not found")
	}
	return nil
}

// PendingRequests: 保留ユーザーの検索つきページング一覧
func (s *Service) PendingRequests(ctx context.Context, page int, search string) (PendingPage, error) {
	total, err := s.store.CountPending(ctx, search)
	if err != nil {
		return PendingPage{}, err
	}

	w := pagination.Clamp(page, total, s.perPage)

	users, err := s.store.ListPending(ctx, search, s.perPage, w.Offset)
	if err != nil {
		return PendingPage{}, err
	}

	records := make([]PendingUserDTO, 0, len(users))
	for _, u := range users {
		records = append(records, u.toPendingDTO())
	}
	return PendingPage{Records: records, Page: w.Page, TotalPages: w.TotalPages}, nil
}
