package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kathamritam-backend/internal/pagination"
)

// ===== Error model (registration と同型) =====
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

// ===== Service =====

type RecordStore interface {
	CreateRecord(ctx context.Context, userID, qrPath string) (bool, error)
	MarkDay(ctx context.Context, userID string, slot int) (int64, error)
	HasRecord(ctx context.Context, userID string) (bool, error)
	CountRecords(ctx context.Context, search string) (int, error)
	FetchPage(ctx context.Context, search string, limit, offset int) ([]DashboardRecord, error)
}

type Service struct {
	store   RecordStore
	cal     Calendar
	perPage int
}

func NewService(conn *sql.DB, cal Calendar, perPage int) *Service {
	return &Service{store: NewStore(conn), cal: cal, perPage: perPage}
}

// CheckIn: QRスキャンによる当日の出席マーク。
// - 開催日でない → INVALID_ARGUMENT（変更なし）
// - 出席行が無い（未確認ユーザー等） → NOT_FOUND（変更なし）
// - 同日2回目 → 成功のまま（冪等）
func (s *Service) CheckIn(ctx context.Context, userID string, now time.Time) error {
	if userID == "" {
		return ErrInvalid("user_id is required")
	}

	slot, ok := s.cal.SlotFor(now)
	if !ok {
		return ErrInvalid("not an event day")
	}

	aff, err := s.store.MarkDay(ctx, userID, slot)
	if err != nil {
		return err
	}
	if aff == 0 {
		exists, err := s.store.HasRecord(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound("no attendance record for user")
		}
		// 既にマーク済み。冪等に成功扱い。
	}
	return nil
}

// GET /dashboard
func (s *Service) Dashboard(ctx context.Context, page int, search string) (DashboardPage, error) {
	total, err := s.store.CountRecords(ctx, search)
	if err != nil {
		return DashboardPage{}, err
	}

	w := pagination.Clamp(page, total, s.perPage)

	records, err := s.store.FetchPage(ctx, search, s.perPage, w.Offset)
	if err != nil {
		return DashboardPage{}, err
	}
	return DashboardPage{
		Records:    records,
		Page:       w.Page,
		TotalPages: w.TotalPages,
		Search:     search,
	}, nil
}
