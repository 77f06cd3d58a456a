package registration

import (
	"bytes"
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"kathamritam-backend/internal/attendance"
	"kathamritam-backend/internal/platform/db"
)

// ErrDuplicate: 主キー衝突＝同一人物の再登録
var ErrDuplicate = errors.New("user already exists")

const mysqlErrDupEntry = 1062

type UserStore interface {
	Insert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	CountPending(ctx context.Context, search string) (int, error)
	ListPending(ctx context.Context, search string, limit, offset int) ([]User, error)
	ConfirmWithAttendance(ctx context.Context, id, qrPath string) (ConfirmOutcome, error)
	CreateAttendance(ctx context.Context, id, qrPath string) (bool, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

func (s *Store) Insert(ctx context.Context, u *User) error {
	const q = `
	INSERT INTO users (id, first_name, last_name, email, phone, age, preacher, center, message, payment_id, is_pending)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	pending := 0
	if u.IsPending {
		pending = 1
	}
	_, err := s.db.ExecContext(ctx, q,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone, u.Age,
		u.Preacher, u.Center, u.Message, u.PaymentID, pending,
	)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlErrDupEntry {
		return ErrDuplicate
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	const q = `
	SELECT id, first_name, last_name, email, phone, age, preacher, center, message, payment_id, is_pending
	FROM users
	WHERE id = ?
	LIMIT 1`

	var (
		u       User
		pending int
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Age,
		&u.Preacher, &u.Center, &u.Message, &u.PaymentID, &pending,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.IsPending = pending != 0
	return &u, nil
}

func (s *Store) CountPending(ctx context.Context, search string) (int, error) {
	q, args := pendingQuery("SELECT COUNT(*)", search)
	var total int
	if err := s.db.QueryRowContext(ctx, q.String(), args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListPending(ctx context.Context, search string, limit, offset int) ([]User, error) {
	q, args := pendingQuery(`
	SELECT id, first_name, last_name, email, phone, age, preacher, center, message, payment_id, is_pending`, search)
	q.WriteString(" ORDER BY id LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var (
			u       User
			pending int
		)
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Age,
			&u.Preacher, &u.Center, &u.Message, &u.PaymentID, &pending,
		); err != nil {
			return nil, err
		}
		u.IsPending = pending != 0
		out = append(out, u)
	}
	return out, rows.Err()
}

// ConfirmWithAttendance: 保留→確定の遷移と出席行の作成を1トランザクションで行う。
// is_pending の CAS 更新なので、同時confirmの二重発火はここで弾かれる。
func (s *Store) ConfirmWithAttendance(ctx context.Context, id, qrPath string) (ConfirmOutcome, error) {
	var out ConfirmOutcome
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET is_pending = 0 WHERE id = ? AND is_pending = 1`, id)
		if err != nil {
			return err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return err
		}
		out.Flipped = aff == 1
		if !out.Flipped {
			// 既に確定済みか行が無い。呼び出し側で切り分ける。
			return nil
		}

		created, err := attendance.CreateRecordOn(ctx, tx, id, qrPath)
		if err != nil {
			return err
		}
		out.AttendanceCreated = created
		return nil
	})
	return out, err
}

func (s *Store) CreateAttendance(ctx context.Context, id, qrPath string) (bool, error) {
	return attendance.CreateRecordOn(ctx, s.db, id, qrPath)
}

// Delete: users の行だけ削除する。出席行とQR画像は意図的に残している
// （監査用に保持するかどうかは製品判断待ち）。
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// pendingQuery: 保留ユーザー一覧の SELECT/COUNT 共通部
func pendingQuery(selectClause, search string) (*bytes.Buffer, []any) {
	var buf bytes.Buffer
	buf.WriteString(selectClause)
	buf.WriteString(" FROM users WHERE is_pending = 1")

	var args []any
	if search != "" {
		buf.WriteString(` AND (first_name LIKE ? OR last_name LIKE ? OR phone LIKE ? OR payment_id LIKE ?)`)
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	return &buf, args
}
