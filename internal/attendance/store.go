package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"kathamritam-backend/internal/platform/db"
)

// day_1..day_7 のカラム名ホワイトリスト。
// スロット番号からしか引けないので動的SQLでも注入の余地はない。
var dayColumns = [NumDays]string{"day_1", "day_2", "day_3", "day_4", "day_5", "day_6", "day_7"}

type Store struct{ db db.DBTX }

func NewStore(db db.DBTX) *Store { return &Store{db: db} }

// CreateRecordOn: 任意の DBTX 上で出席行を作成する（confirm のトランザクション内からも呼ぶ）。
// 返り値 created=false は同一IDの行が既にあった場合（警告扱い、エラーではない）。
func CreateRecordOn(ctx context.Context, tx db.DBTX, userID, qrPath string) (bool, error) {
	// 既存行は変更しない: RowsAffected 1=新規 / 0=既存
	const q = `
	INSERT INTO attendance (user_id, qr_code_location, day_1, day_2, day_3, day_4, day_5, day_6, day_7)
	VALUES (?, ?, 0, 0, 0, 0, 0, 0, 0)
	ON DUPLICATE KEY UPDATE user_id = user_id`

	res, err := tx.ExecContext(ctx, q, userID, qrPath)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (s *Store) CreateRecord(ctx context.Context, userID, qrPath string) (bool, error) {
	return CreateRecordOn(ctx, s.db, userID, qrPath)
}

// MarkDay: 指定スロットの出席フラグを立てる。
// MySQLの RowsAffected は値が変わらない更新で0になるので、
// 0件のときの「行が無い」と「既に出席済み」の区別は HasRecord 側で行う。
func (s *Store) MarkDay(ctx context.Context, userID string, slot int) (int64, error) {
	if slot < 1 || slot > NumDays {
		return 0, fmt.Errorf("不正なdayスロット: %d", slot)
	}
	q := fmt.Sprintf(`UPDATE attendance SET %s = 1 WHERE user_id = ?`, dayColumns[slot-1])
	res, err := s.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) HasRecord(ctx context.Context, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM attendance WHERE user_id = ? LIMIT 1`, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) CountRecords(ctx context.Context, search string) (int, error) {
	q, args := recordsQuery("SELECT COUNT(*)", search)
	var total int
	if err := s.db.QueryRowContext(ctx, q.String(), args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// FetchPage: users と結合した一覧を1ページ分返す
func (s *Store) FetchPage(ctx context.Context, search string, limit, offset int) ([]DashboardRecord, error) {
	q, args := recordsQuery(`
	SELECT a.user_id,
	       a.day_1, a.day_2, a.day_3, a.day_4, a.day_5, a.day_6, a.day_7,
	       CONCAT(u.first_name, ' ', u.last_name) AS name,
	       u.phone`, search)
	q.WriteString(" ORDER BY a.user_id")
	fmt.Fprintf(q, " LIMIT %d OFFSET %d", limit, offset)

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DashboardRecord
	for rows.Next() {
		var r recordRow
		if err := rows.Scan(
			&r.UserID,
			&r.Days[0], &r.Days[1], &r.Days[2], &r.Days[3], &r.Days[4], &r.Days[5], &r.Days[6],
			&r.Name, &r.Phone,
		); err != nil {
			return nil, err
		}
		out = append(out, r.toDTO())
	}
	return out, rows.Err()
}

// recordsQuery: SELECT句だけ差し替えて WHERE を共通化（検索は氏名・電話の部分一致）
func recordsQuery(selectClause, search string) (*bytes.Buffer, []any) {
	var buf bytes.Buffer
	buf.WriteString(selectClause)
	buf.WriteString(`
	FROM attendance a
	JOIN users u ON a.user_id = u.id
	WHERE (CONCAT(u.first_name, ' ', u.last_name) LIKE ? OR u.phone LIKE ?)`)

	pattern := "%"
	if search != "" {
		pattern = "%" + search + "%"
	}
	return &buf, []any{pattern, pattern}
}
