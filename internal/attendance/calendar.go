package attendance

import (
	"fmt"
	"time"
)

// Calendar: 開催日→day_1..day_7 の固定対応表。
// 設定ファイルの日付リスト（day_1 から順）から構築する。
type Calendar struct {
	slots map[string]int // "YYYY-MM-DD" → 1..NumDays
}

func NewCalendar(days []string) (Calendar, error) {
	if len(days) == 0 || len(days) > NumDays {
		return Calendar{}, fmt.Errorf("イベント日数は1〜%d日で設定すること（現在 %d）", NumDays, len(days))
	}

	slots := make(map[string]int, len(days))
	for i, d := range days {
		if _, err := time.ParseInLocation(DateLayout, d, time.UTC); err != nil {
			return Calendar{}, fmt.Errorf("開催日のパース失敗 %q: %w", d, err)
		}
		if _, dup := slots[d]; dup {
			return Calendar{}, fmt.Errorf("開催日が重複している: %q", d)
		}
		slots[d] = i + 1
	}
	return Calendar{slots: slots}, nil
}

// SlotFor: 指定日時が開催日なら day スロット番号（1始まり）を返す
func (c Calendar) SlotFor(t time.Time) (int, bool) {
	slot, ok := c.slots[t.Format(DateLayout)]
	return slot, ok
}
