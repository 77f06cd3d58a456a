package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// UserID: 氏名＋電話番号から決定的なユーザーIDを生成する。
// 形式: <phone>_<first>_<last>_<hash8>
// 同一入力は常に同一IDになるので、登録済み判定と PK の両方に使える。
// 氏名は NFKC 正規化＋ケースフォールド（ヒンディー語・ベンガル語フォームの入力対策）。
func UserID(firstName, lastName, phone string) string {
	first := normalizeName(firstName)
	last := normalizeName(lastName)
	phone = strings.TrimSpace(phone)

	sum := sha256.Sum256([]byte(first + last))
	hash8 := hex.EncodeToString(sum[:])[:8]

	return fmt.Sprintf("%s_%s_%s_%s", phone, first, last, hash8)
}

func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = norm.NFKC.String(s)
	// cases.Caser は状態を持ち並行利用できないので都度生成する
	return cases.Fold().String(s)
}
