package qrpass

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// Issuer: チェックインURLをQRコード画像として発行する
type Issuer struct {
	baseURL string
	dir     string
}

func NewIssuer(baseURL, dir string) *Issuer {
	return &Issuer{baseURL: strings.TrimRight(baseURL, "/"), dir: dir}
}

// Issue: <dir>/<userID>.png に QR を書き出してパスを返す。
// 同一IDの再発行は同じパスへの上書きになる（冪等）。
func (i *Issuer) Issue(userID string) (string, error) {
	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return "", fmt.Errorf("QR保存先の作成に失敗: %w", err)
	}

	path := filepath.Join(i.dir, userID+".png")
	url := fmt.Sprintf("%s/attendance/%s", i.baseURL, userID)

	if err := qrcode.WriteFile(url, qrcode.Medium, qrSize, path); err != nil {
		return "", fmt.Errorf("QR生成に失敗: %w", err)
	}
	return path, nil
}

// Path: 発行済みQRの置き場所（存在チェックはしない）
func (i *Issuer) Path(userID string) string {
	return filepath.Join(i.dir, userID+".png")
}
