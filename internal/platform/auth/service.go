package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrAuthFailed = errors.New("authentication failed")

// Service: 管理者認証。アカウントは環境変数で1組だけ設定する運用。
type Service struct {
	username     string
	passwordHash string // bcryptハッシュ。"$2"で始まらなければ平文比較（開発用）
	secret       []byte
}

func NewService(username, passwordHash string, secret []byte) *Service {
	return &Service{username: username, passwordHash: passwordHash, secret: secret}
}

func (s *Service) Secret() []byte {
	return s.secret
}

// Login: 資格情報を検証して API 用のトークンを返す。
// ブラウザ向けのセッションフラグはハンドラ側で立てる。
func (s *Service) Login(username, password string) (string, error) {
	if s.username == "" || username != s.username {
		return "", ErrAuthFailed
	}

	if strings.HasPrefix(s.passwordHash, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
			return "", ErrAuthFailed
		}
	} else if s.passwordHash == "" || password != s.passwordHash {
		return "", ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}
