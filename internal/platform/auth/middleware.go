package auth

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionIsAdminKey = "is_admin"
	SessionUserIDKey  = "user_id"
	CtxUserIDKey      = "user_id"
)

// RequireAdmin: ブラウザはセッションの管理者フラグ、API/AJAX は
// Authorization: Bearer <token> のどちらかで認可する。
func RequireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if isAdmin, ok := sess.Get(SessionIsAdminKey).(bool); ok && isAdmin {
			if uid, ok := sess.Get(SessionUserIDKey).(string); ok {
				c.Set(CtxUserIDKey, uid)
			}
			c.Next()
			return
		}

		if sub, ok := verifyBearer(c, secret); ok {
			c.Set(CtxUserIDKey, sub)
			c.Next()
			return
		}

		rejectNonAdmin(c)
	}
}

func verifyBearer(c *gin.Context, secret []byte) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		return "", false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		// alg 固定（none攻撃とか回避）
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return "", false
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", false
	}
	return sub, true
}

// rejectNonAdmin: ブラウザ向けは旧来どおり 400 のプレーンメッセージ、
// AJAX/API 向けは 401 JSON。
func rejectNonAdmin(c *gin.Context) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authorization required"})
		return
	}
	c.String(http.StatusBadRequest, "You are not an admin")
	c.Abort()
}

func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	if c.GetHeader("Authorization") != "" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
