package auth

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/admin", h.LoginPage)
	r.POST("/admin", h.Login)
}

func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin-login.html", gin.H{})
}

// POST /admin
// 成功時: セッションに管理者フラグを立ててダッシュボードへ。
// AJAX/API クライアントには Bearer 用トークンを JSON で返す。
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, err := h.svc.Login(username, password)
	if err != nil {
		if wantsJSON(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"error": "Invalid username or password!"})
		return
	}

	sess := sessions.Default(c)
	sess.Set(SessionUserIDKey, username)
	sess.Set(SessionIsAdminKey, true)
	if err := sess.Save(); err != nil {
		log.Printf("[ERROR] failed to save admin session: %v", err)
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"token": token, "message": "Login successful"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}
