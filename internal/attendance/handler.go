package attendance

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// RegisterRoutes: すべて管理者専用（adminMW を通す）
func RegisterRoutes(r gin.IRoutes, svc *Service, adminMW gin.HandlerFunc) {
	h := &Handler{svc: svc}
	r.GET("/dashboard", adminMW, h.Dashboard)
	r.GET("/attendance/:user_id", adminMW, h.CheckIn)
}

// GET /dashboard?page=&search=
func (h *Handler) Dashboard(c *gin.Context) {
	page := parseIntDefault(c.Query("page"), 1)
	search := strings.TrimSpace(c.Query("search"))

	pageData, err := h.svc.Dashboard(c.Request.Context(), page, search)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"records":      pageData.Records,
		"current_page": pageData.Page,
		"total_pages":  pageData.TotalPages,
		"prev_page":    pageData.Page - 1,
		"next_page":    pageData.Page + 1,
		"search_query": pageData.Search,
	})
}

// GET /attendance/:user_id
// QRスキャンの着地点。成否は attendance.html に表示する。
func (h *Handler) CheckIn(c *gin.Context) {
	userID := c.Param("user_id")

	err := h.svc.CheckIn(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		var api *APIError
		if !errors.As(err, &api) {
			c.String(http.StatusInternalServerError, "check-in failed")
			return
		}
	}

	c.HTML(http.StatusOK, "attendance.html", gin.H{
		"user_id": userID,
		"success": err == nil,
	})
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
