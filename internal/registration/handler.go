package registration

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service, adminMW gin.HandlerFunc) {
	h := &Handler{svc: svc}

	// 公開ページ
	r.GET("/", h.Home)
	r.GET("/register", h.showForm("register.html"))
	r.POST("/register", h.submitForm("register.html"))
	r.GET("/register_hi", h.showForm("register_hi.html"))
	r.POST("/register_hi", h.submitForm("register_hi.html"))
	r.GET("/register_ben", h.showForm("register_ben.html"))
	r.POST("/register_ben", h.submitForm("register_ben.html"))
	r.GET("/payment", h.PaymentPage)
	r.POST("/payment", h.PaymentPage)
	r.GET("/success", h.Success)
	r.GET("/pending_page", h.PendingPage)
	r.GET("/self_close", h.SelfClose)

	// 管理者専用
	r.GET("/adm_register", adminMW, h.AdminRegisterPage)
	r.POST("/adm_register", adminMW, h.AdminRegister)
	r.GET("/pending_requests", adminMW, h.PendingRequests)
	r.POST("/confirm/:id", adminMW, h.Confirm)
	r.POST("/delete/:id", adminMW, h.Delete)
}

// ---------- 公開側 ----------

func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

func (h *Handler) showForm(tmpl string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, tmpl, gin.H{})
	}
}

// submitForm: 登録フォームの第1フェーズ。
// 重複チェック → セッションに退避 → 決済ページへリダイレクト。
// DBへの書き込みは決済コールバック（/success）まで行わない。
func (h *Handler) submitForm(tmpl string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form RegistrationForm
		if err := c.ShouldBind(&form); err != nil {
			c.HTML(http.StatusBadRequest, tmpl, gin.H{"error": "All required fields must be filled"})
			return
		}

		exists, err := h.svc.Exists(c.Request.Context(), form.FirstName, form.LastName, form.Phone)
		if err != nil {
			c.String(http.StatusInternalServerError, "registration failed")
			return
		}
		if exists {
			c.String(http.StatusOK, "User already exists")
			return
		}

		stageForm(c, form)
		c.Redirect(http.StatusFound, "/payment")
	}
}

func (h *Handler) PaymentPage(c *gin.Context) {
	c.HTML(http.StatusOK, "payment.html", gin.H{})
}

// GET /success?payment_id=...
// 決済プロバイダからの着地点。セッションの退避分を保留ユーザーとして確定する。
func (h *Handler) Success(c *gin.Context) {
	form, ok := stagedForm(c)
	if !ok {
		log.Printf("[WARNING] /success without staged registration data")
		c.Redirect(http.StatusFound, "/")
		return
	}

	err := h.svc.Finalize(c.Request.Context(), form, c.Query("payment_id"))
	if err != nil {
		var api *APIError
		if errors.As(err, &api) && api.Code == CodeConflict {
			c.String(http.StatusOK, "User already exists")
			return
		}
		c.String(http.StatusInternalServerError, "registration failed")
		return
	}

	clearStaged(c)
	c.Redirect(http.StatusFound, "/pending_page")
}

func (h *Handler) PendingPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reg_pending.html", gin.H{})
}

func (h *Handler) SelfClose(c *gin.Context) {
	c.HTML(http.StatusOK, "self-close.html", gin.H{})
}

// ---------- 管理者側 ----------

func (h *Handler) AdminRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reg_by_adm.html", gin.H{})
}

// POST /adm_register: 決済確認済みのチェックが無ければ登録しない
func (h *Handler) AdminRegister(c *gin.Context) {
	var form RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "reg_by_adm.html", gin.H{"message": "All required fields must be filled"})
		return
	}

	if c.PostForm("confirmed") != "yes" {
		c.HTML(http.StatusOK, "reg_by_adm.html", gin.H{"message": "User not added. Please confirm payment with admin."})
		return
	}

	message := "User registered successfully"
	if err := h.svc.AdminRegister(c.Request.Context(), form); err != nil {
		var api *APIError
		if errors.As(err, &api) && api.Code == CodeConflict {
			message = "User already exists"
		} else {
			c.String(http.StatusInternalServerError, "registration failed")
			return
		}
	}
	c.HTML(http.StatusOK, "reg_by_adm.html", gin.H{"message": message})
}

// GET /pending_requests?page=&search=
// AJAXにはJSON、それ以外はHTMLを返す
func (h *Handler) PendingRequests(c *gin.Context) {
	page := parseIntDefault(c.Query("page"), 1)
	search := strings.TrimSpace(c.Query("search"))

	res, err := h.svc.PendingRequests(c.Request.Context(), page, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorFromErr(err))
		return
	}

	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		c.JSON(http.StatusOK, res)
		return
	}
	c.HTML(http.StatusOK, "pending_requests.html", gin.H{
		"records":      res.Records,
		"page":         res.Page,
		"total_pages":  res.TotalPages,
		"prev_page":    res.Page - 1,
		"next_page":    res.Page + 1,
		"search_query": search,
	})
}

// POST /confirm/:id
func (h *Handler) Confirm(c *gin.Context) {
	res, err := h.svc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), gin.H{"success": false, "message": messageFromErr(err)})
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /delete/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(toHTTPStatus(err), gin.H{"success": false, "message": messageFromErr(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Record deleted successfully"})
}

// ---------- セッション退避 ----------

var stagedKeys = []string{
	"first_name", "last_name", "email", "phone", "age", "preacher", "center", "message",
}

func stageForm(c *gin.Context, form RegistrationForm) {
	sess := sessions.Default(c)
	sess.Set("first_name", form.FirstName)
	sess.Set("last_name", form.LastName)
	sess.Set("email", form.Email)
	sess.Set("phone", form.Phone)
	sess.Set("age", strconv.Itoa(form.Age))
	sess.Set("preacher", form.Preacher)
	sess.Set("center", form.Center)
	sess.Set("message", form.Message)
	if err := sess.Save(); err != nil {
		log.Printf("[ERROR] failed to stage registration in session: %v", err)
	}
}

func stagedForm(c *gin.Context) (RegistrationForm, bool) {
	sess := sessions.Default(c)
	get := func(key string) string {
		v, _ := sess.Get(key).(string)
		return v
	}

	form := RegistrationForm{
		FirstName: get("first_name"),
		LastName:  get("last_name"),
		Email:     get("email"),
		Phone:     get("phone"),
		Preacher:  get("preacher"),
		Center:    get("center"),
		Message:   get("message"),
	}
	form.Age, _ = strconv.Atoi(get("age"))

	if form.FirstName == "" || form.LastName == "" || form.Phone == "" {
		return RegistrationForm{}, false
	}
	return form, true
}

func clearStaged(c *gin.Context) {
	sess := sessions.Default(c)
	for _, k := range stagedKeys {
		sess.Delete(k)
	}
	if err := sess.Save(); err != nil {
		log.Printf("[ERROR] failed to clear staged registration: %v", err)
	}
}

// ---------- helpers ----------

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

func messageFromErr(err error) string {
	var api *APIError
	if errors.As(err, &api) {
		return api.Message
	}
	return "internal error"
}

func errorFromErr(err error) gin.H {
	return gin.H{"error": gin.H{"code": CodeInternal, "message": messageFromErr(err)}}
}
