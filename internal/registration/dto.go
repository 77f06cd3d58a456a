package registration

import (
	"kathamritam-backend/internal/identity"
	"kathamritam-backend/internal/notify"
)

// RegistrationForm: 公開フォーム・管理者直登録フォーム共通の入力
type RegistrationForm struct {
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	Email     string `form:"email" binding:"required"`
	Phone     string `form:"phone" binding:"required"`
	Age       int    `form:"age" binding:"required"`
	Preacher  string `form:"preacher" binding:"required"`
	Center    string `form:"center" binding:"required"`
	Message   string `form:"message"`
}

func (f RegistrationForm) toUser(paymentID string, pending bool) *User {
	u := &User{
		ID:        identity.UserID(f.FirstName, f.LastName, f.Phone),
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Age:       f.Age,
		Preacher:  f.Preacher,
		Center:    f.Center,
		IsPending: pending,
	}
	if f.Message != "" {
		u.Message = &f.Message
	}
	if paymentID != "" {
		u.PaymentID = &paymentID
	}
	return u
}

type PendingUserDTO struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Age       int    `json:"age"`
	Preacher  string `json:"preacher"`
	Center    string `json:"center"`
}

type PendingPage struct {
	Records    []PendingUserDTO `json:"records"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// ConfirmOutcome: Store.ConfirmWithAttendance のトランザクション結果
type ConfirmOutcome struct {
	Flipped           bool // is_pending を 1→0 にできたか（CAS）
	AttendanceCreated bool // 出席行を新規作成したか（false=既存行あり）
}

type ConfirmResponse struct {
	Success          bool               `json:"success"`
	Message          string             `json:"message"`
	AttendanceStatus string             `json:"attendance_status,omitempty"` // created / already_exists
	Email            *notify.SendResult `json:"email,omitempty"`
}
