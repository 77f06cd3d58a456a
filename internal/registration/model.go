package registration

// User: users テーブルの1行。IDは identity.UserID による派生キー。
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Age       int
	Preacher  string
	Center    string
	Message   *string
	PaymentID *string
	IsPending bool
}

func (u User) toPendingDTO() PendingUserDTO {
	paymentID := "N/A"
	if u.PaymentID != nil && *u.PaymentID != "" {
		paymentID = *u.PaymentID
	}
	return PendingUserDTO{
		ID:        u.ID,
		PaymentID: paymentID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Age:       u.Age,
		Preacher:  u.Preacher,
		Center:    u.Center,
	}
}
