package attendance

const (
	NumDays    = 7
	DateLayout = "2006-01-02"
)

// DashboardRecord: users と attendance を結合した一覧表示用の行
type DashboardRecord struct {
	UserID         string        `json:"user_id"`
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	Days           [NumDays]bool `json:"days"`
	QRCodeURL      string        `json:"qr_code_url"`
	QRCodeLocation string        `json:"qr_code_location"`
}

type DashboardPage struct {
	Records    []DashboardRecord `json:"records"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Search     string            `json:"search"`
}
