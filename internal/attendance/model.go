package attendance

// DB行に対応（スキャン用）
type recordRow struct {
	UserID string
	Name   string
	Phone  string
	Days   [NumDays]int
}

func (r recordRow) toDTO() DashboardRecord {
	var days [NumDays]bool
	for i, d := range r.Days {
		days[i] = d != 0
	}
	return DashboardRecord{
		UserID:         r.UserID,
		Name:           r.Name,
		Phone:          r.Phone,
		Days:           days,
		QRCodeURL:      "static/qr_codes/" + r.UserID + ".png",
		QRCodeLocation: r.UserID + ".png",
	}
}
