package pagination

// Window: ページ番号をクランプした結果
type Window struct {
	Page       int
	TotalPages int
	Offset     int
}

// Clamp: 要求ページを [1, totalPages] に収めて LIMIT/OFFSET 用の窓を返す。
// page=0 や範囲外の大きなページ番号を渡されても必ず有効な窓になる。
// 0件のときは totalPages=0 のまま Page=1 を返す（表示側の都合）。
func Clamp(requested, totalRecords, perPage int) Window {
	if perPage <= 0 {
		perPage = 1
	}
	totalPages := (totalRecords + perPage - 1) / perPage

	page := requested
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	return Window{
		Page:       page,
		TotalPages: totalPages,
		Offset:     (page - 1) * perPage,
	}
}
