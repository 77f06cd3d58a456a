package pagination

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		name                            string
		requested, totalRecords, perPage int
		wantPage, wantTotal, wantOffset  int
	}{
		{"first page", 1, 120, 50, 1, 3, 0},
		{"middle page", 2, 120, 50, 2, 3, 50},
		{"last page", 3, 120, 50, 3, 3, 100},
		{"page zero clamps to one", 0, 120, 50, 1, 3, 0},
		{"negative page clamps to one", -5, 120, 50, 1, 3, 0},
		{"beyond last clamps down", 9999, 120, 50, 3, 3, 100},
		{"exact multiple", 2, 100, 50, 2, 2, 50},
		{"no records", 1, 0, 50, 1, 0, 0},
		{"no records huge page", 9999, 0, 50, 1, 0, 0},
		{"single record", 7, 1, 50, 1, 1, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := Clamp(c.requested, c.totalRecords, c.perPage)
			if w.Page != c.wantPage || w.TotalPages != c.wantTotal || w.Offset != c.wantOffset {
				t.Errorf("Clamp(%d, %d, %d) = %+v, want page=%d total=%d offset=%d",
					c.requested, c.totalRecords, c.perPage, w, c.wantPage, c.wantTotal, c.wantOffset)
			}
		})
	}
}

func TestClampNeverOutOfRange(t *testing.T) {
	for _, req := range []int{-100, 0, 1, 2, 50, 9999} {
		for _, total := range []int{0, 1, 49, 50, 51, 500} {
			w := Clamp(req, total, 50)
			if w.Page < 1 {
				t.Errorf("Clamp(%d, %d): page %d < 1", req, total, w.Page)
			}
			if w.TotalPages > 0 && w.Page > w.TotalPages {
				t.Errorf("Clamp(%d, %d): page %d > total pages %d", req, total, w.Page, w.TotalPages)
			}
			if w.Offset < 0 {
				t.Errorf("Clamp(%d, %d): negative offset %d", req, total, w.Offset)
			}
		}
	}
}
