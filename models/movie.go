// Package models defines the data structures exchanged with the catalog API
// and stored in the local journal.
package models

// MovieType classifies a movie in the catalog
type MovieType string

// Movie type constants
const (
	MovieTypeSingle    MovieType = "phim-le"
	MovieTypeSeries    MovieType = "phim-bo"
	MovieTypeAnimation MovieType = "hoat-hinh"
)

// MovieState is the publication state of a movie
type MovieState string

// Movie state constants
const (
	StateAiring   MovieState = "dangchieu"
	StateFinished MovieState = "hoanthanh"
	StateUpdating MovieState = "dangcapnhat"
)

// Movie mirrors the upstream movie resource (GET/PUT /phim/{slug}/)
type Movie struct {
	ID           int             `json:"id,omitempty"`
	Slug         string          `json:"slug"`
	Title        string          `json:"ten_phim"`
	AltTitle     string          `json:"ten_khac,omitempty"`
	Description  string          `json:"mo_ta,omitempty"`
	TMDB         string          `json:"tmdb,omitempty"`
	PosterURL    string          `json:"poster_url,omitempty"`
	BannerURL    string          `json:"banner_url,omitempty"`
	TitleImage   string          `json:"ten_phim_image,omitempty"`
	TrailerURL   string          `json:"trailer_url,omitempty"`
	Year         int             `json:"nam_phat_hanh,omitempty"`
	Country      string          `json:"quoc_gia,omitempty"`
	Genres       []string        `json:"the_loai"`
	Type         MovieType       `json:"loai_phim,omitempty"`
	EpisodeCount string          `json:"so_tap,omitempty"`
	Progress     string          `json:"tinh_trang,omitempty"`
	Duration     string          `json:"thoi_luong,omitempty"`
	Quality      string          `json:"chat_luong,omitempty"`
	Language     string          `json:"ngon_ngu,omitempty"`
	Director     string          `json:"dao_dien,omitempty"`
	Cast         []string        `json:"dien_vien,omitempty"`
	State        MovieState      `json:"trang_thai,omitempty"`
	Views        int             `json:"luot_xem"`
	InTheaters   bool            `json:"chieu_rap"`
	Schedule     []ScheduleEntry `json:"lich_chieu,omitempty"`
}

// MovieSummary is a search hit or list row
type MovieSummary struct {
	ID        int    `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"ten_phim"`
	PosterURL string `json:"poster_url,omitempty"`
	Year      int    `json:"nam_phat_hanh,omitempty"`
}

// ScheduleEntry is a recurring weekly screening slot. Weekday runs from
// 2 (Monday) to 8 (Sunday); Time is "HH:MM".
type ScheduleEntry struct {
	Weekday int    `json:"thu_trong_tuan"`
	Time    string `json:"gio_chieu"`
}

// ScheduledMovie is a row of the per-day schedule board
type ScheduledMovie struct {
	MovieSummary
	Schedule []ScheduleEntry `json:"lich_chieu,omitempty"`
}

// Notice is the announcement banner attached to a movie
type Notice struct {
	Content string `json:"noidung"`
}

// CatalogTotals aggregates the dashboard counters
type CatalogTotals struct {
	TotalMovies  int `json:"total_phim"`
	UpdatedToday int `json:"phim_hom_nay"`
}

// Weekday bounds used by the schedule endpoints
const (
	WeekdayMonday = 2
	WeekdaySunday = 8
)

// WeekdayName returns the Vietnamese label of a weekday number
func WeekdayName(weekday int) string {
	switch weekday {
	case 2:
		return "Thứ Hai"
	case 3:
		return "Thứ Ba"
	case 4:
		return "Thứ Tư"
	case 5:
		return "Thứ Năm"
	case 6:
		return "Thứ Sáu"
	case 7:
		return "Thứ Bảy"
	case 8:
		return "Chủ Nhật"
	default:
		return ""
	}
}
