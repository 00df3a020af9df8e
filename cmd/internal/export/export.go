package export

import (
	"fmt"
	"time"

	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/utils"
)

const (
	FormatJSON  = "json"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// Row is one exported booking.
type Row struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	CourtName  string `json:"courtName"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// File is a rendered export ready to be served as an attachment.
type File struct {
	Body        []byte
	ContentType string
	Filename    string
}

var columns = []string{"ID", "Player", "Court", "Date", "Start", "End", "Status", "Created At"}

func ValidFormat(format string) bool {
	switch format {
	case FormatJSON, FormatExcel, FormatPDF:
		return true
	}
	return false
}

// Rows expects bookings with their User and Court loaded.
func Rows(bookings []*entity.Booking) []Row {
	rows := make([]Row, len(bookings))
	for i, b := range bookings {
		rows[i] = Row{
			ID:         b.ID,
			PlayerName: b.User.FullName(),
			CourtName:  b.Court.Name,
			Date:       b.Date,
			StartTime:  utils.FormatHour(b.StartTime),
			EndTime:    utils.FormatHour(b.EndTime),
			Status:     b.Status,
			CreatedAt:  utils.FormatTime(b.CreatedAt),
		}
	}
	return rows
}

// Render produces the binary formats. JSON is served directly by the caller.
func Render(format string, rows []Row, generatedAt time.Time) (*File, error) {
	stamp := generatedAt.UTC().Format("20060102-150405")

	switch format {
	case FormatExcel:
		body, err := Excel(rows)
		if err != nil {
			return nil, err
		}
		return &File{
			Body:        body,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    fmt.Sprintf("bookings-%s.xlsx", stamp),
		}, nil

	case FormatPDF:
		body, err := PDF(rows, generatedAt)
		if err != nil {
			return nil, err
		}
		return &File{
			Body:        body,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("bookings-%s.pdf", stamp),
		}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

func (r Row) values() []string {
	return []string{r.ID, r.PlayerName, r.CourtName, r.Date, r.StartTime, r.EndTime, r.Status, r.CreatedAt}
}
