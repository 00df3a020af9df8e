package export

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"padelcourt/cmd/internal/domain/entity"

	"github.com/xuri/excelize/v2"
)

func sampleRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		status := entity.BookingConfirmed
		if i%3 == 0 {
			status = entity.BookingCancelled
		}
		rows[i] = Row{
			ID:         fmt.Sprintf("booking-%d", i),
			PlayerName: "José Player",
			CourtName:  "Blue Padel Court",
			Date:       "2025-06-01",
			StartTime:  "14:00",
			EndTime:    "15:30",
			Status:     status,
			CreatedAt:  "2025-05-30T10:00:00Z",
		}
	}
	return rows
}

func TestRows(t *testing.T) {
	b := &entity.Booking{
		Base:      entity.Base{ID: "b1", CreatedAt: time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC)},
		Date:      "2025-06-01",
		StartTime: 14,
		EndTime:   15.5,
		Status:    entity.BookingConfirmed,
		User:      entity.User{FirstName: "Ana", LastName: "Diaz"},
		Court:     entity.Court{Name: "Blue Padel Court"},
	}

	rows := Rows([]*entity.Booking{b})
	want := Row{
		ID:         "b1",
		PlayerName: "Ana Diaz",
		CourtName:  "Blue Padel Court",
		Date:       "2025-06-01",
		StartTime:  "14:00",
		EndTime:    "15:30",
		Status:     entity.BookingConfirmed,
		CreatedAt:  "2025-05-30T10:00:00Z",
	}
	if len(rows) != 1 || rows[0] != want {
		t.Errorf("Rows() = %+v, want %+v", rows, want)
	}
}

func TestExcelEmptyRangeHasHeaderOnly(t *testing.T) {
	body, err := Excel(nil)
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want header only", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][len(columns)-1] != "Created At" {
		t.Errorf("header = %v", rows[0])
	}
}

func TestExcelWritesRows(t *testing.T) {
	body, err := Excel(sampleRows(3))
	if err != nil {
		t.Fatalf("Excel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows(sheetName)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[1][0] != "booking-0" || rows[1][6] != entity.BookingCancelled {
		t.Errorf("first data row = %v", rows[1])
	}
}

func TestPDF(t *testing.T) {
	body, err := PDF(sampleRows(2), time.Now())
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Errorf("output is not a pdf")
	}
}

func TestPDFPaginates(t *testing.T) {
	if n := renderPDF(sampleRows(3), time.Now()).PageCount(); n != 1 {
		t.Errorf("3 rows: %d pages, want 1", n)
	}
	if n := renderPDF(sampleRows(120), time.Now()).PageCount(); n < 2 {
		t.Errorf("120 rows: %d pages, want several", n)
	}
	if n := renderPDF(nil, time.Now()).PageCount(); n != 1 {
		t.Errorf("empty: %d pages, want 1", n)
	}
}

func TestRender(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	file, err := Render(FormatExcel, nil, at)
	if err != nil {
		t.Fatalf("Render excel: %v", err)
	}
	if file.Filename != "bookings-20250601-120000.xlsx" {
		t.Errorf("filename = %s", file.Filename)
	}

	if _, err = Render(FormatJSON, nil, at); err == nil {
		t.Errorf("json should not be rendered to a file")
	}
	if ValidFormat("csv") {
		t.Errorf("csv accepted")
	}
}
