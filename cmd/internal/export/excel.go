package export

import (
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// Excel writes rows to a single-sheet workbook under a styled header.
// An empty slice still yields a valid workbook with the header only.
func Excel(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#16A34A"}},
	})
	if err != nil {
		return nil, err
	}
	if err = f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		vals := r.values()
		line := make([]any, len(vals))
		for j, v := range vals {
			line[j] = v
		}
		if err = f.SetSheetRow(sheetName, cell, &line); err != nil {
			return nil, err
		}
	}

	if err = f.SetColWidth(sheetName, "A", "A", 38); err != nil {
		return nil, err
	}
	if err = f.SetColWidth(sheetName, "B", "H", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
