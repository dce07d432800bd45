package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/reservation-admin/internal/model"
)

const (
	sheetName   = "Bookings"
	defaultName = "Sheet1"
)

// ContentType is the media type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var columns = []string{"Name", "Phone", "Date", "Time", "Service"}

// FileName returns the download name for a listing.
func FileName(l *model.Listing) string {
	switch l.View {
	case model.ViewToday, model.ViewDate:
		return fmt.Sprintf("bookings-%s.xlsx", l.Date)
	default:
		return "bookings-all.xlsx"
	}
}

// WriteReservations writes the renderable rows of a listing as a workbook to w.
// It returns the number of rows written.
func WriteReservations(w io.Writer, l *model.Listing) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultName, sheetName); err != nil {
		return 0, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: l.Title(), Creator: "reservation-admin"}); err != nil {
		return 0, fmt.Errorf("set properties: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := writeRow(f, 1, header); err != nil {
		return 0, err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("create header style: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return 0, fmt.Errorf("resolve header range: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", end, style); err != nil {
		return 0, fmt.Errorf("style header: %w", err)
	}

	rows, _ := l.Renderable()
	for i, r := range rows {
		if err := writeRow(f, i+2, []interface{}{r.Name, r.DisplayPhone(), r.Date, r.Time, r.DisplayService()}); err != nil {
			return i, err
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(rows), nil
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
