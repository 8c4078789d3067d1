package csvread

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/csvqif/internal/model"
)

// ReadXLSX reads one worksheet of a workbook as a table. An empty sheet name
// selects the first sheet. Blank trailing cells dropped by the workbook are
// restored so every row has the width of the first.
func ReadXLSX(path, sheet string, headerPresent bool) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &model.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, &MalformedError{Path: path, Err: ErrEmpty}
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &model.IOError{Op: "read", Path: path, Err: err}
	}

	// Drop trailing blank rows.
	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, &MalformedError{Path: path, Err: ErrEmpty}
	}

	width := len(rows[0])
	lines := make([]int, len(rows))
	for i, row := range rows {
		lines[i] = i + 1
		if len(row) > width {
			return nil, &MalformedError{
				Path: path,
				Line: i + 1,
				Err:  fmt.Errorf("expected %d fields, got %d", width, len(row)),
			}
		}
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return newTable(path, rows, lines, headerPresent)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
