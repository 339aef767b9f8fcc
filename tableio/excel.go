package tableio

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/relsurv"
	"github.com/carbocation/relsurv/cohort"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ReadExcel reads one sheet of a spreadsheet. Modern .xlsx workbooks are
// recognized by their zip signature; anything else is read as a legacy .xls
// workbook.
func ReadExcel(data []byte, opts ReaderOptions) (*cohort.Table, error) {
	data, err := decompress(data, false)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var rows [][]string
	if relsurv.DetectDataTypeBytes(data) == relsurv.DataTypeZip {
		rows, err = readXLSX(data, opts.SheetName)
	} else {
		rows, err = readXLS(data, opts.SheetName)
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	if opts.SkipRows >= len(rows) {
		return nil, pfx.Err(fmt.Errorf("no header row found after skipping %d rows", opts.SkipRows))
	}
	rows = dropBlankRows(rows[opts.SkipRows:])
	if len(rows) == 0 {
		return nil, pfx.Err(fmt.Errorf("no header row found"))
	}

	return cohort.NewTable(trimHeader(rows[0]), rows[1:]), nil
}

// pickSheet returns the position of the requested sheet. An empty request
// means the first sheet. A request that is not a sheet name but is a number is
// taken as a 0-based position.
func pickSheet(names []string, want string) (int, error) {
	if len(names) == 0 {
		return 0, fmt.Errorf("the workbook has no sheets")
	}

	if want == "" {
		return 0, nil
	}

	for i, v := range names {
		if v == want {
			return i, nil
		}
	}

	if i, err := strconv.Atoi(want); err == nil && i >= 0 && i < len(names) {
		return i, nil
	}

	return 0, fmt.Errorf("sheet %q not found. Sheets in the workbook: %q", want, names)
}

func readXLSX(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	i, err := pickSheet(names, sheet)
	if err != nil {
		return nil, err
	}

	return f.GetRows(names[i])
}

func readXLS(data []byte, sheet string) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s == nil {
			names = append(names, "")
			continue
		}
		names = append(names, s.Name)
	}

	i, err := pickSheet(names, sheet)
	if err != nil {
		return nil, err
	}

	ws := wb.GetSheet(i)
	if ws == nil {
		return nil, fmt.Errorf("sheet %d was nil", i)
	}

	out := make([][]string, 0, int(ws.MaxRow)+1)
	for rowID := 0; rowID <= int(ws.MaxRow); rowID++ {
		row := xlsRow(ws, rowID)
		if row == nil {
			// Rows without any cell are not stored in the workbook
			out = append(out, nil)
			continue
		}

		cells := make([]string, 0, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			cells = append(cells, row.Col(colID))
		}
		out = append(out, cells)
	}

	return out, nil
}

// xlsRow returns nil for rows that are absent from the sheet. The xls package
// dereferences absent rows.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()

	return ws.Row(i)
}

func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}

	return out
}
