package cohort

import (
	"strings"
)

// patientRow is a compact way to describe one input row:
// id, diagnosis "YYYY-MM-DD", last contact "YYYY-MM-DD", vital status.
type patientRow struct {
	id, dx, lc, status string
}

func split(date string) []string {
	parts := strings.SplitN(date, "-", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts
}

func testTable(rows ...patientRow) *Table {
	cols := DefaultColumns()
	header := []string{
		"OTHER",
		cols.Index,
		cols.DiagnosisYear, cols.DiagnosisMonth, cols.DiagnosisDay,
		cols.LastContactYear, cols.LastContactMonth, cols.LastContactDay,
		cols.VitalStatus,
	}

	out := make([][]string, 0, len(rows))
	for _, v := range rows {
		row := []string{"x", v.id}
		row = append(row, split(v.dx)...)
		row = append(row, split(v.lc)...)
		row = append(row, v.status)
		out = append(out, row)
	}

	return NewTable(header, out)
}

func testPatients(rows ...patientRow) []Patient {
	ps, err := Patients(testTable(rows...), DefaultColumns())
	if err != nil {
		panic(err)
	}

	return ReconstructDates(ps)
}
