package cohort

import (
	"cloud.google.com/go/bigquery"
)

// Patient is one row of the input table, reduced to the fields the pipeline
// consumes. The raw fields are filled in by Patients; the derived fields are
// filled in by the pipeline stages, each of which returns new values rather
// than modifying its input.
type Patient struct {
	// Position of the row in the input table, starting at 0.
	Row int

	ID string

	DiagnosisYear  string
	DiagnosisMonth string
	DiagnosisDay   string

	LastContactYear  string
	LastContactMonth string
	LastContactDay   string

	VitalStatus string

	// Set by ReconstructDates
	Diagnosed   bigquery.NullDate
	LastContact bigquery.NullDate

	// Set by ApplyStudyEnd
	VitalStatusAtEnd   string
	LastContactClipped bigquery.NullDate
	Reclassified       bool
}

// Patients extracts one Patient per table row, in table order. Every expected
// column must be present.
func Patients(t *Table, cols Columns) ([]Patient, error) {
	if missing := t.MissingColumns(cols.Expected()); len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	idx := func(name string) int {
		i, _ := t.ColumnIndex(name)
		return i
	}

	var (
		index   = idx(cols.Index)
		dxYear  = idx(cols.DiagnosisYear)
		dxMonth = idx(cols.DiagnosisMonth)
		dxDay   = idx(cols.DiagnosisDay)
		lcYear  = idx(cols.LastContactYear)
		lcMonth = idx(cols.LastContactMonth)
		lcDay   = idx(cols.LastContactDay)
		vital   = idx(cols.VitalStatus)
	)

	out := make([]Patient, 0, t.Len())
	for row := range t.Rows {
		out = append(out, Patient{
			Row:              row,
			ID:               t.Value(row, index),
			DiagnosisYear:    t.Value(row, dxYear),
			DiagnosisMonth:   t.Value(row, dxMonth),
			DiagnosisDay:     t.Value(row, dxDay),
			LastContactYear:  t.Value(row, lcYear),
			LastContactMonth: t.Value(row, lcMonth),
			LastContactDay:   t.Value(row, lcDay),
			VitalStatus:      t.Value(row, vital),
		})
	}

	return out, nil
}

// ReconstructDates builds the diagnosis and last contact dates of every
// patient. Unparseable dates are left invalid for DropUnparseable to remove.
func ReconstructDates(patients []Patient) []Patient {
	out := make([]Patient, len(patients))
	for i, p := range patients {
		p.Diagnosed = ReconstructDate(p.DiagnosisYear, p.DiagnosisMonth, p.DiagnosisDay)
		p.LastContact = ReconstructDate(p.LastContactYear, p.LastContactMonth, p.LastContactDay)
		out[i] = p
	}

	return out
}
