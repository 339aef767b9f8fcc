// Package tableio reads a patient table from one of the supported input
// formats into a cohort.Table. Every reader returns cells as uninterpreted
// text; the cohort package decides what they mean.
package tableio

import (
	"fmt"
	"strings"
)

// Format selects the reader for an input path.
type Format string

const (
	// FormatCSV is delimited text, optionally compressed.
	FormatCSV Format = "csv"

	// FormatExcel is a spreadsheet, either legacy .xls or .xlsx.
	FormatExcel Format = "excel"

	// FormatSAS is a SAS7BDAT data set.
	FormatSAS Format = "sas"

	// FormatStata is a Stata .dta data set.
	FormatStata Format = "stata"

	// FormatBigQuery is a table reference, project.dataset.table.
	FormatBigQuery Format = "bigquery"
)

var Formats = []Format{FormatCSV, FormatExcel, FormatSAS, FormatStata, FormatBigQuery}

// ParseFormat is case insensitive. "delimited" and "text" are accepted for
// csv, "spreadsheet" for excel.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "delimited", "text", "tsv":
		return FormatCSV, nil
	case "excel", "spreadsheet", "xls", "xlsx":
		return FormatExcel, nil
	case "sas", "sas7bdat":
		return FormatSAS, nil
	case "stata", "dta":
		return FormatStata, nil
	case "bigquery", "bq":
		return FormatBigQuery, nil
	}

	return "", fmt.Errorf("file type %q is not recognized. Valid choices are %v", s, Formats)
}

func (f Format) String() string {
	return string(f)
}
