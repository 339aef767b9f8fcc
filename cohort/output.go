package cohort

import (
	"encoding/csv"
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

const (
	DefaultCensorColumn   = "censorA.0yes.1no"
	DefaultSurvivalColumn = "survivalA"
)

// OutputHeader names the three output columns, in output order.
type OutputHeader struct {
	ID       string
	Censor   string
	Survival string
}

// DefaultOutputHeader keeps the name of the input's identifier column.
func DefaultOutputHeader(idColumn string) OutputHeader {
	return OutputHeader{
		ID:       idColumn,
		Censor:   DefaultCensorColumn,
		Survival: DefaultSurvivalColumn,
	}
}

func (h OutputHeader) Fields() []string {
	return []string{h.ID, h.Censor, h.Survival}
}

// WriteCSV serializes the records as comma-delimited text: a header row, then
// one row per record in the order given. A null censor flag is written as an
// empty cell.
func WriteCSV(w io.Writer, header OutputHeader, records []SurvivalRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header.Fields()); err != nil {
		return pfx.Err(err)
	}

	// gocsv derives its own header from the struct tags, so it only writes
	// the body here.
	if err := gocsv.MarshalCSVWithoutHeaders(records, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return pfx.Err(err)
	}

	cw.Flush()

	return pfx.Err(cw.Error())
}
