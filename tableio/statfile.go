package tableio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/carbocation/pfx"
	"github.com/carbocation/relsurv/cohort"
	"github.com/kshedden/datareader"
)

// ReadSAS reads a SAS7BDAT data set. Numbers are written without a trailing
// fractional part when they are whole, so a year stored as 2015 reads "2015".
func ReadSAS(data []byte) (*cohort.Table, error) {
	data, err := decompress(data, true)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rdr, err := datareader.NewSAS7BDATReader(bytes.NewReader(data))
	if err != nil {
		return nil, pfx.Err(err)
	}
	rdr.TrimStrings = true

	return readStatfile(rdr)
}

// ReadStata reads a Stata .dta data set. Value labels replace the coded
// values they describe.
func ReadStata(data []byte) (*cohort.Table, error) {
	data, err := decompress(data, true)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rdr, err := datareader.NewStataReader(bytes.NewReader(data))
	if err != nil {
		return nil, pfx.Err(err)
	}
	rdr.InsertStrls = true
	rdr.InsertCategoryLabels = true

	return readStatfile(rdr)
}

func readStatfile(rdr datareader.StatfileReader) (*cohort.Table, error) {
	header := rdr.ColumnNames()

	series, err := rdr.Read(-1)
	if errors.Is(err, io.EOF) {
		// No rows at all
		return cohort.NewTable(trimHeader(header), nil), nil
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	var rows [][]string
	for j, s := range series {
		if s == nil {
			continue
		}

		col, err := seriesStrings(s.Data(), s.Missing())
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("column %q: %w", header[j], err))
		}

		if rows == nil {
			rows = make([][]string, len(col))
			for i := range rows {
				rows[i] = make([]string, len(header))
			}
		}

		for i, v := range col {
			if i < len(rows) {
				rows[i][j] = v
			}
		}
	}

	return cohort.NewTable(trimHeader(header), rows), nil
}

// seriesStrings renders one column as text. Missing values are empty.
func seriesStrings(data interface{}, missing []bool) ([]string, error) {
	isMissing := func(i int) bool {
		return i < len(missing) && missing[i]
	}

	var out []string
	switch vec := data.(type) {
	case []string:
		out = make([]string, len(vec))
		for i, v := range vec {
			if !isMissing(i) {
				out[i] = v
			}
		}
	case []float64:
		out = make([]string, len(vec))
		for i, v := range vec {
			if !isMissing(i) && !math.IsNaN(v) {
				out[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	case []float32:
		out = make([]string, len(vec))
		for i, v := range vec {
			if !isMissing(i) && !math.IsNaN(float64(v)) {
				out[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
			}
		}
	case []int64:
		out = make([]string, len(vec))
		for i, v := range vec {
			if !isMissing(i) {
				out[i] = strconv.FormatInt(v, 10)
			}
		}
	case []int32:
		out = make([]string, len(vec))
		for i, v := range vec {
			if !isMissing(i) {
				out[i] = strconv.FormatInt(int64(v), 10)
			}
		}
	case []int16:
		out = make([]string, len(vec))
		for i, v := range vec {
			if !isMissing(i) {
				out[i] = strconv.FormatInt(int64(v), 10)
			}
		}
	case []int8:
		out = make([]string, len(vec))
		for i, v := range vec {
			if !isMissing(i) {
				out[i] = strconv.FormatInt(int64(v), 10)
			}
		}
	case []uint64:
		out = make([]string, len(vec))
		for i, v := range vec {
			if !isMissing(i) {
				out[i] = strconv.FormatUint(v, 10)
			}
		}
	case []time.Time:
		out = make([]string, len(vec))
		for i, v := range vec {
			if isMissing(i) {
				continue
			}
			if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
				out[i] = v.Format("2006-01-02")
			} else {
				out[i] = v.Format(time.RFC3339)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported column type %T", data)
	}

	return out, nil
}
