package tableio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/relsurv"
	"github.com/carbocation/relsurv/cohort"
)

// Only this much of the file is inspected when guessing the delimiter.
const delimiterSampleSize = 64 * 1024

// ReadCSV reads delimited text. The input may be compressed. Without a sep
// option the delimiter is guessed from the first lines after skiprows.
func ReadCSV(r io.Reader, opts ReaderOptions) (*cohort.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	data, err := decompress(raw, true)
	if err != nil {
		return nil, pfx.Err(err)
	}

	data = skipLines(data, opts.SkipRows)

	delim := opts.sepRune()
	if opts.Sep == "" {
		delim = relsurv.DetermineDelimiterBytes(sample(data, opts.commentRune()))
	}

	cr := csv.NewReader(newEscapeReader(bytes.NewReader(data), opts.escapeRune()))
	cr.Comma = delim
	cr.Comment = opts.commentRune()
	cr.LazyQuotes = opts.LazyQuotes
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	records, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("reading with delimiter %q: %w", delim, err))
	}

	if len(records) == 0 {
		return nil, pfx.Err(fmt.Errorf("no header row found"))
	}

	return cohort.NewTable(trimHeader(records[0]), records[1:]), nil
}

func skipLines(data []byte, n int) []byte {
	for i := 0; i < n && len(data) > 0; i++ {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			return nil
		}
		data = data[idx+1:]
	}

	return data
}

// sample returns whole lines from the start of data, leaving out comments and
// blank lines so they do not skew the guess.
func sample(data []byte, comment rune) []byte {
	if len(data) > delimiterSampleSize {
		data = data[:delimiterSampleSize]
		if idx := bytes.LastIndexByte(data, '\n'); idx > 0 {
			data = data[:idx+1]
		}
	}

	var out bytes.Buffer
	for _, line := range strings.SplitAfter(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if comment != 0 && strings.HasPrefix(trimmed, string(comment)) {
			continue
		}
		out.WriteString(line)
	}

	return out.Bytes()
}
