package tableio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/relsurv"
	"github.com/carbocation/relsurv/cohort"
)

// Source describes where the patient table lives and how to read it.
type Source struct {
	// A local path, a gs:// path, or for BigQuery a project.dataset.table
	// reference.
	Path    string
	Format  Format
	Options ReaderOptions
}

// Read loads the complete table described by src into memory. The storage
// client is only needed for gs:// paths and may be nil otherwise.
func Read(ctx context.Context, src Source, client *storage.Client) (*cohort.Table, error) {
	if err := src.Options.CheckApplies(src.Format); err != nil {
		return nil, pfx.Err(err)
	}

	if src.Format == FormatBigQuery {
		return ReadBigQuery(ctx, src.Path, src.Options)
	}

	data, err := relsurv.ReadAll(ctx, src.Path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var tab *cohort.Table
	switch src.Format {
	case FormatCSV:
		tab, err = ReadCSV(bytes.NewReader(data), src.Options)
	case FormatExcel:
		tab, err = ReadExcel(data, src.Options)
	case FormatSAS:
		tab, err = ReadSAS(data)
	case FormatStata:
		tab, err = ReadStata(data)
	default:
		err = fmt.Errorf("file type %q is not recognized", src.Format)
	}
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", src.Path, err))
	}

	return tab, nil
}

// decompress undoes any whole-file compression. A zip signature is only
// treated as compression when zipIsCompression is set, since .xlsx files are
// themselves zip archives.
func decompress(data []byte, zipIsCompression bool) ([]byte, error) {
	switch relsurv.DetectDataTypeBytes(data) {
	case relsurv.DataTypeNoCompression, relsurv.DataTypeOLE2, relsurv.DataTypeInvalid:
		return data, nil
	case relsurv.DataTypeZip:
		if !zipIsCompression {
			return data, nil
		}
	}

	r, _, err := relsurv.MaybeDecompressReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return io.ReadAll(r)
}

// trimHeader removes a UTF-8 byte order mark and surrounding whitespace from
// column names, then drops unnamed trailing columns.
func trimHeader(header []string) []string {
	out := make([]string, len(header))
	copy(out, header)

	if len(out) > 0 {
		out[0] = strings.TrimPrefix(out[0], "\ufeff")
	}
	for i, v := range out {
		out[i] = strings.TrimSpace(v)
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return out
}
