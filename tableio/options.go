package tableio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ReaderOptions are the reader-specific settings supplied as a JSON object.
// Each key only applies to some formats; supplying a key the chosen format
// does not understand is an error rather than being silently ignored.
type ReaderOptions struct {
	// Single character separating fields. Detected when empty. (csv)
	Sep string `json:"sep,omitempty"`

	// Number of lines to skip before the header. (csv, excel)
	SkipRows int `json:"skiprows,omitempty"`

	// Lines starting with this character are ignored. (csv)
	Comment string `json:"comment,omitempty"`

	// Allow quotes to appear inside unquoted fields. (csv)
	LazyQuotes bool `json:"lazy_quotes,omitempty"`

	// Character used to escape quotes inside quoted fields, typically a
	// backslash. (csv)
	EscapeChar string `json:"escapechar,omitempty"`

	// Sheet name, or its 0-based position. Defaults to the first sheet.
	// (excel)
	SheetName string `json:"sheet_name,omitempty"`

	// Project billed for the query. Defaults to the project of the table.
	// (bigquery)
	Project string `json:"project,omitempty"`
}

// ParseReaderOptions decodes the JSON object in s. Empty input yields the zero
// value. Unknown keys are rejected.
func ParseReaderOptions(s string) (ReaderOptions, error) {
	out := ReaderOptions{}

	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("reader options %s could not be parsed: %w", s, err)
	}
	if dec.More() {
		return out, fmt.Errorf("reader options %s: expected a single JSON object", s)
	}

	if out.SkipRows < 0 {
		return out, fmt.Errorf("reader options: skiprows must not be negative, got %d", out.SkipRows)
	}
	if out.Sep != "" && utf8.RuneCountInString(out.Sep) != 1 {
		return out, fmt.Errorf("reader options: sep must be a single character, got %q", out.Sep)
	}
	if out.Comment != "" && utf8.RuneCountInString(out.Comment) != 1 {
		return out, fmt.Errorf("reader options: comment must be a single character, got %q", out.Comment)
	}
	if out.EscapeChar != "" && utf8.RuneCountInString(out.EscapeChar) != 1 {
		return out, fmt.Errorf("reader options: escapechar must be a single character, got %q", out.EscapeChar)
	}

	return out, nil
}

// CheckApplies returns an error naming the first option that has been set but
// that the format does not use.
func (o ReaderOptions) CheckApplies(f Format) error {
	set := map[string]bool{
		"sep":         o.Sep != "",
		"skiprows":    o.SkipRows != 0,
		"comment":     o.Comment != "",
		"lazy_quotes": o.LazyQuotes,
		"escapechar":  o.EscapeChar != "",
		"sheet_name":  o.SheetName != "",
		"project":     o.Project != "",
	}

	allowed := map[Format][]string{
		FormatCSV:      {"sep", "skiprows", "comment", "lazy_quotes", "escapechar"},
		FormatExcel:    {"skiprows", "sheet_name"},
		FormatSAS:      {},
		FormatStata:    {},
		FormatBigQuery: {"project"},
	}

	ok, exists := allowed[f]
	if !exists {
		return fmt.Errorf("file type %q is not recognized", f)
	}

	for _, key := range []string{"sep", "skiprows", "comment", "lazy_quotes", "escapechar", "sheet_name", "project"} {
		if !set[key] {
			continue
		}
		if !contains(ok, key) {
			return fmt.Errorf("reader option %q does not apply to file type %q", key, f)
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}

func (o ReaderOptions) sepRune() rune {
	r, _ := utf8.DecodeRuneInString(o.Sep)
	return r
}

func (o ReaderOptions) commentRune() rune {
	if o.Comment == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(o.Comment)
	return r
}

func (o ReaderOptions) escapeRune() rune {
	if o.EscapeChar == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(o.EscapeChar)
	return r
}
