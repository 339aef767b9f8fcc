package tableio

import (
	"bytes"
	"compress/gzip"
	"reflect"
	"strings"
	"testing"
)

const cohortCSV = `STUDYID,D_DATE_OF_DIAGNOSIS_YYYY,D_DATE_OF_DIAGNOSIS_MM,D_DATE_OF_DIAGNOSIS_DD,D_DATE_OF_LAST_CONTACT_YYYY,D_DATE_OF_LAST_CONTACT_MM,D_DATE_OF_LAST_CONTACT_DD,D_VITAL_STATUS
A,2015,1,1,2019,6,15,Alive
B,2015,1,1,2021,3,1,Dead
`

func TestReadCSVDelimiters(t *testing.T) {
	for _, sep := range []string{",", ";", "\t", "|"} {
		input := strings.ReplaceAll(cohortCSV, ",", sep)

		tab, err := ReadCSV(strings.NewReader(input), ReaderOptions{})
		if err != nil {
			t.Fatalf("%q: %v", sep, err)
		}

		if len(tab.Header) != 8 {
			t.Errorf("%q: expected 8 columns, got %d: %q", sep, len(tab.Header), tab.Header)
		}
		if tab.Len() != 2 {
			t.Errorf("%q: expected 2 rows, got %d", sep, tab.Len())
		}
		if got, _ := tab.Column("D_VITAL_STATUS"); !reflect.DeepEqual(got, []string{"Alive", "Dead"}) {
			t.Errorf("%q: unexpected vital status %q", sep, got)
		}
	}
}

func TestReadCSVExplicitSep(t *testing.T) {
	input := "a;b,c\n1;2,3\n"

	tab, err := ReadCSV(strings.NewReader(input), ReaderOptions{Sep: ";"})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(tab.Header, []string{"a", "b,c"}) {
		t.Errorf("Unexpected header %q", tab.Header)
	}
}

func TestReadCSVGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(cohortCSV)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	tab, err := ReadCSV(&buf, ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if tab.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", tab.Len())
	}
}

func TestReadCSVSkipRowsAndComments(t *testing.T) {
	input := "exported 2021-01-01\n\xef\xbb\xbfid\tstatus\n# a note\n1\tAlive\n\n2\tDead\n"

	tab, err := ReadCSV(strings.NewReader(input), ReaderOptions{SkipRows: 1, Comment: "#"})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(tab.Header, []string{"id", "status"}) {
		t.Errorf("Unexpected header %q", tab.Header)
	}
	if !reflect.DeepEqual(tab.Rows, [][]string{{"1", "Alive"}, {"2", "Dead"}}) {
		t.Errorf("Unexpected rows %q", tab.Rows)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader(""), ReaderOptions{}); err == nil {
		t.Errorf("Expected an error for an empty file")
	}
}

func TestReadCSVEscapeChar(t *testing.T) {
	input := "id,note\n1,\"said \\\"hi\\\"\"\n2,plain\n"

	tab, err := ReadCSV(strings.NewReader(input), ReaderOptions{Sep: ",", EscapeChar: "\\"})
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := tab.Column("note"); !reflect.DeepEqual(got, []string{`said "hi"`, "plain"}) {
		t.Errorf("Unexpected notes %q", got)
	}

	if _, err := ReadCSV(strings.NewReader(input), ReaderOptions{Sep: ","}); err == nil {
		t.Errorf("Expected backslash-escaped quotes to fail without escapechar")
	}
}

func TestReadCSVKeepsCellsVerbatim(t *testing.T) {
	input := " id ,status\n 1 , Dead\n2,Alive \n"

	tab, err := ReadCSV(strings.NewReader(input), ReaderOptions{Sep: ","})
	if err != nil {
		t.Fatal(err)
	}

	// Column names are trimmed so they can be looked up; values are not.
	if !reflect.DeepEqual(tab.Header, []string{"id", "status"}) {
		t.Errorf("Unexpected header %q", tab.Header)
	}
	if !reflect.DeepEqual(tab.Rows, [][]string{{" 1 ", " Dead"}, {"2", "Alive "}}) {
		t.Errorf("Unexpected rows %q", tab.Rows)
	}
}
