package relsurv

import (
	"strings"
	"testing"
)

func TestDetermineDelimiter(t *testing.T) {
	for _, v := range []struct {
		Name     string
		Input    string
		Expected rune
	}{
		{"comma", "STUDYID,D_VITAL_STATUS,D_DATE_OF_DIAGNOSIS_YYYY\n1,Alive,2015\n2,Dead,2016\n", ','},
		{"semicolon", "STUDYID;D_VITAL_STATUS;D_DATE_OF_DIAGNOSIS_YYYY\n1;Alive;2015\n2;Dead;2016\n", ';'},
		{"tab", "STUDYID\tD_VITAL_STATUS\tD_DATE_OF_DIAGNOSIS_YYYY\n1\tAlive\t2015\n2\tDead\t2016\n", '\t'},
		{"pipe", "STUDYID|D_VITAL_STATUS\n1|Alive\n2|Dead\n", '|'},
		{"quoted commas are ignored", "STUDYID;NOTE\n1;\"a, b\"\n2;\"c, d, e\"\n", ';'},
		{"single column falls back to comma", "STUDYID\n1\n2\n", ','},
	} {
		if got := DetermineDelimiter(strings.NewReader(v.Input)); got != v.Expected {
			t.Errorf("%s: got %q, expected %q", v.Name, got, v.Expected)
		}
	}
}
