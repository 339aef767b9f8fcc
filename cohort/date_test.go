package cohort

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestReconstructDate(t *testing.T) {
	valid := []struct {
		year, month, day string
		want             civil.Date
	}{
		{"2015", "01", "01", civil.Date{Year: 2015, Month: time.January, Day: 1}},
		{"2015", "1", "1", civil.Date{Year: 2015, Month: time.January, Day: 1}},
		{"2019", "6", "15", civil.Date{Year: 2019, Month: time.June, Day: 15}},
		{"2016", "2", "29", civil.Date{Year: 2016, Month: time.February, Day: 29}},
		{"2015.0", "12.0", "31.", civil.Date{Year: 2015, Month: time.December, Day: 31}},
		{" 2020 ", " 12", "31 ", civil.Date{Year: 2020, Month: time.December, Day: 31}},
	}

	for _, v := range valid {
		got := ReconstructDate(v.year, v.month, v.day)
		if !got.Valid {
			t.Errorf("%q-%q-%q: expected a valid date, got an unparseable one", v.year, v.month, v.day)
			continue
		}
		if got.Date != v.want {
			t.Errorf("%q-%q-%q: expected %s, got %s", v.year, v.month, v.day, v.want, got.Date)
		}
	}

	invalid := [][3]string{
		{"2015", "13", "01"},
		{"2015", "0", "01"},
		{"2015", "02", "29"},
		{"2015", "02", "30"},
		{"2015", "04", "31"},
		{"2015", "01", "32"},
		{"2015", "01", "0"},
		{"2015", "", "01"},
		{"", "01", "01"},
		{"2015", "01", ""},
		{"2015", "Jan", "01"},
		{"2015", "-1", "01"},
		{"2015", "1e1", "01"},
		{"2015", "1.5", "01"},
		{"NaN", "01", "01"},
		{"20150", "01", "01"},
	}

	for _, v := range invalid {
		if got := ReconstructDate(v[0], v[1], v[2]); got.Valid {
			t.Errorf("%q: expected an unparseable date, got %s", v, got.Date)
		}
	}
}

func TestMinDate(t *testing.T) {
	a := civil.Date{Year: 2019, Month: time.June, Day: 15}
	b := civil.Date{Year: 2020, Month: time.December, Day: 31}

	if got := minDate(a, b); got != a {
		t.Errorf("Expected %s, got %s", a, got)
	}
	if got := minDate(b, a); got != a {
		t.Errorf("Expected %s, got %s", a, got)
	}
	if got := minDate(b, b); got != b {
		t.Errorf("Expected %s, got %s", b, got)
	}
}
