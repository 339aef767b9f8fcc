package cohort

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// A date fragment is a run of digits, optionally written the way spreadsheets
// and statistical packages print whole numbers ("2015.0").
var dateFragment = regexp.MustCompile(`^([0-9]+)(?:\.0*)?$`)

// ReconstructDate assembles a calendar date from separately stored year, month
// and day fields, read as year-month-day. If the three fields do not denote a
// real calendar date (a missing or non-numeric fragment, month 13, February
// 30th, ...), the returned date is not Valid. It never fails otherwise.
func ReconstructDate(year, month, day string) bigquery.NullDate {
	y, ok := parseDateFragment(year)
	if !ok {
		return bigquery.NullDate{}
	}
	m, ok := parseDateFragment(month)
	if !ok {
		return bigquery.NullDate{}
	}
	d, ok := parseDateFragment(day)
	if !ok {
		return bigquery.NullDate{}
	}

	// civil.ParseDate rejects out-of-range months and days, and years that
	// do not fit in four digits.
	dt, err := civil.ParseDate(fmt.Sprintf("%04d-%02d-%02d", y, m, d))
	if err != nil {
		return bigquery.NullDate{}
	}

	return bigquery.NullDate{
		Date:  dt,
		Valid: true,
	}
}

func parseDateFragment(s string) (int, bool) {
	match := dateFragment.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return 0, false
	}

	v, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	return v, true
}

// minDate returns the earlier of two dates.
func minDate(a, b civil.Date) civil.Date {
	if b.Before(a) {
		return b
	}

	return a
}
