package cohort

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DefaultStudyEnd is the administrative censoring boundary used when none is
// configured: the last day of 2020.
var DefaultStudyEnd = civil.Date{Year: 2020, Month: time.December, Day: 31}

const (
	DefaultAlive    = "Alive"
	DefaultDeceased = "Dead"
)

// Columns names the input fields that the pipeline consumes.
type Columns struct {
	Index string

	DiagnosisYear  string
	DiagnosisMonth string
	DiagnosisDay   string

	LastContactYear  string
	LastContactMonth string
	LastContactDay   string

	VitalStatus string
}

func DefaultColumns() Columns {
	return Columns{
		Index:            "STUDYID",
		DiagnosisYear:    "D_DATE_OF_DIAGNOSIS_YYYY",
		DiagnosisMonth:   "D_DATE_OF_DIAGNOSIS_MM",
		DiagnosisDay:     "D_DATE_OF_DIAGNOSIS_DD",
		LastContactYear:  "D_DATE_OF_LAST_CONTACT_YYYY",
		LastContactMonth: "D_DATE_OF_LAST_CONTACT_MM",
		LastContactDay:   "D_DATE_OF_LAST_CONTACT_DD",
		VitalStatus:      "D_VITAL_STATUS",
	}
}

// Expected lists every column that must be present in the input, in the order
// they are reported when missing.
func (c Columns) Expected() []string {
	return []string{
		c.Index,
		c.DiagnosisYear,
		c.DiagnosisMonth,
		c.DiagnosisDay,
		c.LastContactYear,
		c.LastContactMonth,
		c.LastContactDay,
		c.VitalStatus,
	}
}

// Sentinels are the raw vital status values that denote alive and deceased.
type Sentinels struct {
	Alive    string
	Deceased string
}

// UnknownStatusPolicy decides what happens to vital status values that are
// neither the alive nor the deceased sentinel.
type UnknownStatusPolicy string

const (
	// UnknownStatusReject rejects the input during validation.
	UnknownStatusReject UnknownStatusPolicy = "error"

	// UnknownStatusMissing keeps the rows and leaves their censor flag empty.
	UnknownStatusMissing UnknownStatusPolicy = "missing"
)

// NegativeSurvivalPolicy decides what happens to patients whose last contact
// precedes their diagnosis.
type NegativeSurvivalPolicy string

const (
	NegativeSurvivalDrop   NegativeSurvivalPolicy = "drop"
	NegativeSurvivalReject NegativeSurvivalPolicy = "error"
	NegativeSurvivalKeep   NegativeSurvivalPolicy = "keep"
)

// Options configures one pipeline invocation. It is read-only once Run
// starts.
type Options struct {
	Columns          Columns
	Sentinels        Sentinels
	StudyEnd         civil.Date
	UnknownStatus    UnknownStatusPolicy
	NegativeSurvival NegativeSurvivalPolicy
}

func DefaultOptions() Options {
	return Options{
		Columns: DefaultColumns(),
		Sentinels: Sentinels{
			Alive:    DefaultAlive,
			Deceased: DefaultDeceased,
		},
		StudyEnd:         DefaultStudyEnd,
		UnknownStatus:    UnknownStatusReject,
		NegativeSurvival: NegativeSurvivalDrop,
	}
}

// Validate checks the options for internal consistency. It does not look at
// any data.
func (o Options) Validate() error {
	for i, v := range o.Columns.Expected() {
		if v == "" {
			return fmt.Errorf("column name %d of %v is empty", i, o.Columns.Expected())
		}
	}

	if o.Sentinels.Alive == "" {
		return fmt.Errorf("the vital status value indicating alive is empty")
	}
	if o.Sentinels.Deceased == "" {
		return fmt.Errorf("the vital status value indicating deceased is empty")
	}
	if o.Sentinels.Alive == o.Sentinels.Deceased {
		return fmt.Errorf("the vital status values indicating alive and deceased are both %q", o.Sentinels.Alive)
	}

	if !o.StudyEnd.IsValid() {
		return fmt.Errorf("study end date %v is not a valid date", o.StudyEnd)
	}

	switch o.UnknownStatus {
	case UnknownStatusReject, UnknownStatusMissing:
	default:
		return fmt.Errorf("unknown vital status policy %q: expected %q or %q", o.UnknownStatus, UnknownStatusReject, UnknownStatusMissing)
	}

	switch o.NegativeSurvival {
	case NegativeSurvivalDrop, NegativeSurvivalReject, NegativeSurvivalKeep:
	default:
		return fmt.Errorf("negative survival policy %q: expected %q, %q or %q", o.NegativeSurvival, NegativeSurvivalDrop, NegativeSurvivalReject, NegativeSurvivalKeep)
	}

	return nil
}
