package cohort

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

// Report is the row-count provenance of one run, kept so that every dropped
// or modified patient can be accounted for.
type Report struct {
	Read int

	VitalStatusCounts []ValueCount

	DroppedUnparseable int
	AfterUnparseable   int

	DiagnosedAfterEnd int
	DiagnosedByEnd    int

	Reclassified int
	Clipped      int

	DroppedNegative int
	Negative        int

	Written       int
	Censored      int
	Events        int
	MissingCensor int

	SurvivalDays Summary
}

// Summary describes the distribution of survival days among written rows.
type Summary struct {
	N      int
	Min    float64
	Median float64
	Max    float64
}

// Summarize computes the survival days summary. An empty slice yields a zero
// Summary.
func Summarize(records []SurvivalRecord) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, nil
	}

	data := make(stats.Float64Data, 0, len(records))
	for _, v := range records {
		data = append(data, float64(v.Survival))
	}

	out := Summary{N: len(data)}
	var err error

	if out.Min, err = data.Min(); err != nil {
		return out, err
	}
	if out.Median, err = data.Median(); err != nil {
		return out, err
	}
	if out.Max, err = data.Max(); err != nil {
		return out, err
	}

	return out, nil
}

func (s Summary) String() string {
	if s.N == 0 {
		return "no survival times"
	}

	return fmt.Sprintf("survival days min %.0f, median %.1f, max %.0f (N=%d)", s.Min, s.Median, s.Max, s.N)
}

func (r Report) String() string {
	var out strings.Builder

	fmt.Fprintf(&out, "Rows read: %d\n", r.Read)
	fmt.Fprintf(&out, "Rows after dropping %d with an unparseable diagnosis or last contact date: %d\n", r.DroppedUnparseable, r.AfterUnparseable)
	fmt.Fprintf(&out, "Rows diagnosed on or before the study end: %d (%d diagnosed after were dropped)\n", r.DiagnosedByEnd, r.DiagnosedAfterEnd)
	fmt.Fprintf(&out, "Patients deceased after the study end, reclassified as alive at the study end: %d\n", r.Reclassified)
	fmt.Fprintf(&out, "Last contact dates clipped to the study end: %d\n", r.Clipped)
	if r.DroppedNegative > 0 {
		fmt.Fprintf(&out, "Rows dropped because last contact precedes diagnosis: %d\n", r.DroppedNegative)
	}
	if r.Negative > 0 {
		fmt.Fprintf(&out, "Rows kept with negative survival: %d\n", r.Negative)
	}
	fmt.Fprintf(&out, "Rows saved: %d (%d censored, %d events", r.Written, r.Censored, r.Events)
	if r.MissingCensor > 0 {
		fmt.Fprintf(&out, ", %d without a censor flag", r.MissingCensor)
	}
	out.WriteString(")\n")
	fmt.Fprintf(&out, "%s", r.SurvivalDays)

	return out.String()
}
