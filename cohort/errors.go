package cohort

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumns      = errors.New("columns are missing from the data table")
	ErrAliveSentinelAbsent = errors.New("vital status column does not contain the value indicating alive")
	ErrUnknownVitalStatus  = errors.New("vital status column contains values other than alive and deceased")
	ErrNegativeSurvival    = errors.New("last contact precedes diagnosis")
)

// MissingColumnsError names the exact columns that were expected but absent.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("The following columns are missing from the data table: %q. Please check your column names.", e.Missing)
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// UnknownStatusError lists the vital status values that are neither sentinel,
// with how often each occurs across all rows read, including rows that later
// stages would drop.
type UnknownStatusError struct {
	Column    string
	Sentinels Sentinels
	Values    []ValueCount
}

func (e *UnknownStatusError) Error() string {
	parts := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		parts = append(parts, fmt.Sprintf("%q (%d)", v.Value, v.N))
	}

	return fmt.Sprintf("The vital status column %q contains values other than %q and %q: %s. This check covers every row read, before rows with unparseable dates or diagnoses after the study end are dropped. Recode them, or re-run with the missing policy for unknown vital status to leave their censor flag empty.",
		e.Column, e.Sentinels.Alive, e.Sentinels.Deceased, strings.Join(parts, ", "))
}

func (e *UnknownStatusError) Unwrap() error {
	return ErrUnknownVitalStatus
}

// NegativeSurvivalError lists patients whose last contact precedes their
// diagnosis.
type NegativeSurvivalError struct {
	IDs []string
}

func (e *NegativeSurvivalError) Error() string {
	shown := e.IDs
	suffix := ""
	if len(shown) > 10 {
		shown = shown[:10]
		suffix = fmt.Sprintf(" and %d more", len(e.IDs)-len(shown))
	}

	return fmt.Sprintf("%d patients have a last contact before their diagnosis: %s%s", len(e.IDs), strings.Join(shown, ", "), suffix)
}

func (e *NegativeSurvivalError) Unwrap() error {
	return ErrNegativeSurvival
}
