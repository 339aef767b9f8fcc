package cohort

import (
	"fmt"
	"sort"
)

// ValueCount is the number of rows holding one distinct value.
type ValueCount struct {
	Value string
	N     int
}

// ValueCounts tallies the distinct values, most frequent first. Ties are
// ordered by value so that the tally is reproducible.
func ValueCounts(values []string) []ValueCount {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, ValueCount{Value: k, N: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Value < out[j].Value
	})

	return out
}

// Validation is what Validate learned about the table before any row was
// transformed.
type Validation struct {
	// Tally of the raw vital status column, before any filtering.
	VitalStatusCounts []ValueCount

	// Values that are neither sentinel. Only non-empty under the missing
	// policy; under the error policy they are reported as an error instead.
	Unknown []ValueCount

	// Non-fatal findings.
	Warnings []string
}

// Validate checks that the table can be processed with opts. Fatal problems
// are returned as errors: missing columns (*MissingColumnsError), no patient
// with the alive value (ErrAliveSentinelAbsent) and, under the error policy,
// vital status values that are neither sentinel (*UnknownStatusError). The
// absence of the deceased value is only a warning.
func Validate(t *Table, opts Options) (Validation, error) {
	out := Validation{}

	if missing := t.MissingColumns(opts.Columns.Expected()); len(missing) > 0 {
		return out, &MissingColumnsError{Missing: missing}
	}

	vital, _ := t.Column(opts.Columns.VitalStatus)
	out.VitalStatusCounts = ValueCounts(vital)

	var hasAlive, hasDeceased bool
	for _, v := range out.VitalStatusCounts {
		switch v.Value {
		case opts.Sentinels.Alive:
			hasAlive = true
		case opts.Sentinels.Deceased:
			hasDeceased = true
		default:
			out.Unknown = append(out.Unknown, v)
		}
	}

	if !hasAlive {
		return out, fmt.Errorf("%w: the vital status column %q does not contain the value indicating alive %q",
			ErrAliveSentinelAbsent, opts.Columns.VitalStatus, opts.Sentinels.Alive)
	}

	if !hasDeceased {
		out.Warnings = append(out.Warnings, fmt.Sprintf("The vital status column %q does not contain the value indicating deceased %q",
			opts.Columns.VitalStatus, opts.Sentinels.Deceased))
	}

	if len(out.Unknown) > 0 {
		if opts.UnknownStatus != UnknownStatusMissing {
			return out, &UnknownStatusError{
				Column:    opts.Columns.VitalStatus,
				Sentinels: opts.Sentinels,
				Values:    out.Unknown,
			}
		}

		n := 0
		for _, v := range out.Unknown {
			n += v.N
		}
		out.Warnings = append(out.Warnings, fmt.Sprintf("%d patients have a vital status other than %q or %q; their censor flag will be left empty",
			n, opts.Sentinels.Alive, opts.Sentinels.Deceased))
	}

	return out, nil
}
