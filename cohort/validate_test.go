package cohort

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValueCounts(t *testing.T) {
	got := ValueCounts([]string{"Dead", "Alive", "Alive", "Unknown", "Dead", "Alive", ""})
	want := []ValueCount{
		{"Alive", 3},
		{"Dead", 2},
		{"", 1},
		{"Unknown", 1},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestValidateMissingColumns(t *testing.T) {
	tab := NewTable([]string{"STUDYID", "D_VITAL_STATUS", "D_DATE_OF_DIAGNOSIS_YYYY"}, [][]string{{"1", "Alive", "2015"}})

	_, err := Validate(tab, DefaultOptions())

	var mce *MissingColumnsError
	if !errors.As(err, &mce) {
		t.Fatalf("Expected a *MissingColumnsError, got %v", err)
	}
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("Expected the error to match ErrMissingColumns")
	}

	want := []string{
		"D_DATE_OF_DIAGNOSIS_MM",
		"D_DATE_OF_DIAGNOSIS_DD",
		"D_DATE_OF_LAST_CONTACT_YYYY",
		"D_DATE_OF_LAST_CONTACT_MM",
		"D_DATE_OF_LAST_CONTACT_DD",
	}
	if !reflect.DeepEqual(mce.Missing, want) {
		t.Errorf("Expected missing %q, got %q", want, mce.Missing)
	}
}

func TestValidateAliveAbsent(t *testing.T) {
	tab := testTable(
		patientRow{"1", "2015-01-01", "2019-06-15", "Dead"},
		patientRow{"2", "2015-01-01", "2019-06-15", "Dead"},
	)

	_, err := Validate(tab, DefaultOptions())
	if !errors.Is(err, ErrAliveSentinelAbsent) {
		t.Fatalf("Expected ErrAliveSentinelAbsent, got %v", err)
	}
}

func TestValidateDeceasedAbsentWarns(t *testing.T) {
	tab := testTable(
		patientRow{"1", "2015-01-01", "2019-06-15", "Alive"},
	)

	v, err := Validate(tab, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Warnings) != 1 {
		t.Errorf("Expected one warning, got %q", v.Warnings)
	}
}

func TestValidateUnknownStatus(t *testing.T) {
	tab := testTable(
		patientRow{"1", "2015-01-01", "2019-06-15", "Alive"},
		patientRow{"2", "2015-01-01", "2019-06-15", "Dead"},
		patientRow{"3", "2015-01-01", "2019-06-15", "Unknown"},
		patientRow{"4", "2015-01-01", "2019-06-15", "Unknown"},
		patientRow{"5", "2015-01-01", "2019-06-15", "dead"},
	)

	opts := DefaultOptions()

	_, err := Validate(tab, opts)
	var use *UnknownStatusError
	if !errors.As(err, &use) {
		t.Fatalf("Expected an *UnknownStatusError, got %v", err)
	}
	if !errors.Is(err, ErrUnknownVitalStatus) {
		t.Errorf("Expected the error to match ErrUnknownVitalStatus")
	}
	want := []ValueCount{{"Unknown", 2}, {"dead", 1}}
	if !reflect.DeepEqual(use.Values, want) {
		t.Errorf("Expected %v, got %v", want, use.Values)
	}

	opts.UnknownStatus = UnknownStatusMissing
	v, err := Validate(tab, opts)
	if err != nil {
		t.Fatalf("Expected no error under the missing policy, got %v", err)
	}
	if !reflect.DeepEqual(v.Unknown, want) {
		t.Errorf("Expected %v, got %v", want, v.Unknown)
	}
	if len(v.Warnings) != 1 {
		t.Errorf("Expected one warning, got %q", v.Warnings)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("Expected the defaults to be valid, got %v", err)
	}

	broken := []func(*Options){
		func(o *Options) { o.Columns.Index = "" },
		func(o *Options) { o.Sentinels.Alive = "" },
		func(o *Options) { o.Sentinels.Deceased = o.Sentinels.Alive },
		func(o *Options) { o.StudyEnd.Month = 13 },
		func(o *Options) { o.UnknownStatus = "ignore" },
		func(o *Options) { o.NegativeSurvival = "" },
	}

	for i, modify := range broken {
		opts := DefaultOptions()
		modify(&opts)
		if err := opts.Validate(); err == nil {
			t.Errorf("Case %d: expected an error for %+v", i, opts)
		}
	}
}

func TestPolicyValues(t *testing.T) {
	opts := DefaultOptions()
	if opts.UnknownStatus != UnknownStatusReject || opts.NegativeSurvival != NegativeSurvivalDrop {
		t.Fatalf("Unexpected default policies %q and %q", opts.UnknownStatus, opts.NegativeSurvival)
	}

	names := []struct{ got, want string }{
		{string(UnknownStatusReject), "error"},
		{string(UnknownStatusMissing), "missing"},
		{string(NegativeSurvivalDrop), "drop"},
		{string(NegativeSurvivalReject), "error"},
		{string(NegativeSurvivalKeep), "keep"},
	}
	for _, v := range names {
		if v.got != v.want {
			t.Errorf("Expected policy %q, got %q", v.want, v.got)
		}
	}

	// Every policy value is accepted by Validate.
	for _, u := range []UnknownStatusPolicy{UnknownStatusReject, UnknownStatusMissing} {
		for _, n := range []NegativeSurvivalPolicy{NegativeSurvivalDrop, NegativeSurvivalReject, NegativeSurvivalKeep} {
			opts.UnknownStatus, opts.NegativeSurvival = u, n
			if err := opts.Validate(); err != nil {
				t.Errorf("%s/%s: %v", u, n, err)
			}
		}
	}
}

func TestValidateUnknownStatusBeforeFiltering(t *testing.T) {
	// Row 2 has an unparseable diagnosis and row 3 is diagnosed after the
	// study end. Both are still checked.
	tab := testTable(
		patientRow{"1", "2015-01-01", "2019-06-15", "Alive"},
		patientRow{"2", "2015-13-01", "2019-06-15", "Unknown"},
		patientRow{"3", "2021-01-05", "2021-06-15", ""},
	)

	_, err := Validate(tab, DefaultOptions())
	var use *UnknownStatusError
	if !errors.As(err, &use) {
		t.Fatalf("Expected an *UnknownStatusError, got %v", err)
	}
	want := []ValueCount{{"", 1}, {"Unknown", 1}}
	if !reflect.DeepEqual(use.Values, want) {
		t.Errorf("Expected %v, got %v", want, use.Values)
	}
	if !strings.Contains(err.Error(), "before rows with unparseable dates") {
		t.Errorf("Expected the message to say the check precedes filtering, got %q", err.Error())
	}
}

func TestValidateSentinelsMatchExactly(t *testing.T) {
	tab := testTable(
		patientRow{"1", "2015-01-01", "2019-06-15", "Alive"},
		patientRow{"2", "2015-01-01", "2021-03-01", " Dead"},
	)

	_, err := Validate(tab, DefaultOptions())
	var use *UnknownStatusError
	if !errors.As(err, &use) {
		t.Fatalf("Expected an *UnknownStatusError, got %v", err)
	}
	if want := []ValueCount{{" Dead", 1}}; !reflect.DeepEqual(use.Values, want) {
		t.Errorf("Expected %v, got %v", want, use.Values)
	}
}
