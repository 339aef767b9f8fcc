package cohort

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/sirupsen/logrus"
)

// Run takes a table of patients through every stage: validation, date
// reconstruction, the row filters, administrative censoring at the study end
// and the survival computation. The returned records are in input order. The
// table is not modified.
//
// Configuration problems are returned before any row is transformed. Rows with
// unparseable dates or a diagnosis after the study end are dropped and
// counted, never reported as errors.
func Run(t *Table, opts Options, log logrus.FieldLogger) ([]SurvivalRecord, Report, error) {
	report := Report{Read: t.Len()}

	if err := opts.Validate(); err != nil {
		return nil, report, pfx.Err(err)
	}

	validation, err := Validate(t, opts)
	report.VitalStatusCounts = validation.VitalStatusCounts
	logValueCounts(log, opts.Columns.VitalStatus, validation.VitalStatusCounts)
	if err != nil {
		return nil, report, pfx.Err(err)
	}
	for _, v := range validation.Warnings {
		log.Warnln(v)
	}

	patients, err := Patients(t, opts.Columns)
	if err != nil {
		return nil, report, pfx.Err(err)
	}
	log.Infof("Rows read: %d", len(patients))

	patients = ReconstructDates(patients)

	patients, report.DroppedUnparseable = DropUnparseable(patients)
	report.AfterUnparseable = len(patients)
	log.Infof("Rows after dropping unparseable diagnosis or last contact dates: %d (dropped %d)", report.AfterUnparseable, report.DroppedUnparseable)

	patients, report.DiagnosedAfterEnd = KeepDiagnosedBy(patients, opts.StudyEnd)
	report.DiagnosedByEnd = len(patients)
	log.Infof("Rows diagnosed on or before %s: %d (dropped %d)", opts.StudyEnd, report.DiagnosedByEnd, report.DiagnosedAfterEnd)

	patients, report.Reclassified, report.Clipped = ApplyStudyEnd(patients, opts.Sentinels, opts.StudyEnd)
	log.Infof("Patients %q with last contact after %s, now %q at the study end: %d", opts.Sentinels.Deceased, opts.StudyEnd, opts.Sentinels.Alive, report.Reclassified)
	log.Infof("Last contact dates clipped to %s: %d", opts.StudyEnd, report.Clipped)

	switch opts.NegativeSurvival {
	case NegativeSurvivalDrop:
		patients, report.DroppedNegative = DropNegativeSurvival(patients)
		if report.DroppedNegative > 0 {
			log.Warnf("Dropped %d rows whose last contact precedes their diagnosis", report.DroppedNegative)
		}
	case NegativeSurvivalKeep:
		for _, p := range patients {
			if days, ok := p.SurvivalDays(); ok && days < 0 {
				report.Negative++
			}
		}
		if report.Negative > 0 {
			log.Warnf("Keeping %d rows whose last contact precedes their diagnosis; their survival is negative", report.Negative)
		}
	}

	records, err := Survival(patients, opts)
	if err != nil {
		return nil, report, pfx.Err(err)
	}

	report.Written = len(records)
	for _, v := range records {
		switch {
		case !v.Censor.Valid:
			report.MissingCensor++
		case v.Censor.Int64 == CensorAlive:
			report.Censored++
		case v.Censor.Int64 == CensorDeceased:
			report.Events++
		}
	}
	if report.MissingCensor > 0 {
		log.Warnf("%d rows have a vital status at the study end other than %q or %q; their censor flag is empty",
			report.MissingCensor, opts.Sentinels.Alive, opts.Sentinels.Deceased)
	}

	report.SurvivalDays, err = Summarize(records)
	if err != nil {
		return nil, report, pfx.Err(err)
	}

	return records, report, nil
}

func logValueCounts(log logrus.FieldLogger, column string, counts []ValueCount) {
	if len(counts) == 0 {
		return
	}

	msg := fmt.Sprintf("Values of %q before filtering:", column)
	for _, v := range counts {
		msg += fmt.Sprintf(" %q=%d", v.Value, v.N)
	}
	log.Infoln(msg)
}
