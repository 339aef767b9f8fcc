package cohort

import (
	"cloud.google.com/go/civil"
)

// DropUnparseable keeps the patients whose diagnosis and last contact dates
// were both reconstructed. Order is preserved.
func DropUnparseable(patients []Patient) (kept []Patient, dropped int) {
	return keep(patients, func(p Patient) bool {
		return p.Diagnosed.Valid && p.LastContact.Valid
	})
}

// KeepDiagnosedBy keeps the patients diagnosed on or before end. Patients
// diagnosed after the study window are outside this cohort.
func KeepDiagnosedBy(patients []Patient, end civil.Date) (kept []Patient, dropped int) {
	return keep(patients, func(p Patient) bool {
		return p.Diagnosed.Valid && !p.Diagnosed.Date.After(end)
	})
}

// DropNegativeSurvival keeps the patients whose clipped last contact is not
// before their diagnosis.
func DropNegativeSurvival(patients []Patient) (kept []Patient, dropped int) {
	return keep(patients, func(p Patient) bool {
		days, ok := p.SurvivalDays()
		return ok && days >= 0
	})
}

func keep(patients []Patient, pass func(Patient) bool) ([]Patient, int) {
	out := make([]Patient, 0, len(patients))
	for _, p := range patients {
		if pass(p) {
			out = append(out, p)
		}
	}

	return out, len(patients) - len(out)
}
