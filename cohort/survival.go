package cohort

import (
	"gopkg.in/guregu/null.v3"
)

const (
	CensorAlive    = 0
	CensorDeceased = 1
)

// SurvivalRecord is one row of the output: the patient identifier, the censor
// flag (0=alive, 1=deceased) and the number of days from diagnosis to the
// clipped last contact. Censor is null when the vital status at study end is
// neither sentinel.
type SurvivalRecord struct {
	ID       string   `csv:"id"`
	Censor   null.Int `csv:"censor"`
	Survival int      `csv:"survival"`
}

// SurvivalDays is the whole number of days from diagnosis to the clipped last
// contact. It is only defined once ApplyStudyEnd has run.
func (p Patient) SurvivalDays() (int, bool) {
	if !p.Diagnosed.Valid || !p.LastContactClipped.Valid {
		return 0, false
	}

	return p.LastContactClipped.Date.DaysSince(p.Diagnosed.Date), true
}

// Censor maps the vital status at study end to the censor flag. Values that
// are neither sentinel produce a null flag rather than an arbitrary number.
func (p Patient) Censor(s Sentinels) null.Int {
	switch p.VitalStatusAtEnd {
	case s.Alive:
		return null.IntFrom(CensorAlive)
	case s.Deceased:
		return null.IntFrom(CensorDeceased)
	}

	return null.Int{}
}

// Survival derives one SurvivalRecord per patient, in order. Under the error
// policy for negative survival, any patient whose last contact precedes their
// diagnosis fails the whole computation with a *NegativeSurvivalError; the
// other policies are resolved earlier (drop) or not at all (keep).
func Survival(patients []Patient, opts Options) ([]SurvivalRecord, error) {
	out := make([]SurvivalRecord, 0, len(patients))
	var negative []string

	for _, p := range patients {
		days, ok := p.SurvivalDays()
		if !ok {
			// Unreachable after DropUnparseable and ApplyStudyEnd
			continue
		}

		if days < 0 && opts.NegativeSurvival == NegativeSurvivalReject {
			negative = append(negative, p.ID)
			continue
		}

		out = append(out, SurvivalRecord{
			ID:       p.ID,
			Censor:   p.Censor(opts.Sentinels),
			Survival: days,
		})
	}

	if len(negative) > 0 {
		return nil, &NegativeSurvivalError{IDs: negative}
	}

	return out, nil
}
