package cohort

import (
	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// ApplyStudyEnd censors every patient administratively at end. A patient
// recorded as deceased whose last contact falls after end was still alive at
// end, so their vital status at study end becomes the alive sentinel. Every
// other vital status, including values that are neither sentinel, is carried
// over unchanged. Independently, the last contact is clipped to end.
//
// Patients must have valid dates; see DropUnparseable.
func ApplyStudyEnd(patients []Patient, s Sentinels, end civil.Date) (out []Patient, reclassified, clipped int) {
	out = make([]Patient, len(patients))

	for i, p := range patients {
		afterEnd := p.LastContact.Valid && p.LastContact.Date.After(end)

		p.VitalStatusAtEnd = p.VitalStatus
		p.Reclassified = false
		if p.VitalStatus == s.Deceased && afterEnd {
			p.VitalStatusAtEnd = s.Alive
			p.Reclassified = true
			reclassified++
		}

		p.LastContactClipped = p.LastContact
		if afterEnd {
			p.LastContactClipped = bigquery.NullDate{
				Date:  minDate(p.LastContact.Date, end),
				Valid: true,
			}
			clipped++
		}

		out[i] = p
	}

	return out, reclassified, clipped
}
