package resubmission

import "github.com/google/uuid"

// State tracks one packaging-data resubmission journey. One record exists
// per submission; the per-period references map is created the first time a
// period's journey starts and entries are overwritten, never duplicated,
// when a reference is rebuilt for the same data-period label.
type State struct {
	SubmissionID               uuid.UUID         `json:"submission_id"`
	PeriodLabel                string            `json:"period_label"`
	IsResubmissionInProgress   bool              `json:"is_resubmission_in_progress"`
	IsResubmissionComplete     bool              `json:"is_resubmission_complete"`
	ApplicationReferenceNumber string            `json:"application_reference_number"`
	ReferencesByPeriod         map[string]string `json:"references_by_period,omitempty"`

	RegistrationFee    float64 `json:"registration_fee"`
	PreviousPayment    float64 `json:"previous_payment"`
	OutstandingPayment float64 `json:"outstanding_payment"`

	RegulatorNation string `json:"regulator_nation"`
}

// setReference records a period's resubmission reference, overwriting any
// earlier reference for the same data-period label.
func (s *State) setReference(periodLabel, reference string) {
	if s.ReferencesByPeriod == nil {
		s.ReferencesByPeriod = map[string]string{}
	}
	s.ReferencesByPeriod[periodLabel] = reference
	s.ApplicationReferenceNumber = reference
}
