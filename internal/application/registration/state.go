package registration

import (
	"time"

	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/internal/domain/submission"
)

// PaymentMethodNoOutstanding is the payment method recorded on the submitted
// event when nothing is owed and the application is auto-submitted without an
// explicit payment step.
const PaymentMethodNoOutstanding = "No-Outstanding-Payment"

// ApplicationState is the orchestrated aggregate for one organisation's
// registration application. It is owned by the registration service for the
// duration of a user session, mutated only inside a single orchestration
// call, and persisted through the session store between calls.
type ApplicationState struct {
	SubmissionID               uuid.UUID `json:"submission_id"`
	PeriodLabel                string    `json:"period_label"`
	ApplicationReferenceNumber string    `json:"application_reference_number"`

	ApplicationStatus           submission.ApplicationStatus `json:"application_status"`
	FileUploadTaskStatus        submission.TaskStatus        `json:"file_upload_task_status"`
	PaymentTaskStatus           submission.TaskStatus        `json:"payment_task_status"`
	AdditionalDetailsTaskStatus submission.TaskStatus        `json:"additional_details_task_status"`

	FileSetValid              bool    `json:"file_set_valid"`
	FileSetSubmitted          bool    `json:"file_set_submitted"`
	FeeCalculated             bool    `json:"fee_calculated"`
	TotalFee                  float64 `json:"total_fee"`
	TotalAmountOutstanding    float64 `json:"total_amount_outstanding"`
	PaymentInitiated          bool    `json:"payment_initiated"`
	AdditionalDetailsRecorded bool    `json:"additional_details_recorded"`

	RegulatorNation    string `json:"regulator_nation"`
	IsComplianceScheme bool   `json:"is_compliance_scheme"`
	IsResubmission     bool   `json:"is_resubmission"`

	RegistrationApplicationSubmittedDate *time.Time                 `json:"registration_application_submitted_date,omitempty"`
	RegistrationFeePaymentMethod         string                     `json:"registration_fee_payment_method,omitempty"`
	LastSubmittedFile                    *submission.FileDescriptor `json:"last_submitted_file,omitempty"`
}

// submittedEventRecorded reports whether a registration-application submitted
// event already exists for this submission. It is the idempotency guard for
// the zero-outstanding auto-submit: once either the submitted date or a
// payment method is on record, the event must not fire again.
func (s *ApplicationState) submittedEventRecorded() bool {
	return s.RegistrationApplicationSubmittedDate != nil || s.RegistrationFeePaymentMethod != ""
}

func (s *ApplicationState) taskFacts() submission.RegistrationTaskFacts {
	return submission.RegistrationTaskFacts{
		FileSetValid:              s.FileSetValid,
		FileSetSubmitted:          s.FileSetSubmitted,
		FeeCalculated:             s.FeeCalculated,
		OutstandingAmount:         s.TotalAmountOutstanding,
		SubmittedEventRecorded:    s.submittedEventRecorded(),
		PaymentInitiated:          s.PaymentInitiated,
		AdditionalDetailsRecorded: s.AdditionalDetailsRecorded,
	}
}

// refreshTaskStatuses recomputes the three task statuses from the current
// facts. Statuses are always derived, never stored independently of the
// inputs that produce them.
func (s *ApplicationState) refreshTaskStatuses() {
	facts := s.taskFacts()
	s.FileUploadTaskStatus = submission.FileUploadTaskStatus(facts)
	s.PaymentTaskStatus = submission.PaymentTaskStatus(facts)
	s.AdditionalDetailsTaskStatus = submission.AdditionalDetailsTaskStatus(facts)
}
