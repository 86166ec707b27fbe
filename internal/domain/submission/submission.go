// Package submission models data-file submissions and derives their lifecycle
// states. A submission's state is never stored; it is always recomputed from
// the facts that produce it (file descriptors, regulator decision, clock), so
// the stored record and the displayed status cannot drift apart.
package submission

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the concrete shape of a file submission. One record
// shape exists per kind; consumers switch on Kind instead of downcasting.
type Kind string

const (
	KindProducerPackagingData Kind = "producer-packaging-data"
	KindRegistrationData      Kind = "registration-data"
	KindSubsidiaryData        Kind = "subsidiary-data"
)

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProducerPackagingData, KindRegistrationData, KindSubsidiaryData:
		return true
	}
	return false
}

// FileDescriptor identifies one uploaded or submitted file.
type FileDescriptor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	By   string    `json:"by"`
	At   time.Time `json:"at"`
}

// Decision is the regulator's verdict on a submitted file.
type Decision string

const (
	DecisionNone      Decision = ""
	DecisionAccepted  Decision = "Accepted"
	DecisionApproved  Decision = "Approved"
	DecisionRejected  Decision = "Rejected"
	DecisionQueried   Decision = "Queried"
	DecisionCancelled Decision = "Cancelled"
)

// RegulatorDecision carries the verdict and its context. Produced by the
// regulator backend; read-only here.
type RegulatorDecision struct {
	Decision             Decision `json:"decision"`
	Comments             string   `json:"comments"`
	ResubmissionRequired bool     `json:"resubmission_required"`
}

// FileSubmission is one data-file submission for an organisation and period.
// Uploaded is set by the upload pipeline as soon as a file passes validation;
// Submitted stays nil until the file is first sent to the regulator. The
// upload/submit lifecycle is tracked implicitly through the presence and
// equality of the two descriptors.
type FileSubmission struct {
	ID   uuid.UUID `json:"id"`
	Kind Kind      `json:"kind"`

	Uploaded  *FileDescriptor `json:"uploaded,omitempty"`
	Submitted *FileDescriptor `json:"submitted,omitempty"`

	Valid         bool     `json:"valid"`
	RowErrorCount int      `json:"row_error_count"`
	HasWarnings   bool     `json:"has_warnings"`
	Errors        []string `json:"errors,omitempty"`

	Decision *RegulatorDecision `json:"decision,omitempty"`
}

// HasValidUploadedFile reports whether the submission carries an uploaded
// file that passed validation.
func (s *FileSubmission) HasValidUploadedFile() bool {
	return s != nil && s.Uploaded != nil && s.Valid
}

// IsSubmitted reports whether the submission has ever been sent to the
// regulator.
func (s *FileSubmission) IsSubmitted() bool {
	return s != nil && s.Submitted != nil
}

// HasRecentFileUpload reports whether a file newer than the submitted one has
// been uploaded: the submission was sent, and the current uploaded file id
// differs from the submitted file id. Callers use this to route the user into
// a confirm-re-upload path rather than a plain review path.
func (s *FileSubmission) HasRecentFileUpload() bool {
	if s == nil || s.Submitted == nil || s.Uploaded == nil {
		return false
	}
	return s.Uploaded.ID != s.Submitted.ID
}
