package submission

import "time"

// PeriodStatus is the closed set of lifecycle states for a packaging-data
// submission period.
type PeriodStatus string

const (
	PeriodCannotStartYet                  PeriodStatus = "CannotStartYet"
	PeriodNotStarted                      PeriodStatus = "NotStarted"
	PeriodFileUploaded                    PeriodStatus = "FileUploaded"
	PeriodInProgress                      PeriodStatus = "InProgress"
	PeriodSubmittedToRegulator            PeriodStatus = "SubmittedToRegulator"
	PeriodSubmittedAndHasRecentFileUpload PeriodStatus = "SubmittedAndHasRecentFileUpload"
	PeriodAcceptedByRegulator             PeriodStatus = "AcceptedByRegulator"
	PeriodRejectedByRegulator             PeriodStatus = "RejectedByRegulator"
)

// DerivePeriodStatus maps the raw facts of one submission period onto its
// lifecycle state. decisionEnabled gates the decision-aware branch and is
// passed in explicitly so the function stays pure.
//
// The rules are evaluated strictly in priority order:
//
//  1. Before the period's active-from date nothing can start.
//  2. No submission record means not started.
//  3. A resubmission journey in progress overrides everything below.
//  4. A submitted file branches on the regulator decision (when enabled).
//  5. A valid uploaded file that was never submitted is FileUploaded.
//  6. Anything else is NotStarted.
func DerivePeriodStatus(now, activeFrom time.Time, sub *FileSubmission, resubmissionInProgress, decisionEnabled bool) PeriodStatus {
	if now.Before(activeFrom) {
		return PeriodCannotStartYet
	}
	if sub == nil {
		return PeriodNotStarted
	}
	if resubmissionInProgress {
		return PeriodInProgress
	}
	if sub.IsSubmitted() {
		if !decisionEnabled {
			return PeriodSubmittedToRegulator
		}
		var decision Decision
		if sub.Decision != nil {
			decision = sub.Decision.Decision
		}
		switch decision {
		case DecisionAccepted, DecisionApproved:
			return PeriodAcceptedByRegulator
		case DecisionRejected:
			return PeriodRejectedByRegulator
		default:
			return PeriodSubmittedToRegulator
		}
	}
	if sub.HasValidUploadedFile() {
		return PeriodFileUploaded
	}
	return PeriodNotStarted
}

// ApplicationStatus is the closed set of coarse states for a registration
// application.
type ApplicationStatus string

const (
	AppNotStarted                      ApplicationStatus = "NotStarted"
	AppFileUploaded                    ApplicationStatus = "FileUploaded"
	AppSubmittedToRegulator            ApplicationStatus = "SubmittedToRegulator"
	AppSubmittedAndHasRecentFileUpload ApplicationStatus = "SubmittedAndHasRecentFileUpload"
	AppAcceptedByRegulator             ApplicationStatus = "AcceptedByRegulator"
	AppApprovedByRegulator             ApplicationStatus = "ApprovedByRegulator"
	AppRejectedByRegulator             ApplicationStatus = "RejectedByRegulator"
	AppQueriedByRegulator              ApplicationStatus = "QueriedByRegulator"
	AppCancelledByRegulator            ApplicationStatus = "CancelledByRegulator"
)

// DeriveApplicationStatus maps registration submission facts onto the
// application status. A regulator decision supersedes the re-upload state; a
// newer upload after submission only shows while no verdict has been issued.
func DeriveApplicationStatus(sub *FileSubmission) ApplicationStatus {
	if sub == nil {
		return AppNotStarted
	}
	if sub.IsSubmitted() {
		var decision Decision
		if sub.Decision != nil {
			decision = sub.Decision.Decision
		}
		switch decision {
		case DecisionAccepted:
			return AppAcceptedByRegulator
		case DecisionApproved:
			return AppApprovedByRegulator
		case DecisionRejected:
			return AppRejectedByRegulator
		case DecisionQueried:
			return AppQueriedByRegulator
		case DecisionCancelled:
			return AppCancelledByRegulator
		}
		if sub.HasRecentFileUpload() {
			return AppSubmittedAndHasRecentFileUpload
		}
		return AppSubmittedToRegulator
	}
	if sub.HasValidUploadedFile() {
		return AppFileUploaded
	}
	return AppNotStarted
}

// TaskStatus tracks one task on the registration task list.
type TaskStatus string

const (
	TaskCannotStartYet TaskStatus = "CannotStartYet"
	TaskNotStarted     TaskStatus = "NotStarted"
	TaskInProgress     TaskStatus = "InProgress"
	TaskCompleted      TaskStatus = "Completed"
)

// RegistrationTaskFacts are the inputs to the task-list gating rules.
type RegistrationTaskFacts struct {
	// FileSetValid is true when the registration file set (company details
	// plus brands/partnerships where required) is fully valid.
	FileSetValid bool

	// FileSetSubmitted is true once the file set has been submitted.
	FileSetSubmitted bool

	// FeeCalculated is true once a fee-calculation response was obtained.
	FeeCalculated bool

	// OutstandingAmount is the fee still owed after previous payments.
	OutstandingAmount float64

	// SubmittedEventRecorded is true once a registration-application
	// submitted event exists for this submission.
	SubmittedEventRecorded bool

	// PaymentInitiated is true once the user was handed to the payment
	// provider for this application.
	PaymentInitiated bool

	// AdditionalDetailsRecorded is true once an additional-information
	// submission event exists.
	AdditionalDetailsRecorded bool
}

// FileUploadTaskStatus gates the first task: completed only once the file set
// is both valid and submitted.
func FileUploadTaskStatus(f RegistrationTaskFacts) TaskStatus {
	switch {
	case f.FileSetValid && f.FileSetSubmitted:
		return TaskCompleted
	case f.FileSetValid:
		return TaskInProgress
	default:
		return TaskNotStarted
	}
}

// PaymentTaskStatus gates the second task. It cannot start before the upload
// task completes. It completes once a fee result exists and either nothing is
// outstanding with a recorded submitted event, or a payment was initiated.
func PaymentTaskStatus(f RegistrationTaskFacts) TaskStatus {
	if FileUploadTaskStatus(f) != TaskCompleted {
		return TaskCannotStartYet
	}
	if !f.FeeCalculated {
		return TaskNotStarted
	}
	if (f.OutstandingAmount == 0 && f.SubmittedEventRecorded) || f.PaymentInitiated {
		return TaskCompleted
	}
	return TaskInProgress
}

// AdditionalDetailsTaskStatus gates the final task: reachable only after both
// prior tasks complete, done once the additional-information event exists.
func AdditionalDetailsTaskStatus(f RegistrationTaskFacts) TaskStatus {
	if FileUploadTaskStatus(f) != TaskCompleted || PaymentTaskStatus(f) != TaskCompleted {
		return TaskCannotStartYet
	}
	if f.AdditionalDetailsRecorded {
		return TaskCompleted
	}
	return TaskNotStarted
}
