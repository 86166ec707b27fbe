package submission

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	now        = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	activePast = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func uploadedOnly(valid bool) *FileSubmission {
	return &FileSubmission{
		ID:       uuid.New(),
		Kind:     KindProducerPackagingData,
		Uploaded: &FileDescriptor{ID: uuid.New(), Name: "pom.csv"},
		Valid:    valid,
	}
}

func submitted(decision Decision) *FileSubmission {
	fileID := uuid.New()
	s := &FileSubmission{
		ID:        uuid.New(),
		Kind:      KindProducerPackagingData,
		Uploaded:  &FileDescriptor{ID: fileID, Name: "pom.csv"},
		Submitted: &FileDescriptor{ID: fileID, Name: "pom.csv"},
		Valid:     true,
	}
	if decision != DecisionNone {
		s.Decision = &RegulatorDecision{Decision: decision}
	}
	return s
}

func TestDerivePeriodStatus_PriorityOrder(t *testing.T) {
	activeFuture := now.AddDate(0, 1, 0)

	cases := []struct {
		name       string
		activeFrom time.Time
		sub        *FileSubmission
		resub      bool
		decisions  bool
		want       PeriodStatus
	}{
		{"period not yet active", activeFuture, nil, false, true, PeriodCannotStartYet},
		{"active but no submission", activePast, nil, false, true, PeriodNotStarted},
		{"resubmission in progress", activePast, submitted(DecisionAccepted), true, true, PeriodInProgress},
		{"submitted, decisions disabled", activePast, submitted(DecisionAccepted), false, false, PeriodSubmittedToRegulator},
		{"submitted, accepted", activePast, submitted(DecisionAccepted), false, true, PeriodAcceptedByRegulator},
		{"submitted, approved", activePast, submitted(DecisionApproved), false, true, PeriodAcceptedByRegulator},
		{"submitted, rejected", activePast, submitted(DecisionRejected), false, true, PeriodRejectedByRegulator},
		{"submitted, no decision yet", activePast, submitted(DecisionNone), false, true, PeriodSubmittedToRegulator},
		{"submitted, queried decision falls through", activePast, submitted(DecisionQueried), false, true, PeriodSubmittedToRegulator},
		{"valid upload not submitted", activePast, uploadedOnly(true), false, true, PeriodFileUploaded},
		{"invalid upload", activePast, uploadedOnly(false), false, true, PeriodNotStarted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DerivePeriodStatus(now, tc.activeFrom, tc.sub, tc.resub, tc.decisions)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDerivePeriodStatus_ActiveFromBoundary(t *testing.T) {
	// now exactly on activeFrom: the period has started.
	got := DerivePeriodStatus(activePast, activePast, nil, false, true)
	assert.Equal(t, PeriodNotStarted, got)
}

func TestHasRecentFileUpload(t *testing.T) {
	var nilSub *FileSubmission
	assert.False(t, nilSub.HasRecentFileUpload())

	same := submitted(DecisionNone)
	assert.False(t, same.HasRecentFileUpload())

	reuploaded := submitted(DecisionNone)
	reuploaded.Uploaded = &FileDescriptor{ID: uuid.New(), Name: "pom-v2.csv"}
	assert.True(t, reuploaded.HasRecentFileUpload())

	assert.False(t, uploadedOnly(true).HasRecentFileUpload())
}

func TestDeriveApplicationStatus(t *testing.T) {
	reuploaded := submitted(DecisionNone)
	reuploaded.Uploaded = &FileDescriptor{ID: uuid.New()}

	reuploadedButAccepted := submitted(DecisionAccepted)
	reuploadedButAccepted.Uploaded = &FileDescriptor{ID: uuid.New()}

	cases := []struct {
		name string
		sub  *FileSubmission
		want ApplicationStatus
	}{
		{"nil submission", nil, AppNotStarted},
		{"valid upload only", uploadedOnly(true), AppFileUploaded},
		{"invalid upload only", uploadedOnly(false), AppNotStarted},
		{"submitted no decision", submitted(DecisionNone), AppSubmittedToRegulator},
		{"accepted", submitted(DecisionAccepted), AppAcceptedByRegulator},
		{"approved", submitted(DecisionApproved), AppApprovedByRegulator},
		{"rejected", submitted(DecisionRejected), AppRejectedByRegulator},
		{"queried", submitted(DecisionQueried), AppQueriedByRegulator},
		{"cancelled", submitted(DecisionCancelled), AppCancelledByRegulator},
		{"newer upload, no decision", reuploaded, AppSubmittedAndHasRecentFileUpload},
		{"decision supersedes newer upload", reuploadedButAccepted, AppAcceptedByRegulator},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveApplicationStatus(tc.sub))
		})
	}
}

func TestFileUploadTaskStatus(t *testing.T) {
	assert.Equal(t, TaskNotStarted, FileUploadTaskStatus(RegistrationTaskFacts{}))
	assert.Equal(t, TaskInProgress, FileUploadTaskStatus(RegistrationTaskFacts{FileSetValid: true}))
	assert.Equal(t, TaskCompleted, FileUploadTaskStatus(RegistrationTaskFacts{FileSetValid: true, FileSetSubmitted: true}))
}

func TestPaymentTaskStatus(t *testing.T) {
	uploadDone := RegistrationTaskFacts{FileSetValid: true, FileSetSubmitted: true}

	assert.Equal(t, TaskCannotStartYet, PaymentTaskStatus(RegistrationTaskFacts{}))
	assert.Equal(t, TaskNotStarted, PaymentTaskStatus(uploadDone))

	feeOwed := uploadDone
	feeOwed.FeeCalculated = true
	feeOwed.OutstandingAmount = 120.50
	assert.Equal(t, TaskInProgress, PaymentTaskStatus(feeOwed))

	paid := feeOwed
	paid.PaymentInitiated = true
	assert.Equal(t, TaskCompleted, PaymentTaskStatus(paid))

	zeroOutstanding := uploadDone
	zeroOutstanding.FeeCalculated = true
	zeroOutstanding.SubmittedEventRecorded = true
	assert.Equal(t, TaskCompleted, PaymentTaskStatus(zeroOutstanding))

	// Zero outstanding without the submitted event is not complete.
	zeroNoEvent := uploadDone
	zeroNoEvent.FeeCalculated = true
	assert.Equal(t, TaskInProgress, PaymentTaskStatus(zeroNoEvent))
}

func TestAdditionalDetailsTaskStatus(t *testing.T) {
	assert.Equal(t, TaskCannotStartYet, AdditionalDetailsTaskStatus(RegistrationTaskFacts{}))

	bothDone := RegistrationTaskFacts{
		FileSetValid:           true,
		FileSetSubmitted:       true,
		FeeCalculated:          true,
		SubmittedEventRecorded: true,
	}
	assert.Equal(t, TaskNotStarted, AdditionalDetailsTaskStatus(bothDone))

	recorded := bothDone
	recorded.AdditionalDetailsRecorded = true
	assert.Equal(t, TaskCompleted, AdditionalDetailsTaskStatus(recorded))
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindProducerPackagingData.Valid())
	assert.True(t, KindRegistrationData.Valid())
	assert.True(t, KindSubsidiaryData.Valid())
	assert.False(t, Kind("pom").Valid())
}
