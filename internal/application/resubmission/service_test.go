package resubmission

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eprcore/registration-portal/internal/domain/organisation"
	"github.com/eprcore/registration-portal/internal/domain/period"
	"github.com/eprcore/registration-portal/internal/domain/submission"
	"github.com/eprcore/registration-portal/internal/infrastructure/backend"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	apperrors "github.com/eprcore/registration-portal/pkg/errors"
)

type fakeStore struct {
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (f *fakeStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeStore) Save(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeStore) load(t *testing.T, key string) *State {
	t.Helper()
	raw, ok := f.data[key]
	require.True(t, ok, "no state stored under %q", key)
	var st State
	require.NoError(t, json.Unmarshal(raw, &st))
	return &st
}

type fakeGateway struct {
	facts     []backend.PeriodSubmissionFacts
	details   []backend.ResubmissionDetails
	gotLabels []string
	gotScheme *uuid.UUID
	recorded  []backend.SubmissionEvent
}

func (f *fakeGateway) GetSubmissions(_ context.Context, q backend.SubmissionDetailsQuery) ([]backend.PeriodSubmissionFacts, error) {
	f.gotLabels = q.PeriodLabels
	return f.facts, nil
}

func (f *fakeGateway) GetResubmissionDetails(_ context.Context, _ uuid.UUID, periodLabels []string, complianceSchemeID *uuid.UUID) ([]backend.ResubmissionDetails, error) {
	f.gotLabels = periodLabels
	f.gotScheme = complianceSchemeID
	return f.details, nil
}

func (f *fakeGateway) RecordSubmissionEvent(_ context.Context, ev backend.SubmissionEvent) error {
	f.recorded = append(f.recorded, ev)
	return nil
}

type fakePayments struct {
	link     string
	requests []backend.PaymentRequest
}

func (f *fakePayments) InitiatePayment(_ context.Context, req backend.PaymentRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.link, nil
}

var (
	testNow     = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	testPeriods = []period.SubmissionPeriod{
		{
			Year:            2025,
			StartMonth:      "Jan",
			EndMonth:        "Jun",
			DataPeriodLabel: "January to June 2025",
			ActiveFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Year:            2025,
			StartMonth:      "Jul",
			EndMonth:        "Dec",
			DataPeriodLabel: "July to December 2025",
			ActiveFrom:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}
)

func newTestService(store *fakeStore, gw *fakeGateway, pays *fakePayments) Service {
	svc := NewService(store, gw, pays, testPeriods, true, logging.NewNopLogger())
	svc.(*service).now = func() time.Time { return testNow }
	return svc
}

func testOrganisation() organisation.Organisation {
	return organisation.Organisation{
		ID:         uuid.New(),
		Number:     "100082",
		NationCode: organisation.NationEngland,
	}
}

func TestGetSession_MergesCurrentPeriodFacts(t *testing.T) {
	store := newFakeStore()
	subID := uuid.New()
	gw := &fakeGateway{details: []backend.ResubmissionDetails{
		{PeriodLabel: "January to June 2025", RegistrationFee: 50},
		{
			PeriodLabel:                "July to December 2025",
			SubmissionID:               subID,
			IsResubmissionInProgress:   true,
			ApplicationReferenceNumber: "PEPR10008225P1L",
			RegistrationFee:            100,
			PreviousPayment:            40,
			OutstandingPayment:         60,
		},
	}}
	svc := newTestService(store, gw, &fakePayments{})

	st, err := svc.GetResubmissionApplicationSession(context.Background(), "h1", testOrganisation())
	require.NoError(t, err)

	// September sits in the second period; its facts win.
	assert.Equal(t, "July to December 2025", st.PeriodLabel)
	assert.Equal(t, subID, st.SubmissionID)
	assert.True(t, st.IsResubmissionInProgress)
	assert.Equal(t, "PEPR10008225P1L", st.ApplicationReferenceNumber)
	assert.Equal(t, 60.0, st.OutstandingPayment)
	assert.Equal(t, []string{"January to June 2025", "July to December 2025"}, gw.gotLabels)
	assert.Nil(t, gw.gotScheme)

	assert.Equal(t, st.ApplicationReferenceNumber, store.load(t, "resubmission:h1").ApplicationReferenceNumber)
}

func TestGetSession_ComplianceSchemePassesSchemeID(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(newFakeStore(), gw, &fakePayments{})

	org := testOrganisation()
	org.IsComplianceScheme = true
	_, err := svc.GetResubmissionApplicationSession(context.Background(), "h1", org)
	require.NoError(t, err)
	require.NotNil(t, gw.gotScheme)
	assert.Equal(t, org.ID, *gw.gotScheme)
}

func TestGetDetails_NilBecomesEmpty(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeGateway{details: nil}, &fakePayments{})

	out, err := svc.GetResubmissionApplicationDetails(context.Background(), testOrganisation(),
		[]string{"January to June 2025"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestGetDetails_NonNilReturnedUnmodified(t *testing.T) {
	details := []backend.ResubmissionDetails{
		{PeriodLabel: "January to June 2025", OutstandingPayment: 10},
		{PeriodLabel: "July to December 2025", OutstandingPayment: 20},
	}
	svc := newTestService(newFakeStore(), &fakeGateway{details: details}, &fakePayments{})

	out, err := svc.GetResubmissionApplicationDetails(context.Background(), testOrganisation(),
		[]string{"January to June 2025", "July to December 2025"}, nil)
	require.NoError(t, err)
	assert.Equal(t, details, out)
}

func TestCreateReferenceNumber_ProducerOverwritesByLabel(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeGateway{}, &fakePayments{})
	org := testOrganisation()

	ref, err := svc.CreateResubmissionReferenceNumber(context.Background(), "h1", org, 9, "Large Producer")
	require.NoError(t, err)
	assert.Equal(t, "PEPR10008225P1L", ref)

	// Repeat for the same period label overwrites, never duplicates.
	ref2, err := svc.CreateResubmissionReferenceNumber(context.Background(), "h1", org, 9, "Small Producer")
	require.NoError(t, err)
	assert.Equal(t, "PEPR10008225P1S", ref2)

	st := store.load(t, "resubmission:h1")
	require.Len(t, st.ReferencesByPeriod, 1)
	assert.Equal(t, ref2, st.ReferencesByPeriod["July to December 2025"])
	assert.Equal(t, ref2, st.ApplicationReferenceNumber)
}

func TestCreateReferenceNumber_ComplianceSchemeRow(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeGateway{}, &fakePayments{})

	org := testOrganisation()
	org.IsComplianceScheme = true
	ref, err := svc.CreateResubmissionReferenceNumber(context.Background(), "h1", org, 4, "")
	require.NoError(t, err)
	assert.Equal(t, "PEPR100082425P1", ref)
}

func TestCreateReferenceNumber_RecordsEventWhenSubmissionKnown(t *testing.T) {
	store := newFakeStore()
	subID := uuid.New()
	raw, err := json.Marshal(&State{SubmissionID: subID, PeriodLabel: "July to December 2025"})
	require.NoError(t, err)
	store.data["resubmission:h1"] = raw

	gw := &fakeGateway{}
	svc := newTestService(store, gw, &fakePayments{})

	ref, err := svc.CreateResubmissionReferenceNumber(context.Background(), "h1", testOrganisation(), 0, "Large Producer")
	require.NoError(t, err)

	require.Len(t, gw.recorded, 1)
	assert.Equal(t, subID, gw.recorded[0].SubmissionID)
	assert.Equal(t, ref, gw.recorded[0].ApplicationReferenceNumber)
	assert.True(t, gw.recorded[0].IsResubmission)
}

func TestGetPackagingDataPeriods(t *testing.T) {
	fileID := uuid.New()
	gw := &fakeGateway{
		facts: []backend.PeriodSubmissionFacts{
			{
				PeriodLabel: "January to June 2025",
				Submission: &submission.FileSubmission{
					ID:        uuid.New(),
					Kind:      submission.KindProducerPackagingData,
					Uploaded:  &submission.FileDescriptor{ID: fileID},
					Submitted: &submission.FileDescriptor{ID: fileID},
					Valid:     true,
					Decision:  &submission.RegulatorDecision{Decision: submission.DecisionAccepted},
				},
			},
		},
		details: []backend.ResubmissionDetails{
			{PeriodLabel: "July to December 2025", IsResubmissionInProgress: true, SubmissionID: uuid.New()},
		},
	}
	periods := append([]period.SubmissionPeriod{}, testPeriods...)
	periods = append(periods, period.SubmissionPeriod{
		Year:            2026,
		StartMonth:      "Jan",
		EndMonth:        "Jun",
		DataPeriodLabel: "January to June 2026",
		ActiveFrom:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	svc := NewService(newFakeStore(), gw, &fakePayments{}, periods, true, logging.NewNopLogger())
	svc.(*service).now = func() time.Time { return testNow }

	views, err := svc.GetPackagingDataPeriods(context.Background(), testOrganisation())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, submission.PeriodAcceptedByRegulator, views[0].Status)

	// The second period has no submission yet, but its resubmission journey
	// is marked in progress.
	assert.Equal(t, submission.PeriodNotStarted, views[1].Status)
	assert.Equal(t, submission.PeriodCannotStartYet, views[2].Status)
}

func TestInitiatePayment_PreconditionsAndForwarding(t *testing.T) {
	store := newFakeStore()
	pays := &fakePayments{link: "https://pay.example/r"}
	svc := newTestService(store, &fakeGateway{}, pays)
	org := testOrganisation()
	user := organisation.User{ID: uuid.New(), Organisations: []organisation.Organisation{org}}

	_, err := svc.InitiatePayment(context.Background(), user, "h1")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "Application reference number is required.", appErr.Message)

	raw, merr := json.Marshal(&State{
		ApplicationReferenceNumber: "PEPR10008225P1L",
		OutstandingPayment:         60,
		RegulatorNation:            organisation.NationEngland,
	})
	require.NoError(t, merr)
	store.data["resubmission:h1"] = raw

	_, err = svc.InitiatePayment(context.Background(), organisation.User{ID: uuid.New()}, "h1")
	require.Error(t, err)
	appErr, ok = err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "User has no associated organisations.", appErr.Message)

	link, err := svc.InitiatePayment(context.Background(), user, "h1")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/r", link)
	require.Len(t, pays.requests, 1)
	assert.Equal(t, 60.0, pays.requests[0].Amount)
	assert.Equal(t, "PEPR10008225P1L", pays.requests[0].Reference)
}
