package registration

import (
	"context"

	"github.com/eprcore/registration-portal/internal/infrastructure/backend"
)

// SessionStore persists orchestration state between requests, keyed by the
// caller's session handle. A missing key is reported as found=false, never as
// an error.
type SessionStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Save(ctx context.Context, key string, value interface{}) error
}

// SubmissionGateway is the slice of the submission service this package
// depends on. Read paths return (nil, nil) on failure or not-found; write
// paths propagate failures.
type SubmissionGateway interface {
	GetRegistrationApplicationDetails(ctx context.Context, q backend.RegistrationDetailsQuery) (*backend.RegistrationDetails, error)
	SubmitRegistrationApplication(ctx context.Context, ev backend.SubmissionEvent) error
	RecordSubmissionEvent(ctx context.Context, ev backend.SubmissionEvent) error
}

// FeeCalculator looks up registration fees. A failed or absent calculation
// returns (nil, nil).
type FeeCalculator interface {
	ProducerRegistrationFees(ctx context.Context, req backend.ProducerFeeRequest) (*backend.FeeBreakdown, error)
	ComplianceSchemeRegistrationFees(ctx context.Context, req backend.ComplianceSchemeFeeRequest) (*backend.ComplianceSchemeFeeBreakdown, error)
}

// PaymentGateway hands the user over to the payment provider. Failures
// propagate: the caller must know the hand-over did not happen.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req backend.PaymentRequest) (string, error)
}

// Metrics receives orchestration counters. The prometheus adapter implements
// it in production; NopMetrics is used elsewhere.
type Metrics interface {
	OrchestrationRun(outcome string)
	AutoSubmission()
	PaymentInitiation(result string)
}

type nopMetrics struct{}

func (nopMetrics) OrchestrationRun(string)  {}
func (nopMetrics) AutoSubmission()          {}
func (nopMetrics) PaymentInitiation(string) {}

// NopMetrics returns a Metrics implementation that discards everything.
func NopMetrics() Metrics { return nopMetrics{} }
