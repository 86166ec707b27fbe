package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/internal/application/registration"
	"github.com/eprcore/registration-portal/internal/application/resubmission"
	"github.com/eprcore/registration-portal/internal/domain/organisation"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/pkg/errors"
)

// Handlers binds the HTTP surface to the orchestrators. Handlers only parse,
// forward and encode; every business branch lives in the application layer.
type Handlers struct {
	registration registration.Service
	resubmission resubmission.Service
	logger       logging.Logger
}

// NewHandlers wires the endpoint handlers.
func NewHandlers(reg registration.Service, resub resubmission.Service, logger logging.Logger) *Handlers {
	return &Handlers{
		registration: reg,
		resubmission: resub,
		logger:       logger.Named("http"),
	}
}

// errorResponse is the standard error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps application errors onto HTTP statuses. Unknown errors are
// masked: internals never leak to the client.
func writeError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.Code.HTTPStatus(), errorResponse{
			Code:    string(appErr.Code),
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{
		Code:    string(errors.ErrCodeInternal),
		Message: "internal server error",
	})
}

// organisationParams identifies the acting organisation. Until the identity
// provider integration lands, the upstream frontend supplies these directly.
type organisationParams struct {
	OrganisationID     string `form:"organisationId" json:"organisation_id" binding:"required"`
	OrganisationNumber string `form:"organisationNumber" json:"organisation_number" binding:"required"`
	Name               string `form:"organisationName" json:"organisation_name"`
	Nation             string `form:"nation" json:"nation"`
	IsComplianceScheme bool   `form:"isComplianceScheme" json:"is_compliance_scheme"`
}

func (p organisationParams) toDomain() (organisation.Organisation, error) {
	id, err := uuid.Parse(p.OrganisationID)
	if err != nil {
		return organisation.Organisation{}, errors.Validation("organisation id is not a valid uuid")
	}
	return organisation.Organisation{
		ID:                 id,
		Number:             p.OrganisationNumber,
		Name:               p.Name,
		NationCode:         p.Nation,
		IsComplianceScheme: p.IsComplianceScheme,
	}, nil
}

// userParams identifies the acting user for payment initiation.
type userParams struct {
	UserID        string               `json:"user_id" binding:"required"`
	Name          string               `json:"name"`
	Organisations []organisationParams `json:"organisations"`
}

func (p userParams) toDomain() (organisation.User, error) {
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return organisation.User{}, errors.Validation("user id is not a valid uuid")
	}
	user := organisation.User{ID: id, Name: p.Name}
	for _, op := range p.Organisations {
		org, err := op.toDomain()
		if err != nil {
			return organisation.User{}, err
		}
		user.Organisations = append(user.Organisations, org)
	}
	return user, nil
}

type registrationSessionQuery struct {
	organisationParams
	IsResubmission bool `form:"isResubmission"`
}

// GetRegistrationSession handles GET /v1/registration/session.
func (h *Handlers) GetRegistrationSession(c *gin.Context) {
	var q registrationSessionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, errors.Validation(err.Error()))
		return
	}
	org, err := q.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	st, err := h.registration.GetRegistrationApplicationSession(c.Request.Context(), sessionHandle(c), org, q.IsResubmission)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type createReferenceRequest struct {
	organisationParams
	RowNumber    int    `json:"row_number"`
	JourneyLabel string `json:"journey_label"`
}

type referenceResponse struct {
	ApplicationReferenceNumber string `json:"application_reference_number"`
}

// CreateRegistrationReference handles POST /v1/registration/reference.
func (h *Handlers) CreateRegistrationReference(c *gin.Context) {
	var req createReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Validation(err.Error()))
		return
	}
	org, err := req.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	ref, err := h.registration.CreateApplicationReferenceNumber(c.Request.Context(), sessionHandle(c), org, req.RowNumber, req.JourneyLabel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, referenceResponse{ApplicationReferenceNumber: ref})
}

type paymentRequest struct {
	User userParams `json:"user" binding:"required"`
}

type paymentResponse struct {
	PaymentLink string `json:"payment_link"`
}

// InitiateRegistrationPayment handles POST /v1/registration/payment.
func (h *Handlers) InitiateRegistrationPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Validation(err.Error()))
		return
	}
	user, err := req.User.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	link, err := h.registration.InitiatePayment(c.Request.Context(), user, sessionHandle(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse{PaymentLink: link})
}

// GetResubmissionSession handles GET /v1/resubmission/session.
func (h *Handlers) GetResubmissionSession(c *gin.Context) {
	var q organisationParams
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, errors.Validation(err.Error()))
		return
	}
	org, err := q.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	st, err := h.resubmission.GetResubmissionApplicationSession(c.Request.Context(), sessionHandle(c), org)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type resubmissionDetailsQuery struct {
	organisationParams
	Periods            string `form:"periods" binding:"required"`
	ComplianceSchemeID string `form:"complianceSchemeId"`
}

// GetResubmissionDetails handles GET /v1/resubmission/details.
func (h *Handlers) GetResubmissionDetails(c *gin.Context) {
	var q resubmissionDetailsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, errors.Validation(err.Error()))
		return
	}
	org, err := q.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}
	var schemeID *uuid.UUID
	if q.ComplianceSchemeID != "" {
		id, err := uuid.Parse(q.ComplianceSchemeID)
		if err != nil {
			writeError(c, errors.Validation("compliance scheme id is not a valid uuid"))
			return
		}
		schemeID = &id
	}

	details, err := h.resubmission.GetResubmissionApplicationDetails(c.Request.Context(), org, strings.Split(q.Periods, ","), schemeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetPackagingPeriods handles GET /v1/packaging/periods.
func (h *Handlers) GetPackagingPeriods(c *gin.Context) {
	var q organisationParams
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, errors.Validation(err.Error()))
		return
	}
	org, err := q.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	views, err := h.resubmission.GetPackagingDataPeriods(c.Request.Context(), org)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// CreateResubmissionReference handles POST /v1/resubmission/reference.
func (h *Handlers) CreateResubmissionReference(c *gin.Context) {
	var req createReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Validation(err.Error()))
		return
	}
	org, err := req.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	ref, err := h.resubmission.CreateResubmissionReferenceNumber(c.Request.Context(), sessionHandle(c), org, req.RowNumber, req.JourneyLabel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, referenceResponse{ApplicationReferenceNumber: ref})
}

// InitiateResubmissionPayment handles POST /v1/resubmission/payment.
func (h *Handlers) InitiateResubmissionPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Validation(err.Error()))
		return
	}
	user, err := req.User.toDomain()
	if err != nil {
		writeError(c, err)
		return
	}

	link, err := h.resubmission.InitiatePayment(c.Request.Context(), user, sessionHandle(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse{PaymentLink: link})
}

// Healthz handles GET /healthz.
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
