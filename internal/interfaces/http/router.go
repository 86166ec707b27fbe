package http

import (
	"github.com/gin-gonic/gin"

	"github.com/eprcore/registration-portal/internal/config"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/prometheus"
)

// NewRouter assembles the gin engine: recovery, request logging, metrics and
// session-handle middleware, then the versioned API routes.
func NewRouter(cfg config.ServerConfig, h *Handlers, metrics *prometheus.Metrics, logger logging.Logger) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogging(logger))
	if metrics != nil {
		r.Use(RecordMetrics(metrics))
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	r.Use(SessionHandle())

	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/v1")
	{
		v1.GET("/packaging/periods", h.GetPackagingPeriods)

		reg := v1.Group("/registration")
		{
			reg.GET("/session", h.GetRegistrationSession)
			reg.POST("/reference", h.CreateRegistrationReference)
			reg.POST("/payment", h.InitiateRegistrationPayment)
		}

		resub := v1.Group("/resubmission")
		{
			resub.GET("/session", h.GetResubmissionSession)
			resub.GET("/details", h.GetResubmissionDetails)
			resub.POST("/reference", h.CreateResubmissionReference)
			resub.POST("/payment", h.InitiateResubmissionPayment)
		}
	}

	return r
}
