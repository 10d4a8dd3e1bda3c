package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/capitalsapp/capitals/internal/common/errors"
	"github.com/capitalsapp/capitals/internal/common/logger"
	"github.com/capitalsapp/capitals/internal/observability/metrics"
)

// HandleError maps an error to a client response. Domain errors surface
// their own status and message; anything else becomes a scrubbed 500 and
// the cause stays in the log.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()),
			domainErr.Code(),
			strconv.Itoa(domainErr.HTTPStatus()),
		).Inc()
		WriteError(w, domainErr.HTTPStatus(), domainErr.Code(), domainErr.Message())
		return
	}

	log.WithFields(logger.Fields{
		"path":   r.URL.Path,
		"method": r.Method,
	}).Errorf("unhandled error: %v", err)

	WriteError(w, http.StatusInternalServerError, CodeUnknown, "internal server error")
}
