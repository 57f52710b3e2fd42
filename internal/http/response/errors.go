package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const msgInternal = "internal server error"

// StatusFor maps a domain error code onto an HTTP status.
func StatusFor(err error) int {
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation, domainagg.CodeConflict, domainagg.CodePreconditionFailed:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		// A membership pair that was never added is reported as a bad request.
		if errors.Is(err, domainagg.ErrMembershipMissing) {
			return http.StatusBadRequest
		}
		return http.StatusNotFound
	case domainagg.CodePermissionDenied:
		return http.StatusForbidden
	case domainagg.CodeUnauthenticated:
		return http.StatusUnauthorized
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError writes err with its mapped status. Server-side failures
// are logged with the cause and reported with a generic message.
func RespondDomainError(c *gin.Context, log *logger.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		if log != nil {
			fields := []interface{}{"error", err, "path", c.Request.URL.Path}
			if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
				fields = append(fields, "trace_id", td.TraceID)
			}
			log.Error("request failed", fields...)
		}
		RespondError(c, status, msgInternal)
		return
	}
	RespondError(c, status, domainagg.MessageOf(err))
}
