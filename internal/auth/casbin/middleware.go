package casbin

import (
	"net/http"

	"sondage-backend/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/casbin/casbin/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Middleware struct {
	tracer        trace.Tracer
	logger        *zap.Logger
	enforcer      *casbin.Enforcer
	problemWriter *problem.HttpWriter
}

func NewMiddleware(
	logger *zap.Logger,
	problemWriter *problem.HttpWriter,
	enforcer *casbin.Enforcer,
) *Middleware {
	return &Middleware{
		tracer:        otel.Tracer("auth/middleware"),
		logger:        logger,
		enforcer:      enforcer,
		problemWriter: problemWriter,
	}
}

// HandlerFunc enforces (role, path, method) against the policy. Callers
// without a token evaluate as anonymous; the first allowing role wins.
func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "AuthorizationMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		roles := internal.CallerRoles(traceCtx)

		for _, role := range roles {
			allowed, err := m.enforcer.Enforce(role, r.URL.Path, r.Method)
			if err != nil {
				logger.Error("casbin enforce error", zap.Error(err))
				m.problemWriter.WriteError(traceCtx, w, internal.ErrInternalServerError, logger)
				return
			}

			if allowed {
				next(w, r.WithContext(traceCtx))
				return
			}
		}

		logger.Warn("request denied",
			zap.Strings("roles", roles),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		m.problemWriter.WriteError(traceCtx, w, internal.ErrPermissionDenied, logger)
	}
}
