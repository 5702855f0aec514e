package jwt

import (
	"context"
	"net/http"
	"strings"

	"sondage-backend/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Parser interface {
	Parse(ctx context.Context, tokenString string) (internal.Caller, error)
}

// Middleware resolves the caller from the Authorization header. A missing
// header leaves the request anonymous and lets the authorization layer
// decide; a present but invalid token is rejected here.
type Middleware struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	parser        Parser
	problemWriter *problem.HttpWriter
}

func NewMiddleware(logger *zap.Logger, problemWriter *problem.HttpWriter, parser Parser) *Middleware {
	return &Middleware{
		logger:        logger,
		tracer:        otel.Tracer("jwt/middleware"),
		parser:        parser,
		problemWriter: problemWriter,
	}
}

func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "JWTMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next(w, r.WithContext(traceCtx))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidAuthHeaderFormat, logger)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		caller, err := m.parser.Parse(traceCtx, token)
		if err != nil {
			m.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}

		ctx := context.WithValue(traceCtx, internal.UserContextKey, caller)
		next(w, r.WithContext(ctx))
	}
}
