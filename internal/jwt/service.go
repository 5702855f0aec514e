// Package jwt verifies bearer tokens issued by the external identity
// provider. This service never issues tokens, it only checks them and
// extracts the caller's identity and roles.
package jwt

import (
	"context"
	"errors"
	"strings"

	"sondage-backend/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Service struct {
	logger *zap.Logger
	secret string
	tracer trace.Tracer
}

func NewService(logger *zap.Logger, secret string) *Service {
	return &Service{
		logger: logger,
		secret: secret,
		tracer: otel.Tracer("jwt/service"),
	}
}

type claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Parse validates a bearer token and returns the caller it identifies.
func (s *Service) Parse(ctx context.Context, tokenString string) (internal.Caller, error) {
	traceCtx, span := s.tracer.Start(ctx, "Parse")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	secret := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal.ErrInvalidJWTToken
		}
		return []byte(s.secret), nil
	}

	tokenClaims := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, tokenClaims, secret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			logger.Warn("Failed to parse JWT token due to malformed structure, this is not a JWT token", zap.String("error", err.Error()))
		case errors.Is(err, jwt.ErrSignatureInvalid):
			logger.Warn("Failed to parse JWT token due to invalid signature", zap.String("error", err.Error()))
		case errors.Is(err, jwt.ErrTokenExpired):
			expiredTime, getErr := token.Claims.GetExpirationTime()
			if getErr == nil {
				logger.Warn("Failed to parse JWT token due to expired timestamp", zap.Time("expired_at", expiredTime.Time))
			}
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			logger.Warn("Failed to parse JWT token due to not valid yet timestamp", zap.String("error", err.Error()))
		default:
			logger.Error("Failed to parse JWT token", zap.Error(err))
		}
		return internal.Caller{}, internal.ErrInvalidJWTToken
	}

	callerID, err := uuid.Parse(tokenClaims.Subject)
	if err != nil {
		logger.Error("Failed to parse caller ID from JWT subject", zap.Error(err))
		return internal.Caller{}, internal.ErrInvalidJWTToken
	}

	roles := tokenClaims.Roles
	if len(roles) == 0 {
		roles = []string{internal.RoleAuthenticated}
	}

	return internal.Caller{
		ID:    callerID,
		Roles: roles,
	}, nil
}
