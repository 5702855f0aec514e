package person

import (
	"context"
	"errors"

	"sondage-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, params CreateParams) (Person, error)
	GetByID(ctx context.Context, id uuid.UUID) (Person, error)
	FindByEmail(ctx context.Context, email string) (Person, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (Person, error)
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("person/service"),
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Person, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "person", "id", id.String(), logger, "get person by id")
		span.RecordError(err)
		return Person{}, err
	}

	return row, nil
}

// FindByContact resolves a person by email when one is given, otherwise by
// phone number. The second return value reports whether a match was found.
func (s *Service) FindByContact(ctx context.Context, email, phoneNumber string) (Person, bool, error) {
	ctx, span := s.tracer.Start(ctx, "FindByContact")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if email == "" && phoneNumber == "" {
		return Person{}, false, internal.ErrPersonContactNeeded
	}

	var (
		row Person
		err error
	)
	if email != "" {
		row, err = s.queries.FindByEmail(ctx, email)
	} else {
		row, err = s.queries.FindByPhoneNumber(ctx, phoneNumber)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Person{}, false, nil
		}
		err = databaseutil.WrapDBError(err, logger, "find person by contact")
		span.RecordError(err)
		return Person{}, false, err
	}

	return row, true, nil
}

// FindOrCreate resolves a person by contact and creates one when no match
// exists. The second return value reports whether a row was created.
func (s *Service) FindOrCreate(ctx context.Context, input CreateParams) (Person, bool, error) {
	ctx, span := s.tracer.Start(ctx, "FindOrCreate")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	existing, found, err := s.FindByContact(ctx, input.Email, input.PhoneNumber)
	if err != nil {
		return Person{}, false, err
	}
	if found {
		return existing, false, nil
	}

	created, err := s.queries.Create(ctx, input)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create person")
		span.RecordError(err)
		return Person{}, false, err
	}
	logger.Info("created person from submission",
		zap.String("person_id", created.ID.String()))

	return created, true, nil
}
