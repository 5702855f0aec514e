package response

import (
	"context"
	"encoding/json"
	"fmt"

	"sondage-backend/internal/sondage/shared"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DB is the pool-level surface: plain queries plus transactions.
// *pgxpool.Pool satisfies it.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Querier interface {
	Create(ctx context.Context, params CreateParams) (Response, error)
	CreateAnswer(ctx context.Context, params CreateAnswerParams) (QuestionAnswer, error)
	GetByID(ctx context.Context, id uuid.UUID) (Response, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySondageID(ctx context.Context, sondageID uuid.UUID) ([]Response, error)
	ExistsByPersonAndSondage(ctx context.Context, params ExistsByPersonAndSondageParams) (bool, error)
	ListAnswersByQuestionID(ctx context.Context, questionID uuid.UUID) ([]QuestionAnswer, error)
	ListAnswersByResponseID(ctx context.Context, responseID uuid.UUID) ([]QuestionAnswer, error)
	ListAnswersBySondageID(ctx context.Context, sondageID uuid.UUID) ([]QuestionAnswer, error)
}

// AnswerInput is one validated answer ready for persistence. Value carries a
// decoded shared answer; its concrete type selects the populated column.
type AnswerInput struct {
	QuestionID uuid.UUID
	Value      any
}

type Service struct {
	logger  *zap.Logger
	db      DB
	queries Querier
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db DB) *Service {
	return &Service{
		logger:  logger,
		db:      db,
		queries: New(db),
		tracer:  otel.Tracer("response/service"),
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Response, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "response", "id", id.String(), logger, "get response by id")
		span.RecordError(err)
		return Response{}, err
	}

	return row, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "response", "id", id.String(), logger, "delete response")
		span.RecordError(err)
		return err
	}

	return nil
}

func (s *Service) ListBySondage(ctx context.Context, sondageID uuid.UUID) ([]Response, error) {
	ctx, span := s.tracer.Start(ctx, "ListBySondage")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.ListBySondageID(ctx, sondageID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list responses by sondage id")
		span.RecordError(err)
		return nil, err
	}

	return list, nil
}

// ExistsByPersonAndSondage reports whether the person already replied to the
// given sondage.
func (s *Service) ExistsByPersonAndSondage(ctx context.Context, personID, sondageID uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ExistsByPersonAndSondage")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.ExistsByPersonAndSondage(ctx, ExistsByPersonAndSondageParams{
		PersonID:  personID,
		SondageID: sondageID,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check response exists")
		span.RecordError(err)
		return false, err
	}

	return exists, nil
}

func (s *Service) ListAnswersByQuestion(ctx context.Context, questionID uuid.UUID) ([]QuestionAnswer, error) {
	ctx, span := s.tracer.Start(ctx, "ListAnswersByQuestion")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.ListAnswersByQuestionID(ctx, questionID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list answers by question id")
		span.RecordError(err)
		return nil, err
	}

	return list, nil
}

func (s *Service) ListAnswersBySondage(ctx context.Context, sondageID uuid.UUID) ([]QuestionAnswer, error) {
	ctx, span := s.tracer.Start(ctx, "ListAnswersBySondage")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.ListAnswersBySondageID(ctx, sondageID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list answers by sondage id")
		span.RecordError(err)
		return nil, err
	}

	return list, nil
}

func (s *Service) ListAnswersByResponse(ctx context.Context, responseID uuid.UUID) ([]QuestionAnswer, error) {
	ctx, span := s.tracer.Start(ctx, "ListAnswersByResponse")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.ListAnswersByResponseID(ctx, responseID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list answers by response id")
		span.RecordError(err)
		return nil, err
	}

	return list, nil
}

// CreateWithAnswers persists a response and all its answer rows in one
// transaction. A failure on any row aborts the whole submission.
func (s *Service) CreateWithAnswers(ctx context.Context, sondageID, personID uuid.UUID, answers []AnswerInput) (Response, error) {
	ctx, span := s.tracer.Start(ctx, "CreateWithAnswers")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "begin submission transaction")
		span.RecordError(err)
		return Response{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	qtx := New(tx)

	created, err := qtx.Create(ctx, CreateParams{
		SondageID: sondageID,
		PersonID:  personID,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create response")
		span.RecordError(err)
		return Response{}, err
	}

	params, err := buildAnswerParams(created.ID, answers)
	if err != nil {
		span.RecordError(err)
		return Response{}, err
	}

	for _, p := range params {
		if _, err := qtx.CreateAnswer(ctx, p); err != nil {
			err = databaseutil.WrapDBErrorWithKeyValue(err, "question_answer", "question_id", p.QuestionID.String(), logger, "create answer")
			span.RecordError(err)
			return Response{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		err = databaseutil.WrapDBError(err, logger, "commit submission transaction")
		span.RecordError(err)
		return Response{}, err
	}

	logger.Info("submission persisted",
		zap.String("response_id", created.ID.String()),
		zap.String("sondage_id", sondageID.String()),
		zap.Int("answers", len(params)))

	return created, nil
}

// buildAnswerParams maps decoded answers onto their value slot.
func buildAnswerParams(responseID uuid.UUID, answers []AnswerInput) ([]CreateAnswerParams, error) {
	params := make([]CreateAnswerParams, 0, len(answers))
	for _, a := range answers {
		p := CreateAnswerParams{
			ResponseID: responseID,
			QuestionID: a.QuestionID,
		}

		switch v := a.Value.(type) {
		case shared.ChoiceAnswer:
			p.ChoiceResponse = pgtype.UUID{Bytes: v.ProposalID, Valid: true}
		case shared.MultiChoiceAnswer:
			ids := make([]string, len(v.ProposalIDs))
			for i, id := range v.ProposalIDs {
				ids[i] = id.String()
			}
			encoded, err := json.Marshal(ids)
			if err != nil {
				return nil, fmt.Errorf("encode choices for question %s: %w", a.QuestionID, err)
			}
			p.ChoicesResponse = encoded
		case shared.TextAnswer:
			p.TextResponse = pgtype.Text{String: v.Value, Valid: true}
		case shared.NumberAnswer:
			p.NumberResponse = pgtype.Int8{Int64: v.Value, Valid: true}
		default:
			return nil, fmt.Errorf("unsupported answer value %T for question %s", a.Value, a.QuestionID)
		}

		params = append(params, p)
	}
	return params, nil
}
