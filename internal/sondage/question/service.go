package question

import (
	"context"
	"encoding/json"

	"sondage-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, params CreateParams) (Question, error)
	Update(ctx context.Context, params UpdateParams) (Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Question, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListBySondageID(ctx context.Context, sondageID uuid.UUID) ([]Question, error)
}

// SondageStore is used to check sondage existence for operations that require it.
type SondageStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ChoiceStore loads the proposals attached to the choice questions of a sondage.
type ChoiceStore interface {
	ListChoicesBySondage(ctx context.Context, sondageID uuid.UUID) (map[uuid.UUID][]Choice, error)
}

// Cache drops the cached aggregate views of a sondage after its question
// set changes.
type Cache interface {
	InvalidateSondage(ctx context.Context, sondageID uuid.UUID)
}

type Answerable interface {
	Question() Question
	SondageID() uuid.UUID

	// Validate checks if the provided answer is valid according to the question's type and constraints.
	Validate(rawValue json.RawMessage) error

	// DecodeRequest decodes the raw JSON value from the request into the appropriate Go type based on the question type.
	DecodeRequest(rawValue json.RawMessage) (any, error)

	// DisplayValue converts a decoded answer to a simple string for human to read.
	DisplayValue(answer any) (string, error)
}

// NewAnswerable wraps a question row in its type-specific behavior. Choice
// questions need their proposals to validate membership, the other types
// ignore the slice.
func NewAnswerable(q Question, choices []Choice) (Answerable, error) {
	switch q.AnswerType {
	case AnswerTypeSingleChoice:
		return NewSingleChoice(q, choices), nil
	case AnswerTypeMultiChoice:
		return NewMultiChoice(q, choices), nil
	case AnswerTypeFreeText:
		return NewFreeText(q), nil
	case AnswerTypeNumber:
		return NewNumber(q), nil
	default:
		return nil, ErrUnsupportedAnswerType{QuestionID: q.ID.String(), Type: q.AnswerType}
	}
}

type Service struct {
	logger       *zap.Logger
	queries      Querier
	sondageStore SondageStore
	choiceStore  ChoiceStore
	cache        Cache
	tracer       trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX, sondageStore SondageStore, choiceStore ChoiceStore, cache Cache) *Service {
	return &Service{
		logger:       logger,
		queries:      New(db),
		sondageStore: sondageStore,
		choiceStore:  choiceStore,
		cache:        cache,
		tracer:       otel.Tracer("question/service"),
	}
}

func (s *Service) Create(ctx context.Context, input CreateParams) (Question, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if !input.AnswerType.Known() {
		return Question{}, ErrUnsupportedAnswerType{Type: input.AnswerType}
	}

	exists, err := s.sondageStore.Exists(ctx, input.SondageID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check sondage exists")
		span.RecordError(err)
		return Question{}, err
	}
	if !exists {
		return Question{}, internal.ErrSondageNotFound
	}

	row, err := s.queries.Create(ctx, input)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create question")
		span.RecordError(err)
		return Question{}, err
	}

	s.cache.InvalidateSondage(ctx, row.SondageID)

	return row, nil
}

func (s *Service) Update(ctx context.Context, input UpdateParams) (Question, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if !input.AnswerType.Known() {
		return Question{}, ErrUnsupportedAnswerType{QuestionID: input.ID.String(), Type: input.AnswerType}
	}

	row, err := s.queries.Update(ctx, input)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "question", "id", input.ID.String(), logger, "update question")
		span.RecordError(err)
		return Question{}, err
	}

	s.cache.InvalidateSondage(ctx, row.SondageID)

	return row, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "question", "id", id.String(), logger, "get question by id")
		span.RecordError(err)
		return err
	}

	err = s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "question", "id", id.String(), logger, "delete question")
		span.RecordError(err)
		return err
	}

	s.cache.InvalidateSondage(ctx, row.SondageID)

	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Question, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "question", "id", id.String(), logger, "get question by id")
		span.RecordError(err)
		return Question{}, err
	}

	return row, nil
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "Exists")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.Exists(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check question exists")
		span.RecordError(err)
		return false, err
	}

	return exists, nil
}

func (s *Service) ListBySondage(ctx context.Context, sondageID uuid.UUID) ([]Question, error) {
	ctx, span := s.tracer.Start(ctx, "ListBySondage")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.ListBySondageID(ctx, sondageID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list questions by sondage id")
		span.RecordError(err)
		return nil, err
	}

	return list, nil
}

// AnswerableMapBySondage returns a map of question ID (as string) to Answerable
// for efficient lookups. Proposals for all choice questions are fetched in a
// single batch to avoid N+1 queries.
func (s *Service) AnswerableMapBySondage(ctx context.Context, sondageID uuid.UUID) (map[string]Answerable, error) {
	ctx, span := s.tracer.Start(ctx, "AnswerableMapBySondage")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.ListBySondageID(ctx, sondageID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list questions by sondage id")
		span.RecordError(err)
		return nil, err
	}

	choicesByQuestion, err := s.choiceStore.ListChoicesBySondage(ctx, sondageID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list choices by sondage")
		span.RecordError(err)
		return nil, err
	}

	answerableMap := make(map[string]Answerable, len(list))
	for _, q := range list {
		answerable, err := NewAnswerable(q, choicesByQuestion[q.ID])
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		answerableMap[q.ID.String()] = answerable
	}

	return answerableMap, nil
}
