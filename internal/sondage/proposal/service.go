package proposal

import (
	"context"

	"sondage-backend/internal/sondage/question"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, params CreateParams) (Proposal, error)
	Update(ctx context.Context, params UpdateParams) (Proposal, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Proposal, error)
	ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]Proposal, error)
	ListBySondageID(ctx context.Context, sondageID uuid.UUID) ([]Proposal, error)
}

// QuestionStore is used to check that the target question exists and accepts
// proposals before attaching one.
type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (question.Question, error)
}

// Cache drops the cached aggregate views of a sondage after its proposal
// set changes.
type Cache interface {
	InvalidateSondage(ctx context.Context, sondageID uuid.UUID)
}

type Service struct {
	logger        *zap.Logger
	queries       Querier
	questionStore QuestionStore
	cache         Cache
	tracer        trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX, questionStore QuestionStore, cache Cache) *Service {
	return &Service{
		logger:        logger,
		queries:       New(db),
		questionStore: questionStore,
		cache:         cache,
		tracer:        otel.Tracer("proposal/service"),
	}
}

func (s *Service) invalidateByQuestion(ctx context.Context, questionID uuid.UUID) {
	q, err := s.questionStore.GetByID(ctx, questionID)
	if err != nil {
		return
	}
	s.cache.InvalidateSondage(ctx, q.SondageID)
}

func (s *Service) Create(ctx context.Context, input CreateParams) (Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	q, err := s.questionStore.GetByID(ctx, input.QuestionID)
	if err != nil {
		span.RecordError(err)
		return Proposal{}, err
	}
	if !q.AnswerType.HasProposals() {
		return Proposal{}, ErrNotChoiceQuestion{QuestionID: input.QuestionID.String()}
	}

	row, err := s.queries.Create(ctx, input)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create proposal")
		span.RecordError(err)
		return Proposal{}, err
	}

	s.cache.InvalidateSondage(ctx, q.SondageID)

	return row, nil
}

func (s *Service) Update(ctx context.Context, input UpdateParams) (Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.Update(ctx, input)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "response_proposal", "id", input.ID.String(), logger, "update proposal")
		span.RecordError(err)
		return Proposal{}, err
	}

	s.invalidateByQuestion(ctx, row.QuestionID)

	return row, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "response_proposal", "id", id.String(), logger, "get proposal by id")
		span.RecordError(err)
		return err
	}

	err = s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "response_proposal", "id", id.String(), logger, "delete proposal")
		span.RecordError(err)
		return err
	}

	s.invalidateByQuestion(ctx, row.QuestionID)

	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "response_proposal", "id", id.String(), logger, "get proposal by id")
		span.RecordError(err)
		return Proposal{}, err
	}

	return row, nil
}

func (s *Service) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]Proposal, error) {
	ctx, span := s.tracer.Start(ctx, "ListByQuestion")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.ListByQuestionID(ctx, questionID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list proposals by question id")
		span.RecordError(err)
		return nil, err
	}

	return list, nil
}

// ListChoicesBySondage loads every proposal of a sondage in one query and
// groups the choices by question ID.
func (s *Service) ListChoicesBySondage(ctx context.Context, sondageID uuid.UUID) (map[uuid.UUID][]question.Choice, error) {
	ctx, span := s.tracer.Start(ctx, "ListChoicesBySondage")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.ListBySondageID(ctx, sondageID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list proposals by sondage id")
		span.RecordError(err)
		return nil, err
	}

	choicesByQuestion := make(map[uuid.UUID][]question.Choice)
	for _, p := range list {
		choicesByQuestion[p.QuestionID] = append(choicesByQuestion[p.QuestionID], question.Choice{
			ID:    p.ID,
			Title: p.Title,
		})
	}
	return choicesByQuestion, nil
}
