package sondage

import (
	"context"
	"encoding/json"

	"sondage-backend/internal/cache"
	"sondage-backend/internal/person"
	"sondage-backend/internal/sondage/question"
	"sondage-backend/internal/sondage/response"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, params CreateParams) (Sondage, error)
	Update(ctx context.Context, params UpdateParams) (Sondage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Sondage, error)
	List(ctx context.Context) ([]Sondage, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type QuestionStore interface {
	ListBySondage(ctx context.Context, sondageID uuid.UUID) ([]question.Question, error)
}

type ProposalStore interface {
	ListChoicesBySondage(ctx context.Context, sondageID uuid.UUID) (map[uuid.UUID][]question.Choice, error)
}

type ResponseStore interface {
	ListBySondage(ctx context.Context, sondageID uuid.UUID) ([]response.Response, error)
	ListAnswersBySondage(ctx context.Context, sondageID uuid.UUID) ([]response.QuestionAnswer, error)
}

type PersonStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (person.Person, error)
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer

	questionStore QuestionStore
	proposalStore ProposalStore
	responseStore ResponseStore
	personStore   PersonStore
	cache         *cache.Cache
}

func NewService(
	logger *zap.Logger,
	db DBTX,
	questionStore QuestionStore,
	proposalStore ProposalStore,
	responseStore ResponseStore,
	personStore PersonStore,
	viewCache *cache.Cache,
) *Service {
	return &Service{
		logger:        logger,
		queries:       New(db),
		tracer:        otel.Tracer("sondage/service"),
		questionStore: questionStore,
		proposalStore: proposalStore,
		responseStore: responseStore,
		personStore:   personStore,
		cache:         viewCache,
	}
}

func (s *Service) Create(ctx context.Context, input CreateParams) (Sondage, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.Create(ctx, input)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create sondage")
		span.RecordError(err)
		return Sondage{}, err
	}

	return row, nil
}

func (s *Service) Update(ctx context.Context, input UpdateParams) (Sondage, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.Update(ctx, input)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "sondage", "id", input.ID.String(), logger, "update sondage")
		span.RecordError(err)
		return Sondage{}, err
	}

	if s.cache != nil {
		s.cache.InvalidateSondage(ctx, input.ID)
	}

	return row, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "sondage", "id", id.String(), logger, "delete sondage")
		span.RecordError(err)
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateSondage(ctx, id)
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Sondage, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "sondage", "id", id.String(), logger, "get sondage by id")
		span.RecordError(err)
		return Sondage{}, err
	}

	return row, nil
}

func (s *Service) List(ctx context.Context) ([]Sondage, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.List(ctx)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list sondages")
		span.RecordError(err)
		return nil, err
	}

	return list, nil
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "Exists")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.Exists(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check sondage exists")
		span.RecordError(err)
		return false, err
	}

	return exists, nil
}

// Result builds the aggregated result view for one sondage.
func (s *Service) Result(ctx context.Context, id uuid.UUID) (ResultView, error) {
	ctx, span := s.tracer.Start(ctx, "Result")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	sondage, err := s.GetByID(ctx, id)
	if err != nil {
		return ResultView{}, err
	}

	questions, err := s.questionStore.ListBySondage(ctx, id)
	if err != nil {
		span.RecordError(err)
		return ResultView{}, err
	}

	responses, err := s.responseStore.ListBySondage(ctx, id)
	if err != nil {
		span.RecordError(err)
		return ResultView{}, err
	}

	answers, err := s.responseStore.ListAnswersBySondage(ctx, id)
	if err != nil {
		span.RecordError(err)
		return ResultView{}, err
	}

	persons := make(map[uuid.UUID]person.Person)
	for _, r := range responses {
		if _, ok := persons[r.PersonID]; ok {
			continue
		}
		p, err := s.personStore.GetByID(ctx, r.PersonID)
		if err != nil {
			err = databaseutil.WrapDBError(err, logger, "load respondent for result view")
			span.RecordError(err)
			return ResultView{}, err
		}
		persons[r.PersonID] = p
	}

	return buildResultView(sondage, questions, responses, answers, persons), nil
}

// Details builds the survey description view, proposals nested under their
// choice questions.
func (s *Service) Details(ctx context.Context, id uuid.UUID) (DetailsView, error) {
	ctx, span := s.tracer.Start(ctx, "Details")
	defer span.End()

	sondage, err := s.GetByID(ctx, id)
	if err != nil {
		return DetailsView{}, err
	}

	questions, err := s.questionStore.ListBySondage(ctx, id)
	if err != nil {
		span.RecordError(err)
		return DetailsView{}, err
	}

	choicesByQuestion, err := s.proposalStore.ListChoicesBySondage(ctx, id)
	if err != nil {
		span.RecordError(err)
		return DetailsView{}, err
	}

	return buildDetailsView(sondage, questions, choicesByQuestion), nil
}

// ResultJSON is Result with the cache in front of it.
func (s *Service) ResultJSON(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cache.ResultKey(id)); ok {
			return cached, nil
		}
	}

	view, err := s.Result(ctx, id)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cache.ResultKey(id), encoded)
	}
	return encoded, nil
}

// DetailsJSON is Details with the cache in front of it.
func (s *Service) DetailsJSON(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cache.DetailsKey(id)); ok {
			return cached, nil
		}
	}

	view, err := s.Details(ctx, id)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cache.DetailsKey(id), encoded)
	}
	return encoded, nil
}
