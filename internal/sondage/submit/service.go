package submit

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"sondage-backend/internal"
	"sondage-backend/internal/person"
	"sondage-backend/internal/sondage/question"
	"sondage-backend/internal/sondage/response"
	"sondage-backend/internal/sondage/shared"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SondageStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type PersonStore interface {
	FindOrCreate(ctx context.Context, input person.CreateParams) (person.Person, bool, error)
}

type QuestionStore interface {
	AnswerableMapBySondage(ctx context.Context, sondageID uuid.UUID) (map[string]question.Answerable, error)
}

type ResponseStore interface {
	ExistsByPersonAndSondage(ctx context.Context, personID, sondageID uuid.UUID) (bool, error)
	CreateWithAnswers(ctx context.Context, sondageID, personID uuid.UUID, answers []response.AnswerInput) (response.Response, error)
}

// Cache invalidates the aggregate views of a sondage after a commit.
type Cache interface {
	InvalidateSondage(ctx context.Context, sondageID uuid.UUID)
}

type PersonPayload struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

type Request struct {
	Sondage   string                     `json:"sondage"`
	Person    *PersonPayload             `json:"person"`
	Responses map[string]json.RawMessage `json:"responses"`
}

type Service struct {
	logger *zap.Logger
	tracer trace.Tracer

	sondageStore  SondageStore
	personStore   PersonStore
	questionStore QuestionStore
	responseStore ResponseStore
	cache         Cache

	sanitizer *bluemonday.Policy
}

func NewService(
	logger *zap.Logger,
	sondageStore SondageStore,
	personStore PersonStore,
	questionStore QuestionStore,
	responseStore ResponseStore,
	cache Cache,
) *Service {
	return &Service{
		logger:        logger,
		tracer:        otel.Tracer("submit/service"),
		sondageStore:  sondageStore,
		personStore:   personStore,
		questionStore: questionStore,
		responseStore: responseStore,
		cache:         cache,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

// Submit runs the submission workflow. Nothing is persisted until every
// answer has validated; the final write is a single transaction, so a
// rejected submission leaves no rows behind. Coded failures come back as
// *Error, anything else is an infrastructure fault.
func (s *Service) Submit(ctx context.Context, req Request) (response.Response, error) {
	ctx, span := s.tracer.Start(ctx, "Submit")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	sondageID, err := s.checkInput(ctx, req)
	if err != nil {
		span.RecordError(err)
		return response.Response{}, err
	}

	resolved, created, err := s.personStore.FindOrCreate(ctx, person.CreateParams{
		Email:       req.Person.Email,
		PhoneNumber: req.Person.PhoneNumber,
		FirstName:   req.Person.FirstName,
		LastName:    req.Person.LastName,
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, internal.ErrPersonContactNeeded) {
			return response.Response{}, errNoMailNoPhoneNumber()
		}
		return response.Response{}, err
	}

	if !created {
		alreadyReplied, err := s.responseStore.ExistsByPersonAndSondage(ctx, resolved.ID, sondageID)
		if err != nil {
			err = databaseutil.WrapDBError(err, logger, "check duplicate reply")
			span.RecordError(err)
			return response.Response{}, err
		}
		if alreadyReplied {
			return response.Response{}, errPersonAlreadyReply()
		}
	}

	answers, err := s.validateAnswers(ctx, sondageID, req.Responses)
	if err != nil {
		span.RecordError(err)
		return response.Response{}, err
	}

	submitted, err := s.responseStore.CreateWithAnswers(ctx, sondageID, resolved.ID, answers)
	if err != nil {
		span.RecordError(err)
		return response.Response{}, err
	}

	if s.cache != nil {
		s.cache.InvalidateSondage(ctx, sondageID)
	}

	logger.Info("submission accepted",
		zap.String("response_id", submitted.ID.String()),
		zap.String("sondage_id", sondageID.String()),
		zap.Bool("new_person", created))

	return submitted, nil
}

func (s *Service) checkInput(ctx context.Context, req Request) (uuid.UUID, error) {
	if req.Sondage == "" {
		return uuid.Nil, errSondageIDEmpty()
	}

	sondageID, err := uuid.Parse(req.Sondage)
	if err != nil {
		return uuid.Nil, errSondageIDMissing()
	}

	exists, err := s.sondageStore.Exists(ctx, sondageID)
	if err != nil {
		logger := logutil.WithContext(ctx, s.logger)
		return uuid.Nil, databaseutil.WrapDBError(err, logger, "check sondage exists")
	}
	if !exists {
		return uuid.Nil, errSondageIDMissing()
	}

	if req.Person == nil {
		return uuid.Nil, errPersonInformationMissing()
	}
	if req.Person.Email == "" && req.Person.PhoneNumber == "" {
		return uuid.Nil, errPersonEmailMissing()
	}
	if len(req.Responses) == 0 {
		return uuid.Nil, errResponseMissing()
	}

	return sondageID, nil
}

func (s *Service) validateAnswers(ctx context.Context, sondageID uuid.UUID, rawResponses map[string]json.RawMessage) ([]response.AnswerInput, error) {
	answerableMap, err := s.questionStore.AnswerableMapBySondage(ctx, sondageID)
	if err != nil {
		return nil, err
	}

	// stable row order regardless of map iteration
	questionIDs := make([]string, 0, len(rawResponses))
	for questionIDStr := range rawResponses {
		questionIDs = append(questionIDs, questionIDStr)
	}
	sort.Strings(questionIDs)

	answers := make([]response.AnswerInput, 0, len(questionIDs))
	for _, questionIDStr := range questionIDs {
		answerable, ok := answerableMap[questionIDStr]
		if !ok {
			return nil, errQuestionNotExist(questionIDStr)
		}

		decoded, err := answerable.DecodeRequest(rawResponses[questionIDStr])
		if err != nil {
			return nil, errBadQuestionResponseType(questionIDStr)
		}

		if textAnswer, ok := decoded.(shared.TextAnswer); ok {
			textAnswer.Value = s.sanitizer.Sanitize(textAnswer.Value)
			if textAnswer.Value == "" {
				return nil, errBadQuestionResponseType(questionIDStr)
			}
			decoded = textAnswer
		}

		answers = append(answers, response.AnswerInput{
			QuestionID: answerable.Question().ID,
			Value:      decoded,
		})
	}

	return answers, nil
}
