package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Payload struct {
	ID        uuid.UUID `json:"id"`
	SondageID uuid.UUID `json:"sondage"`
	PersonID  uuid.UUID `json:"person"`
	CreatedAt time.Time `json:"created_at"`
}

func ToPayload(r Response) Payload {
	return Payload{
		ID:        r.ID,
		SondageID: r.SondageID,
		PersonID:  r.PersonID,
		CreatedAt: r.CreatedAt.Time,
	}
}

type AnswerPayload struct {
	ID              uuid.UUID       `json:"id"`
	ResponseID      uuid.UUID       `json:"response"`
	QuestionID      uuid.UUID       `json:"question"`
	ChoiceResponse  *uuid.UUID      `json:"choice_response"`
	ChoicesResponse json.RawMessage `json:"choices_response"`
	TextResponse    *string         `json:"text_response"`
	NumberResponse  *int64          `json:"number_response"`
}

func ToAnswerPayload(a QuestionAnswer) AnswerPayload {
	payload := AnswerPayload{
		ID:         a.ID,
		ResponseID: a.ResponseID,
		QuestionID: a.QuestionID,
	}
	if a.ChoiceResponse.Valid {
		id := uuid.UUID(a.ChoiceResponse.Bytes)
		payload.ChoiceResponse = &id
	}
	if len(a.ChoicesResponse) > 0 {
		payload.ChoicesResponse = a.ChoicesResponse
	}
	if a.TextResponse.Valid {
		text := a.TextResponse.String
		payload.TextResponse = &text
	}
	if a.NumberResponse.Valid {
		number := a.NumberResponse.Int64
		payload.NumberResponse = &number
	}
	return payload
}

// DetailPayload is a response together with its stored answers.
type DetailPayload struct {
	Payload
	Answers []AnswerPayload `json:"answers"`
}

type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (Response, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySondage(ctx context.Context, sondageID uuid.UUID) ([]Response, error)
	ListAnswersByQuestion(ctx context.Context, questionID uuid.UUID) ([]QuestionAnswer, error)
	ListAnswersByResponse(ctx context.Context, responseID uuid.UUID) ([]QuestionAnswer, error)
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	problemWriter *problem.HttpWriter

	store Store
}

func NewHandler(
	logger *zap.Logger,
	problemWriter *problem.HttpWriter,
	store Store,
) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("response/handler"),
		problemWriter: problemWriter,
		store:         store,
	}
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	resp, err := h.store.GetByID(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	answers, err := h.store.ListAnswersByResponse(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	detail := DetailPayload{
		Payload: ToPayload(resp),
		Answers: make([]AnswerPayload, 0, len(answers)),
	}
	for _, item := range answers {
		detail.Answers = append(detail.Answers, ToAnswerPayload(item))
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, detail)
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := h.store.Delete(traceCtx, id); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListHandler returns the responses of one sondage. Without a sondage filter
// it answers with the empty list.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	sondageIDStr := r.URL.Query().Get("sondage")
	if sondageIDStr == "" {
		handlerutil.WriteJSONResponse(w, http.StatusOK, []Payload{})
		return
	}

	sondageID, err := handlerutil.ParseUUID(sondageIDStr)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	list, err := h.store.ListBySondage(traceCtx, sondageID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	response := make([]Payload, 0, len(list))
	for _, item := range list {
		response = append(response, ToPayload(item))
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}

// ListAnswersHandler returns the stored answers of one question. Without a
// question filter it answers with the empty list.
func (h *Handler) ListAnswersHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListAnswersHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	questionIDStr := r.URL.Query().Get("question")
	if questionIDStr == "" {
		handlerutil.WriteJSONResponse(w, http.StatusOK, []AnswerPayload{})
		return
	}

	questionID, err := handlerutil.ParseUUID(questionIDStr)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	list, err := h.store.ListAnswersByQuestion(traceCtx, questionID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	response := make([]AnswerPayload, 0, len(list))
	for _, item := range list {
		response = append(response, ToAnswerPayload(item))
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}
