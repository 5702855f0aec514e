package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sondage-backend/internal"
	"sondage-backend/internal/sondage/response"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Store interface {
	Submit(ctx context.Context, req Request) (response.Response, error)
}

type SuccessResponse struct {
	ID        uuid.UUID `json:"id"`
	SondageID uuid.UUID `json:"sondage_id"`
	PersonID  uuid.UUID `json:"person_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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
		tracer:        otel.Tracer("submit/handler"),
		problemWriter: problemWriter,
		store:         store,
	}
}

// SubmitHandler accepts a full survey submission. Workflow failures answer
// with a stable code the frontend matches on; infrastructure failures go
// through the shared problem mapping.
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SubmitHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %s", internal.ErrInvalidRequestBody, err), logger)
		return
	}

	created, err := h.store.Submit(traceCtx, req)
	if err != nil {
		var workflowErr *Error
		if errors.As(err, &workflowErr) {
			logger.Info("submission rejected",
				zap.String("code", workflowErr.Code),
				zap.Int("status", workflowErr.Status))
			handlerutil.WriteJSONResponse(w, workflowErr.Status, ErrorResponse{
				Error: workflowErr.Message,
				Code:  workflowErr.Code,
			})
			return
		}
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, SuccessResponse{
		ID:        created.ID,
		SondageID: created.SondageID,
		PersonID:  created.PersonID,
	})
}
