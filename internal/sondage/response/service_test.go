package response

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sondage-backend/internal/sondage/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (Response, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(Response)
	return row, args.Error(1)
}

func (m *mockQuerier) CreateAnswer(ctx context.Context, arg CreateAnswerParams) (QuestionAnswer, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(QuestionAnswer)
	return row, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (Response, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(Response)
	return row, args.Error(1)
}

func (m *mockQuerier) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockQuerier) ListBySondageID(ctx context.Context, sondageID uuid.UUID) ([]Response, error) {
	args := m.Called(ctx, sondageID)
	rows, _ := args.Get(0).([]Response)
	return rows, args.Error(1)
}

func (m *mockQuerier) ExistsByPersonAndSondage(ctx context.Context, arg ExistsByPersonAndSondageParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuerier) ListAnswersByQuestionID(ctx context.Context, questionID uuid.UUID) ([]QuestionAnswer, error) {
	args := m.Called(ctx, questionID)
	rows, _ := args.Get(0).([]QuestionAnswer)
	return rows, args.Error(1)
}

func (m *mockQuerier) ListAnswersByResponseID(ctx context.Context, responseID uuid.UUID) ([]QuestionAnswer, error) {
	args := m.Called(ctx, responseID)
	rows, _ := args.Get(0).([]QuestionAnswer)
	return rows, args.Error(1)
}

func (m *mockQuerier) ListAnswersBySondageID(ctx context.Context, sondageID uuid.UUID) ([]QuestionAnswer, error) {
	args := m.Called(ctx, sondageID)
	rows, _ := args.Get(0).([]QuestionAnswer)
	return rows, args.Error(1)
}

// newTestService creates a Service with mocked dependencies.
func newTestService(t *testing.T) (*Service, *mockQuerier) {
	t.Helper()

	q := &mockQuerier{}
	return &Service{
		logger:  zap.NewNop(),
		queries: q,
		tracer:  noop.NewTracerProvider().Tracer("test"),
	}, q
}

func TestService_ExistsByPersonAndSondage(t *testing.T) {
	t.Parallel()

	personID := uuid.New()
	sondageID := uuid.New()

	svc, q := newTestService(t)
	q.On("ExistsByPersonAndSondage", mock.Anything, ExistsByPersonAndSondageParams{
		PersonID:  personID,
		SondageID: sondageID,
	}).Return(true, nil)

	exists, err := svc.ExistsByPersonAndSondage(context.Background(), personID, sondageID)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestService_ListAnswersByResponse(t *testing.T) {
	t.Parallel()

	responseID := uuid.New()
	stored := []QuestionAnswer{
		{ID: uuid.New(), ResponseID: responseID, QuestionID: uuid.New()},
		{ID: uuid.New(), ResponseID: responseID, QuestionID: uuid.New()},
	}

	svc, q := newTestService(t)
	q.On("ListAnswersByResponseID", mock.Anything, responseID).Return(stored, nil)

	list, err := svc.ListAnswersByResponse(context.Background(), responseID)
	require.NoError(t, err)
	require.Equal(t, stored, list)
}

type txRow struct {
	err error
}

func (r txRow) Scan(dest ...any) error { return r.err }

// fakeTx covers the pieces of pgx.Tx that CreateWithAnswers touches. The
// first QueryRow is the response insert, every later one is an answer
// insert; failOn selects which call errors (0 means none).
type fakeTx struct {
	pgx.Tx

	calls          int
	failOn         int
	rollbackCalled bool
	commitCalled   bool
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.calls++
	if f.calls == f.failOn {
		return txRow{err: errors.New("insert failed")}
	}
	return txRow{}
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rollbackCalled = true
	return nil
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.commitCalled = true
	return nil
}

type fakeDB struct {
	DBTX
	tx *fakeTx
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return f.tx, nil }

func TestService_CreateWithAnswers_AllOrNothing(t *testing.T) {
	t.Parallel()

	answers := []AnswerInput{
		{QuestionID: uuid.New(), Value: shared.TextAnswer{Value: "first"}},
		{QuestionID: uuid.New(), Value: shared.NumberAnswer{Value: 7}},
	}

	tests := []struct {
		name         string
		failOn       int
		shouldError  bool
		wantRollback bool
		wantCommit   bool
	}{
		{name: "response insert fails", failOn: 1, shouldError: true, wantRollback: true},
		{name: "first answer insert fails", failOn: 2, shouldError: true, wantRollback: true},
		{name: "second answer insert fails", failOn: 3, shouldError: true, wantRollback: true},
		{name: "all inserts succeed", failOn: 0, wantCommit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &fakeTx{failOn: tt.failOn}
			svc := NewService(zap.NewNop(), &fakeDB{tx: tx})

			_, err := svc.CreateWithAnswers(context.Background(), uuid.New(), uuid.New(), answers)

			if tt.shouldError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantRollback, tx.rollbackCalled && !tx.commitCalled)
			require.Equal(t, tt.wantCommit, tx.commitCalled)
		})
	}
}

func Test_buildAnswerParams(t *testing.T) {
	t.Parallel()

	responseID := uuid.New()
	proposalA := uuid.New()
	proposalB := uuid.New()

	countSlots := func(p CreateAnswerParams) int {
		count := 0
		if p.ChoiceResponse.Valid {
			count++
		}
		if len(p.ChoicesResponse) > 0 {
			count++
		}
		if p.TextResponse.Valid {
			count++
		}
		if p.NumberResponse.Valid {
			count++
		}
		return count
	}

	answers := []AnswerInput{
		{QuestionID: uuid.New(), Value: shared.ChoiceAnswer{ProposalID: proposalA}},
		{QuestionID: uuid.New(), Value: shared.MultiChoiceAnswer{ProposalIDs: []uuid.UUID{proposalA, proposalB}}},
		{QuestionID: uuid.New(), Value: shared.TextAnswer{Value: "free text"}},
		{QuestionID: uuid.New(), Value: shared.NumberAnswer{Value: 5}},
	}

	params, err := buildAnswerParams(responseID, answers)
	require.NoError(t, err)
	require.Len(t, params, 4)

	for i, p := range params {
		require.Equal(t, responseID, p.ResponseID)
		require.Equal(t, answers[i].QuestionID, p.QuestionID)
		require.Equal(t, 1, countSlots(p), "exactly one slot must be populated")
	}

	require.Equal(t, proposalA, uuid.UUID(params[0].ChoiceResponse.Bytes))

	var ids []string
	require.NoError(t, json.Unmarshal(params[1].ChoicesResponse, &ids))
	require.Equal(t, []string{proposalA.String(), proposalB.String()}, ids)

	require.Equal(t, "free text", params[2].TextResponse.String)
	require.Equal(t, int64(5), params[3].NumberResponse.Int64)
}

func Test_buildAnswerParams_RejectsUnknownValue(t *testing.T) {
	t.Parallel()

	_, err := buildAnswerParams(uuid.New(), []AnswerInput{
		{QuestionID: uuid.New(), Value: "a bare string"},
	})
	require.Error(t, err)
}
