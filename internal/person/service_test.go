package person

import (
	"context"
	"testing"

	"sondage-backend/internal"

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

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (Person, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(Person)
	return row, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (Person, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(Person)
	return row, args.Error(1)
}

func (m *mockQuerier) FindByEmail(ctx context.Context, email string) (Person, error) {
	args := m.Called(ctx, email)
	row, _ := args.Get(0).(Person)
	return row, args.Error(1)
}

func (m *mockQuerier) FindByPhoneNumber(ctx context.Context, phoneNumber string) (Person, error) {
	args := m.Called(ctx, phoneNumber)
	row, _ := args.Get(0).(Person)
	return row, args.Error(1)
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

func TestService_FindByContact(t *testing.T) {
	t.Parallel()

	existing := Person{ID: uuid.New(), Email: "jo@example.com", PhoneNumber: "0912345678"}

	t.Run("email takes precedence over phone", func(t *testing.T) {
		svc, q := newTestService(t)
		q.On("FindByEmail", mock.Anything, "jo@example.com").Return(existing, nil)

		got, found, err := svc.FindByContact(context.Background(), "jo@example.com", "0912345678")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, existing.ID, got.ID)
		q.AssertNotCalled(t, "FindByPhoneNumber", mock.Anything, mock.Anything)
	})

	t.Run("falls back to phone number when email empty", func(t *testing.T) {
		svc, q := newTestService(t)
		q.On("FindByPhoneNumber", mock.Anything, "0912345678").Return(existing, nil)

		got, found, err := svc.FindByContact(context.Background(), "", "0912345678")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, existing.ID, got.ID)
	})

	t.Run("no rows means not found, not an error", func(t *testing.T) {
		svc, q := newTestService(t)
		q.On("FindByEmail", mock.Anything, "nobody@example.com").Return(Person{}, pgx.ErrNoRows)

		_, found, err := svc.FindByContact(context.Background(), "nobody@example.com", "")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("rejects empty contact", func(t *testing.T) {
		svc, q := newTestService(t)

		_, _, err := svc.FindByContact(context.Background(), "", "")
		require.ErrorIs(t, err, internal.ErrPersonContactNeeded)
		q.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
		q.AssertNotCalled(t, "FindByPhoneNumber", mock.Anything, mock.Anything)
	})
}

func TestService_FindOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("returns existing person without creating", func(t *testing.T) {
		svc, q := newTestService(t)
		existing := Person{ID: uuid.New(), Email: "jo@example.com"}
		q.On("FindByEmail", mock.Anything, "jo@example.com").Return(existing, nil)

		got, created, err := svc.FindOrCreate(context.Background(), CreateParams{Email: "jo@example.com"})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, existing.ID, got.ID)
		q.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates when no match exists", func(t *testing.T) {
		svc, q := newTestService(t)
		input := CreateParams{Email: "new@example.com", FirstName: "Jo"}
		created := Person{ID: uuid.New(), Email: input.Email, FirstName: input.FirstName}
		q.On("FindByEmail", mock.Anything, input.Email).Return(Person{}, pgx.ErrNoRows)
		q.On("Create", mock.Anything, input).Return(created, nil)

		got, wasCreated, err := svc.FindOrCreate(context.Background(), input)
		require.NoError(t, err)
		require.True(t, wasCreated)
		require.Equal(t, created.ID, got.ID)
	})
}
