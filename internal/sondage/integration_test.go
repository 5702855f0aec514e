package sondage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"sondage-backend/internal/cache"
	"sondage-backend/internal/person"
	"sondage-backend/internal/sondage"
	"sondage-backend/internal/sondage/proposal"
	"sondage-backend/internal/sondage/question"
	"sondage-backend/internal/sondage/response"
	"sondage-backend/internal/sondage/shared"
	sondagebuilder "sondage-backend/test/testdata/dbbuilder/sondage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testTx opens a transaction against TEST_DATABASE_URL and rolls it back
// when the test finishes, so runs never leave rows behind. The schema has
// to be migrated beforehand.
func testTx(t *testing.T) pgx.Tx {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	pool, err := pgxpool.New(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return tx
}

func TestService_Result_Database(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	logger := zap.NewNop()

	builder := sondagebuilder.New(t, tx)

	survey := builder.Create(sondagebuilder.WithName("Team lunch"))
	numberQuestion := builder.CreateQuestion(survey.ID,
		sondagebuilder.WithTitle("How many guests?"),
		sondagebuilder.WithAnswerType(question.AnswerTypeNumber))
	choiceQuestion := builder.CreateQuestion(survey.ID,
		sondagebuilder.WithAnswerType(question.AnswerTypeSingleChoice))
	picked := builder.CreateProposal(choiceQuestion.ID, sondagebuilder.WithTitle("Pizza"))
	respondent := builder.CreatePerson(sondagebuilder.WithEmail("guest@example.com"))

	viewCache, err := cache.New(logger, "", 0)
	require.NoError(t, err)

	personService := person.NewService(logger, tx)
	proposalService := proposal.NewService(logger, tx, question.New(tx), viewCache)
	questionService := question.NewService(logger, tx, sondage.New(tx), proposalService, viewCache)
	responseService := response.NewService(logger, tx)
	sondageService := sondage.NewService(logger, tx, questionService, proposalService, responseService, personService, viewCache)

	_, err = responseService.CreateWithAnswers(ctx, survey.ID, respondent.ID, []response.AnswerInput{
		{QuestionID: numberQuestion.ID, Value: shared.NumberAnswer{Value: 3}},
		{QuestionID: choiceQuestion.ID, Value: shared.ChoiceAnswer{ProposalID: picked.ID}},
	})
	require.NoError(t, err)

	result, err := sondageService.Result(ctx, survey.ID)
	require.NoError(t, err)

	require.Equal(t, survey.ID, result.ID)
	require.Len(t, result.Questions, 2)
	require.Len(t, result.Responses, 1)
	require.Equal(t, "guest@example.com", result.Responses[0].Person.Email)
	require.Len(t, result.Responses[0].Answers, 2)

	details, err := sondageService.Details(ctx, survey.ID)
	require.NoError(t, err)
	require.Len(t, details.Questions, 2)
}

func TestService_Export_Database(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	logger := zap.NewNop()

	builder := sondagebuilder.New(t, tx)

	survey := builder.Create()
	textQuestion := builder.CreateQuestion(survey.ID, sondagebuilder.WithAnswerType(question.AnswerTypeFreeText))
	respondent := builder.CreatePerson()

	viewCache, err := cache.New(logger, "", 0)
	require.NoError(t, err)

	personService := person.NewService(logger, tx)
	proposalService := proposal.NewService(logger, tx, question.New(tx), viewCache)
	questionService := question.NewService(logger, tx, sondage.New(tx), proposalService, viewCache)
	responseService := response.NewService(logger, tx)
	sondageService := sondage.NewService(logger, tx, questionService, proposalService, responseService, personService, viewCache)

	_, err = responseService.CreateWithAnswers(ctx, survey.ID, respondent.ID, []response.AnswerInput{
		{QuestionID: textQuestion.ID, Value: shared.TextAnswer{Value: "see you there"}},
	})
	require.NoError(t, err)

	file, err := sondageService.ExportXLSX(ctx, survey.ID)
	require.NoError(t, err)
	require.NotNil(t, file)

	rows, err := file.GetRows("Responses")
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
