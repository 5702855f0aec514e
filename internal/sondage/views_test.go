package sondage

import (
	"encoding/json"
	"testing"

	"sondage-backend/internal/person"
	"sondage-backend/internal/sondage/question"
	"sondage-backend/internal/sondage/response"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

func TestBuildResultView(t *testing.T) {
	t.Parallel()

	sondageID := uuid.New()
	numberQuestion := question.Question{
		ID:         uuid.New(),
		SondageID:  sondageID,
		Title:      "How many?",
		AnswerType: question.AnswerTypeNumber,
	}
	textQuestion := question.Question{
		ID:         uuid.New(),
		SondageID:  sondageID,
		Title:      "Tell us more",
		AnswerType: question.AnswerTypeFreeText,
	}

	respondent := person.Person{ID: uuid.New(), Email: "a@x.com"}
	resp := response.Response{ID: uuid.New(), SondageID: sondageID, PersonID: respondent.ID}

	answers := []response.QuestionAnswer{
		{
			ID:             uuid.New(),
			ResponseID:     resp.ID,
			QuestionID:     numberQuestion.ID,
			NumberResponse: pgtype.Int8{Int64: 5, Valid: true},
		},
		{
			ID:           uuid.New(),
			ResponseID:   resp.ID,
			QuestionID:   textQuestion.ID,
			TextResponse: pgtype.Text{String: "plenty", Valid: true},
		},
	}

	view := buildResultView(
		Sondage{ID: sondageID, Name: "Inventory"},
		[]question.Question{numberQuestion, textQuestion},
		[]response.Response{resp},
		answers,
		map[uuid.UUID]person.Person{respondent.ID: respondent},
	)

	require.Equal(t, sondageID, view.ID)
	require.Len(t, view.Questions, 2)
	require.Len(t, view.Responses, 1)
	require.Equal(t, "a@x.com", view.Responses[0].Person.Email)
	require.Len(t, view.Responses[0].Answers, 2)

	first, ok := view.Responses[0].Answers[0].(answerView)
	require.True(t, ok)
	require.Equal(t, numberQuestion.ID, first.QuestionID)
	require.Equal(t, "How many?", first.Title)
	require.Equal(t, int64(5), first.Value)

	second, ok := view.Responses[0].Answers[1].(answerView)
	require.True(t, ok)
	require.Equal(t, "plenty", second.Value)
}

func TestBuildAnswerView_Markers(t *testing.T) {
	t.Parallel()

	questionID := uuid.New()
	responseID := uuid.New()

	questionByID := map[uuid.UUID]question.Question{
		questionID: {ID: questionID, Title: "Broken", AnswerType: question.AnswerType(9)},
	}

	t.Run("unknown answer type yields the marker", func(t *testing.T) {
		got := buildAnswerView(response.QuestionAnswer{
			ResponseID:   responseID,
			QuestionID:   questionID,
			TextResponse: pgtype.Text{String: "whatever", Valid: true},
		}, questionByID)

		encoded, err := json.Marshal(got)
		require.NoError(t, err)
		require.JSONEq(t, `{"status": "Failed to understand this answer"}`, string(encoded))
	})

	t.Run("missing question yields the marker", func(t *testing.T) {
		got := buildAnswerView(response.QuestionAnswer{
			ResponseID: responseID,
			QuestionID: uuid.New(),
		}, questionByID)
		require.Equal(t, unknownAnswerMarker, got)
	})

	t.Run("empty slot for the declared type yields the marker", func(t *testing.T) {
		numberQuestionID := uuid.New()
		got := buildAnswerView(response.QuestionAnswer{
			ResponseID: responseID,
			QuestionID: numberQuestionID,
		}, map[uuid.UUID]question.Question{
			numberQuestionID: {ID: numberQuestionID, AnswerType: question.AnswerTypeNumber},
		})
		require.Equal(t, unknownAnswerMarker, got)
	})
}

func TestBuildDetailsView(t *testing.T) {
	t.Parallel()

	sondageID := uuid.New()
	choiceQuestion := question.Question{
		ID:         uuid.New(),
		SondageID:  sondageID,
		Title:      "Pick one",
		AnswerType: question.AnswerTypeSingleChoice,
	}
	textQuestion := question.Question{
		ID:         uuid.New(),
		SondageID:  sondageID,
		Title:      "Say something",
		AnswerType: question.AnswerTypeFreeText,
	}

	proposals := []question.Choice{
		{ID: uuid.New(), Title: "Yes"},
		{ID: uuid.New(), Title: "No"},
	}

	view := buildDetailsView(
		Sondage{ID: sondageID, Name: "Opinions"},
		[]question.Question{choiceQuestion, textQuestion},
		map[uuid.UUID][]question.Choice{choiceQuestion.ID: proposals},
	)

	require.Len(t, view.Questions, 2)

	withProposals := view.Questions[0]
	nested, ok := withProposals["response_proposal"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, nested, 2)
	require.Equal(t, "Yes", nested[0]["title"])

	_, hasKey := view.Questions[1]["response_proposal"]
	require.False(t, hasKey, "non-choice questions must not carry a response_proposal key")
}
