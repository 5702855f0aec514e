package sondage

import (
	"encoding/json"

	"sondage-backend/internal/person"
	"sondage-backend/internal/sondage/question"
	"sondage-backend/internal/sondage/response"

	"github.com/google/uuid"
)

// unknownAnswerMarker is what an aggregate view reports for an answer it
// cannot interpret, so one corrupt row never breaks the whole view.
var unknownAnswerMarker = map[string]any{"status": "Failed to understand this answer"}

type QuestionView struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	AnswerType int32     `json:"answer_type"`
}

type PersonView struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

type ResponseView struct {
	ID      uuid.UUID  `json:"id"`
	Person  PersonView `json:"person"`
	Answers []any      `json:"answers"`
}

type ResultView struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Questions   []QuestionView `json:"questions"`
	Responses   []ResponseView `json:"responses"`
}

type DetailsView struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Questions   []map[string]any `json:"questions"`
}

type answerView struct {
	QuestionID uuid.UUID `json:"question"`
	Title      string    `json:"title"`
	Value      any       `json:"value"`
}

// buildResultView shapes the flat rows into the nested result payload.
func buildResultView(
	s Sondage,
	questions []question.Question,
	responses []response.Response,
	answers []response.QuestionAnswer,
	persons map[uuid.UUID]person.Person,
) ResultView {
	view := ResultView{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Questions:   make([]QuestionView, 0, len(questions)),
		Responses:   make([]ResponseView, 0, len(responses)),
	}

	questionByID := make(map[uuid.UUID]question.Question, len(questions))
	for _, q := range questions {
		questionByID[q.ID] = q
		view.Questions = append(view.Questions, QuestionView{
			ID:         q.ID,
			Title:      q.Title,
			AnswerType: int32(q.AnswerType),
		})
	}

	answersByResponse := make(map[uuid.UUID][]response.QuestionAnswer)
	for _, a := range answers {
		answersByResponse[a.ResponseID] = append(answersByResponse[a.ResponseID], a)
	}

	for _, r := range responses {
		responseView := ResponseView{
			ID:      r.ID,
			Answers: make([]any, 0, len(answersByResponse[r.ID])),
		}
		if p, ok := persons[r.PersonID]; ok {
			responseView.Person = PersonView{
				Email:       p.Email,
				PhoneNumber: p.PhoneNumber,
				FirstName:   p.FirstName,
				LastName:    p.LastName,
			}
		}

		for _, a := range answersByResponse[r.ID] {
			responseView.Answers = append(responseView.Answers, buildAnswerView(a, questionByID))
		}

		view.Responses = append(view.Responses, responseView)
	}

	return view
}

// buildAnswerView normalizes one stored answer row. Any row it cannot make
// sense of, whether an unknown answer type or an empty value slot, becomes
// the marker object.
func buildAnswerView(a response.QuestionAnswer, questionByID map[uuid.UUID]question.Question) any {
	q, ok := questionByID[a.QuestionID]
	if !ok {
		return unknownAnswerMarker
	}

	var value any
	switch q.AnswerType {
	case question.AnswerTypeSingleChoice:
		if !a.ChoiceResponse.Valid {
			return unknownAnswerMarker
		}
		value = uuid.UUID(a.ChoiceResponse.Bytes).String()
	case question.AnswerTypeMultiChoice:
		var ids []string
		if err := json.Unmarshal(a.ChoicesResponse, &ids); err != nil {
			return unknownAnswerMarker
		}
		value = ids
	case question.AnswerTypeFreeText:
		if !a.TextResponse.Valid {
			return unknownAnswerMarker
		}
		value = a.TextResponse.String
	case question.AnswerTypeNumber:
		if !a.NumberResponse.Valid {
			return unknownAnswerMarker
		}
		value = a.NumberResponse.Int64
	default:
		return unknownAnswerMarker
	}

	return answerView{
		QuestionID: a.QuestionID,
		Title:      q.Title,
		Value:      value,
	}
}

// buildDetailsView shapes the survey and its questions; choice questions
// carry their proposals under response_proposal, other types have no such
// key at all.
func buildDetailsView(
	s Sondage,
	questions []question.Question,
	choicesByQuestion map[uuid.UUID][]question.Choice,
) DetailsView {
	view := DetailsView{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Questions:   make([]map[string]any, 0, len(questions)),
	}

	for _, q := range questions {
		entry := map[string]any{
			"id":          q.ID,
			"title":       q.Title,
			"answer_type": int32(q.AnswerType),
		}
		if q.AnswerType.HasProposals() {
			proposals := make([]map[string]any, 0, len(choicesByQuestion[q.ID]))
			for _, choice := range choicesByQuestion[q.ID] {
				proposals = append(proposals, map[string]any{
					"id":    choice.ID,
					"title": choice.Title,
				})
			}
			entry["response_proposal"] = proposals
		}
		view.Questions = append(view.Questions, entry)
	}

	return view
}
